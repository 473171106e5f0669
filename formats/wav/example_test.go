// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"fmt"

	"github.com/ik5/speechcapture/audio"
	"github.com/ik5/speechcapture/formats/wav"
)

func ExampleStreamSink() {
	f := audio.Format{Channels: 1, SampleRate: 16000, FramesPerBuffer: 160}

	var buf bytes.Buffer
	sink := wav.StreamSink{W: &buf}

	if err := sink.Save([]audio.Block{make(audio.Block, 160)}, f); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(buf.Len())
	// Output: 364
}
