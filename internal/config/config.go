// SPDX-License-Identifier: EPL-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ik5/speechcapture/audio"
	"github.com/ik5/speechcapture/endpoint"
)

// Input devices.
const (
	DeviceMicrophone = "microphone"
	DeviceFile       = "file"
)

// Config represents the complete capture configuration
type Config struct {
	Audio       AudioConfig       `yaml:"audio"`
	Endpointing EndpointingConfig `yaml:"endpointing"`
	Input       InputConfig       `yaml:"input"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// AudioConfig is the capture format
type AudioConfig struct {
	Channels        int `yaml:"channels"`
	SampleRate      int `yaml:"sample_rate"`
	FramesPerBuffer int `yaml:"frames_per_buffer"`
}

// EndpointingConfig tunes silence detection and calibration
type EndpointingConfig struct {
	MinEnergy float64 `yaml:"min_energy"`
	// nil (null in YAML) never ends an utterance on silence
	MaxSecondsOfSilence         *float64 `yaml:"max_seconds_of_silence"`
	MaxSilenceMultiplier        float64  `yaml:"max_silence_multiplier"`
	StandardDeviationMultiplier float64  `yaml:"standard_deviation_multiplier"`
	// seconds of ambient noise to calibrate on; 0 skips calibration
	AmbientSeconds float64 `yaml:"ambient_seconds"`
}

// InputConfig selects the audio source
type InputConfig struct {
	Device         string `yaml:"device"`
	Path           string `yaml:"path"`
	Paced          bool   `yaml:"paced"`
	PadWithSilence bool   `yaml:"pad_with_silence"`
}

// OutputConfig is where utterances are saved. "-" writes WAV to stdout.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig enables the Prometheus endpoint when Address is set
type MetricsConfig struct {
	Address string `yaml:"address"`
}

// Default mirrors audio.DefaultFormat and endpoint.DefaultParams.
func Default() *Config {
	f := audio.DefaultFormat()
	p := endpoint.DefaultParams()
	silence := p.MaxSecondsOfSilence

	return &Config{
		Audio: AudioConfig{
			Channels:        f.Channels,
			SampleRate:      f.SampleRate,
			FramesPerBuffer: f.FramesPerBuffer,
		},
		Endpointing: EndpointingConfig{
			MinEnergy:                   p.MinEnergy,
			MaxSecondsOfSilence:         &silence,
			MaxSilenceMultiplier:        p.MaxSilenceMultiplier,
			StandardDeviationMultiplier: p.StandardDeviationMultiplier,
			AmbientSeconds:              1,
		},
		Input: InputConfig{
			Device: DeviceMicrophone,
		},
		Output: OutputConfig{
			Path: "utterance.wav",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the configuration file over Default
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes YAML over Default and validates the result. Unknown keys
// are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}

	if err := c.Endpointing.Validate(); err != nil {
		return fmt.Errorf("endpointing config: %w", err)
	}

	if err := c.Input.Validate(); err != nil {
		return fmt.Errorf("input config: %w", err)
	}

	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

func (a *AudioConfig) Validate() error {
	return a.Format().Validate()
}

func (a *AudioConfig) Format() audio.Format {
	return audio.Format{
		Channels:        a.Channels,
		SampleRate:      a.SampleRate,
		FramesPerBuffer: a.FramesPerBuffer,
	}
}

func (e *EndpointingConfig) Validate() error {
	if err := e.Params().Validate(); err != nil {
		return err
	}

	if e.AmbientSeconds < 0 {
		return fmt.Errorf("ambient_seconds must be >= 0, got %v", e.AmbientSeconds)
	}

	return nil
}

func (e *EndpointingConfig) Params() endpoint.Params {
	silence := endpoint.Unbounded
	if e.MaxSecondsOfSilence != nil {
		silence = *e.MaxSecondsOfSilence
	}

	return endpoint.Params{
		MinEnergy:                   e.MinEnergy,
		MaxSecondsOfSilence:         silence,
		MaxSilenceMultiplier:        e.MaxSilenceMultiplier,
		StandardDeviationMultiplier: e.StandardDeviationMultiplier,
	}
}

func (i *InputConfig) Validate() error {
	switch i.Device {
	case DeviceMicrophone:
	case DeviceFile:
		if i.Path == "" {
			return errors.New("path is required for the file device")
		}
	default:
		return fmt.Errorf("device must be %q or %q, got %q", DeviceMicrophone, DeviceFile, i.Device)
	}

	return nil
}

func (o *OutputConfig) Validate() error {
	if strings.TrimSpace(o.Path) == "" {
		return errors.New("path cannot be empty")
	}

	return nil
}

func (l *LoggingConfig) Validate() error {
	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("level must be one of debug, info, warn, error, got %q", l.Level)
	}

	switch l.Format {
	case "console", "json":
	default:
		return fmt.Errorf("format must be console or json, got %q", l.Format)
	}

	return nil
}
