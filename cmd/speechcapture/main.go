// SPDX-License-Identifier: EPL-2.0

// Command speechcapture records one utterance from the microphone or an
// audio file and saves it as WAV or AIFF.
//
// Usage:
//
//	speechcapture [-config capture.yaml] [-input speech.mp3] [-out utterance.wav]
//
// An interrupt stops the recording and saves what was captured so far.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ik5/speechcapture/audio"
	"github.com/ik5/speechcapture/device/file"
	"github.com/ik5/speechcapture/device/portaudio"
	"github.com/ik5/speechcapture/formats/aiff"
	"github.com/ik5/speechcapture/formats/wav"
	"github.com/ik5/speechcapture/internal/config"
	"github.com/ik5/speechcapture/internal/logging"
	"github.com/ik5/speechcapture/internal/metrics"
	"github.com/ik5/speechcapture/recorder"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	input := flag.String("input", "", "Read from an audio file instead of the microphone")
	out := flag.String("out", "", "Output file (.wav, .aiff or - for WAV on stdout)")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *input, *out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Error("capture failed", zap.Error(err))
		os.Exit(1)
	}
}

func loadConfig(path, input, out string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if input != "" {
		cfg.Input.Device = config.DeviceFile
		cfg.Input.Path = input
	}
	if out != "" {
		cfg.Output.Path = out
	}

	return cfg, cfg.Validate()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	collector := metrics.New(reg)

	if cfg.Metrics.Address != "" {
		srv := serveMetrics(cfg.Metrics.Address, reg, logger)
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("stopping metrics server", zap.Error(err))
			}
		}()
	}

	dev, err := openDevice(cfg.Input, logger)
	if err != nil {
		return err
	}

	f := cfg.Audio.Format()
	rec, err := recorder.New(dev, newSink(cfg.Output.Path), f,
		recorder.WithParams(cfg.Endpointing.Params()),
		recorder.WithLogger(logger),
		recorder.WithObserver(collector),
	)
	if err != nil {
		_ = dev.Terminate()
		return err
	}
	defer rec.Terminate()

	logger.Info("capture starting",
		zap.String("device", cfg.Input.Device),
		zap.String("output", cfg.Output.Path),
		zap.Int("sample_rate", f.SampleRate),
		zap.Int("channels", f.Channels),
		zap.Float64("max_silent_blocks", rec.MaxSilentBlocks()),
	)

	if cfg.Endpointing.AmbientSeconds > 0 {
		logger.Info("adjusting for ambient noise, stay quiet",
			zap.Float64("seconds", cfg.Endpointing.AmbientSeconds),
		)
		if _, err := rec.Calibrate(ctx, cfg.Endpointing.AmbientSeconds); err != nil {
			return fmt.Errorf("calibrating: %w", err)
		}
	}

	logger.Info("recording, speak now")

	// the recording keeps its own context so an interrupt can stop and save it
	done := rec.RecordAsync(context.Background())

	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("interrupted, saving capture")
		if err := rec.Stop(); err != nil {
			return err
		}
		if err := <-done; err != nil {
			return err
		}
	}

	logger.Info("utterance saved", zap.String("output", cfg.Output.Path))
	return nil
}

func openDevice(in config.InputConfig, logger *zap.Logger) (audio.Device, error) {
	if in.Device == config.DeviceFile {
		opts := []file.Option{file.WithLogger(logger)}
		if in.Paced {
			opts = append(opts, file.Paced())
		}
		if in.PadWithSilence {
			opts = append(opts, file.PadWithSilence())
		}
		return file.New(in.Path, opts...), nil
	}

	dev, err := portaudio.New(portaudio.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("opening microphone: %w", err)
	}

	return dev, nil
}

func newSink(path string) recorder.Sink {
	if path == "-" {
		return wav.StreamSink{W: os.Stdout}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".aiff", ".aif":
		return aiff.FileSink{Path: path}
	default:
		return wav.FileSink{Path: path}
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics server listening", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	return srv
}
