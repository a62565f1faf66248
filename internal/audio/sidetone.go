// internal/audio/sidetone.go
// Package audio renders Morse pulses as a keyed sine tone on the
// default playback device.
package audio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
)

var (
	ErrNotInitialized = errors.New("sidetone not initialized")
	ErrAlreadyRunning = errors.New("sidetone already running")
)

// Config holds sidetone generation settings
type Config struct {
	Frequency  float64 // tone frequency in Hz, e.g. 600
	SampleRate uint32  // e.g. 48000
	Gain       float64 // output level, 0.0-1.0
}

// DefaultConfig returns sensible defaults for a CW sidetone
func DefaultConfig() Config {
	return Config{
		Frequency:  600,
		SampleRate: 48000,
		Gain:       0.5,
	}
}

// envelopeCoeff controls how fast the keying envelope opens and
// closes, per sample. Keying the oscillator through a short ramp
// instead of a hard gate keeps the tone free of clicks.
const envelopeCoeff = 0.01

// Sidetone is a continuously running playback device whose oscillator
// is keyed on and off. It satisfies the player.Blinker interface.
type Sidetone struct {
	config  Config
	ctx     *malgo.AllocatedContext
	device  *malgo.Device
	running bool
	mu      sync.Mutex

	// Oscillator state, touched only from the audio thread apart
	// from the keyed flag.
	keyed    bool
	phase    float64
	envelope float64

	sleep func(time.Duration)
}

// New creates a sidetone generator.
func New(cfg Config) *Sidetone {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 48000
	}
	if cfg.Frequency <= 0 {
		cfg.Frequency = 600
	}
	if cfg.Gain <= 0 || cfg.Gain > 1 {
		cfg.Gain = 0.5
	}
	return &Sidetone{
		config: cfg,
		sleep:  time.Sleep,
	}
}

// Init initializes the audio backend
func (s *Sidetone) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("init audio context: %w", err)
	}
	s.ctx = ctx
	return nil
}

// Start opens the default playback device and begins rendering
// silence until the tone is keyed.
func (s *Sidetone) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}
	if s.ctx == nil {
		return ErrNotInitialized
	}

	deviceConfig := malgo.DeviceConfig{
		DeviceType: malgo.Playback,
		SampleRate: s.config.SampleRate,
		Playback: malgo.SubConfig{
			Format:   malgo.FormatF32,
			Channels: 1,
		},
	}

	step := 2 * math.Pi * s.config.Frequency / float64(s.config.SampleRate)

	onSendFrames := func(outputSamples, inputSamples []byte, frameCount uint32) {
		s.mu.Lock()
		target := 0.0
		if s.keyed {
			target = 1.0
		}
		s.mu.Unlock()

		for i := uint32(0); i < frameCount; i++ {
			// One-pole ramp toward the key target
			s.envelope += (target - s.envelope) * envelopeCoeff

			sample := float32(math.Sin(s.phase) * s.envelope * s.config.Gain)
			putFloat32LE(outputSamples[i*4:], sample)

			s.phase += step
			if s.phase > 2*math.Pi {
				s.phase -= 2 * math.Pi
			}
		}
	}

	device, err := malgo.InitDevice(s.ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onSendFrames,
	})
	if err != nil {
		return fmt.Errorf("init playback device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("start playback device: %w", err)
	}

	s.device = device
	s.running = true
	return nil
}

// Blink keys the tone for d. Part of the player.Blinker interface.
func (s *Sidetone) Blink(_ context.Context, d time.Duration) error {
	s.key(true)
	s.sleep(d)
	s.key(false)
	return nil
}

func (s *Sidetone) key(on bool) {
	s.mu.Lock()
	s.keyed = on
	s.mu.Unlock()
}

// Close stops playback and releases all audio resources.
func (s *Sidetone) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.device != nil {
		_ = s.device.Stop()
		s.device.Uninit()
		s.device = nil
	}
	s.running = false

	if s.ctx != nil {
		if err := s.ctx.Uninit(); err != nil {
			return fmt.Errorf("uninit audio context: %w", err)
		}
		s.ctx.Free()
		s.ctx = nil
	}
	return nil
}

// putFloat32LE writes a little-endian float32 sample into out.
func putFloat32LE(out []byte, v float32) {
	bits := math.Float32bits(v)
	out[0] = byte(bits)
	out[1] = byte(bits >> 8)
	out[2] = byte(bits >> 16)
	out[3] = byte(bits >> 24)
}
