// Package simulator provides a virtual rangefinder for running the lab
// without hardware. It speaks the same newline-delimited JSON protocol as the
// serial device, modelling a reflector pulled away from the speaker at
// constant speed with gaussian measurement noise and occasional echo failures.
package simulator

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/autolab/resonance/pkg/internal/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// DefaultInterval matches the real device's 10Hz sample rate.
	DefaultInterval = 100 * time.Millisecond

	DefaultStartMM     = 80.0
	DefaultSpeedMMPerS = 40.0
	DefaultNoiseSigma  = 0.8
	DefaultErrorRate   = 0.02

	portPath = "sim://rangefinder"
)

// Simulator implements types.PortOpener with a software device.
type Simulator struct {
	interval    time.Duration
	startMM     float64
	speedMMPerS float64
	errorRate   float64
	noise       distuv.Normal
	uniform     distuv.Uniform
}

// Option configures the simulator.
type Option func(*Simulator)

// WithInterval sets the sample period.
func WithInterval(interval time.Duration) Option {
	return func(s *Simulator) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithMotion sets the reflector's start position and speed.
func WithMotion(startMM, speedMMPerS float64) Option {
	return func(s *Simulator) {
		s.startMM = startMM
		s.speedMMPerS = speedMMPerS
	}
}

// WithNoiseSigma sets the measurement noise standard deviation in mm.
func WithNoiseSigma(sigma float64) Option {
	return func(s *Simulator) {
		if sigma >= 0 {
			s.noise.Sigma = sigma
		}
	}
}

// WithErrorRate sets the probability of an echo-failure sentinel per sample.
func WithErrorRate(rate float64) Option {
	return func(s *Simulator) {
		if rate >= 0 && rate < 1 {
			s.errorRate = rate
		}
	}
}

// WithSeed makes the noise stream reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		src := rand.NewSource(seed)
		s.noise.Src = src
		s.uniform.Src = src
	}
}

// NewSimulator builds a virtual device opener.
func NewSimulator(options ...Option) types.PortOpener {
	src := rand.NewSource(uint64(time.Now().UnixNano()))
	s := &Simulator{
		interval:    DefaultInterval,
		startMM:     DefaultStartMM,
		speedMMPerS: DefaultSpeedMMPerS,
		errorRate:   DefaultErrorRate,
		noise:       distuv.Normal{Mu: 0, Sigma: DefaultNoiseSigma, Src: src},
		uniform:     distuv.Uniform{Min: 0, Max: 1, Src: src},
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// List reports the single virtual device.
func (s *Simulator) List() ([]string, error) {
	return []string{portPath}, nil
}

// Open starts the device clock and begins emitting protocol lines.
func (s *Simulator) Open(path string, baudRate int) (io.ReadWriteCloser, error) {
	if path != portPath {
		return nil, fmt.Errorf("simulator: unknown port %q", path)
	}

	pr, pw := io.Pipe()
	port := &virtualPort{reader: pr, writer: pw, done: make(chan struct{})}
	go s.emit(pw, port.done)
	return port, nil
}

// emit writes one protocol line per interval until the port closes.
func (s *Simulator) emit(w *io.PipeWriter, done <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			elapsed := now.Sub(start).Seconds()
			value := s.startMM + s.speedMMPerS*elapsed + s.noise.Rand()
			if s.errorRate > 0 && s.uniform.Rand() < s.errorRate {
				value = -1
			}
			line := fmt.Sprintf(`{"type":"distance","value":%.1f,"timestamp":%.1f}`+"\n",
				value, elapsed*1000)
			if _, err := io.WriteString(w, line); err != nil {
				return
			}
		}
	}
}

type virtualPort struct {
	reader *io.PipeReader
	writer *io.PipeWriter

	closeOnce sync.Once
	done      chan struct{}
}

func (p *virtualPort) Read(b []byte) (int, error) { return p.reader.Read(b) }

// Write accepts and discards host-to-device traffic; the real device has no
// inbound commands either.
func (p *virtualPort) Write(b []byte) (int, error) { return len(b), nil }

func (p *virtualPort) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
		_ = p.writer.Close()
		_ = p.reader.Close()
	})
	return nil
}
