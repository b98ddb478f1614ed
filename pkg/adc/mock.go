package adc

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/itohio/thermplot/pkg/config"
)

// Mock simulates a thermistor ADC slowly drifting around a centre reading.
type Mock struct {
	cfg *config.MockConfig

	readings  chan Reading
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool

	startTime time.Time
}

// NewMock creates a new mocked device instance.
func NewMock(cfg *config.MockConfig) *Mock {
	if cfg == nil {
		cfg = &config.Default().Mock
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Mock{
		cfg:      cfg,
		readings: make(chan Reading, DefaultBufferSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Connect starts generating readings.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}
	if m.ctx.Err() != nil {
		return fmt.Errorf("mock device already closed")
	}

	m.connected = true
	m.startTime = time.Now()

	go m.generateReadings()

	return nil
}

// Close stops the mocked device.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	m.cancel()
	m.connected = false

	return nil
}

// Readings returns the channel of readings. It is closed after Close.
func (m *Mock) Readings() <-chan Reading {
	return m.readings
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// generateReadings emits simulated readings at the configured rate.
func (m *Mock) generateReadings() {
	defer close(m.readings)

	ticker := time.NewTicker(m.cfg.SampleRate)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case now := <-ticker.C:
			reading := Reading{
				Timestamp: now,
				Value:     m.valueAt(now.Sub(m.startTime)),
			}
			select {
			case m.readings <- reading:
			case <-m.ctx.Done():
				return
			default:
				// Channel full, skip
			}
		}
	}
}

// valueAt returns the simulated reading after elapsed time.
func (m *Mock) valueAt(elapsed time.Duration) uint16 {
	value := float64(m.cfg.Reading)

	if m.cfg.Period > 0 {
		phase := 2 * math.Pi * elapsed.Seconds() / m.cfg.Period.Seconds()
		value += float64(m.cfg.Swing) * math.Sin(phase)
	}

	// Deterministic pseudo-noise
	t := float64(elapsed.Nanoseconds())
	noise := (math.Sin(t*0.001) + math.Cos(t*0.0013)) * 0.5
	value += noise * float64(m.cfg.NoiseLevel)

	if value < 0 {
		return 0
	}
	if value > MaxValue {
		return MaxValue
	}
	return uint16(math.Round(value))
}
