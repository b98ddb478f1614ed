package adc

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	// DefaultBaudRate matches the sensor firmware UART.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the readings channel buffer.
	DefaultBufferSize = 100
	// MaxValue is the largest 12-bit ADC reading.
	MaxValue = 4095
)

// Reading is a raw ADC reading reported by the sensor.
type Reading struct {
	Timestamp time.Time
	Value     uint16 // 12-bit ADC reading (0-4095)
}

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial reads thermistor ADC values streamed by the sensor over a serial port.
type Serial struct {
	port     string
	baudRate int
	bufSize  int

	conn      io.ReadCloser
	readings  chan Reading
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
	started   bool // readings is single use; set once a read loop has run
}

// New creates a new Serial device with the specified port, baud rate, and buffer size.
func New(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:     port,
		baudRate: baudRate,
		bufSize:  bufSize,
		readings: make(chan Reading, bufSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect opens the serial port and starts reading values.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}
	if d.started || d.ctx.Err() != nil {
		return fmt.Errorf("serial device %s already closed", d.port)
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.attach(port)

	return nil
}

// attach starts reading from conn. Callers must hold d.mu.
func (d *Serial) attach(conn io.ReadCloser) {
	d.conn = conn
	d.connected = true
	d.started = true

	go d.readLoop(conn)
}

// Close closes the connection and stops reading.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancel()

	if !d.connected {
		return nil
	}

	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			log.Printf("Error closing serial port: %v", err)
		}
		d.conn = nil
	}

	d.connected = false

	return nil
}

// Readings returns the channel of readings. It is closed once the port is
// closed or the stream ends.
func (d *Serial) Readings() <-chan Reading {
	return d.readings
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// readLoop reads lines from the serial port until it closes.
func (d *Serial) readLoop(r io.Reader) {
	defer close(d.readings)
	defer d.disconnect()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in readLoop: %v", r)
		}
	}()

	scan(d.ctx, r, d.readings)
}

// disconnect releases the port when the stream ends without Close, e.g. on
// EOF or when the device is unplugged.
func (d *Serial) disconnect() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return
	}
	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			log.Printf("Error closing serial port: %v", err)
		}
		d.conn = nil
	}
	d.connected = false
	log.Printf("Serial port %s disconnected", d.port)
}

// scan parses newline separated readings from r into out until r is exhausted
// or ctx is cancelled. Malformed lines are logged and skipped; readings are
// dropped when out is full.
func scan(ctx context.Context, r io.Reader, out chan<- Reading) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		reading, err := parseLine(line, time.Now())
		if err != nil {
			log.Printf("Failed to parse line '%s': %v", line, err)
			continue
		}

		select {
		case out <- reading:
		case <-ctx.Done():
			return
		default:
			log.Printf("Readings channel full, dropping reading")
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		log.Printf("Error reading from serial port: %v", err)
	}
}

// parseLine parses a line from the sensor into a Reading.
// Format: "reading" or "unix_micros,reading".
// Example: 2048 or 1234567890123,2048
// Lines without a timestamp are stamped with now.
func parseLine(line string, now time.Time) (Reading, error) {
	parts := strings.Split(line, ",")

	var valueStr string
	timestamp := now

	switch len(parts) {
	case 1:
		valueStr = parts[0]
	case 2:
		micros, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return Reading{}, fmt.Errorf("invalid timestamp: %w", err)
		}
		timestamp = time.UnixMicro(micros)
		valueStr = parts[1]
	default:
		return Reading{}, fmt.Errorf("invalid line format: expected 1 or 2 comma-separated values, got %d", len(parts))
	}

	value, err := strconv.ParseUint(strings.TrimSpace(valueStr), 10, 16)
	if err != nil {
		return Reading{}, fmt.Errorf("invalid reading: %w", err)
	}
	if value > MaxValue {
		return Reading{}, fmt.Errorf("reading out of range: %d (max %d)", value, MaxValue)
	}

	return Reading{
		Timestamp: timestamp,
		Value:     uint16(value),
	}, nil
}
