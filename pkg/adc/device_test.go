package adc

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	now := time.Unix(1700000000, 0)

	tests := []struct {
		name    string
		line    string
		want    Reading
		wantErr bool
	}{
		{
			name: "value only",
			line: "2048",
			want: Reading{Timestamp: now, Value: 2048},
		},
		{
			name: "timestamp and value",
			line: "1234567890123,1024",
			want: Reading{Timestamp: time.UnixMicro(1234567890123), Value: 1024},
		},
		{
			name: "spaces around fields",
			line: "1234567890123, 17",
			want: Reading{Timestamp: time.UnixMicro(1234567890123), Value: 17},
		},
		{
			name: "zero reading",
			line: "0",
			want: Reading{Timestamp: now, Value: 0},
		},
		{
			name: "max ADC value",
			line: "4095",
			want: Reading{Timestamp: now, Value: 4095},
		},
		{
			name:    "invalid - reading out of range",
			line:    "4096",
			wantErr: true,
		},
		{
			name:    "invalid - too many fields",
			line:    "1,2,3",
			wantErr: true,
		},
		{
			name:    "invalid - non-numeric reading",
			line:    "abc",
			wantErr: true,
		},
		{
			name:    "invalid - negative reading",
			line:    "-1",
			wantErr: true,
		},
		{
			name:    "invalid - bad timestamp",
			line:    "yesterday,100",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLine(tt.line, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Timestamp.Equal(got.Timestamp), "timestamp %v != %v", tt.want.Timestamp, got.Timestamp)
			assert.Equal(t, tt.want.Value, got.Value)
		})
	}
}

func TestScan_SkipsMalformedLines(t *testing.T) {
	input := "100\n\nbogus\n1234567890123,200\n5000\n300\r\n"
	out := make(chan Reading, 10)

	scan(context.Background(), strings.NewReader(input), out)
	close(out)

	var values []uint16
	for r := range out {
		values = append(values, r.Value)
	}
	assert.Equal(t, []uint16{100, 200, 300}, values)
}

func TestScan_DropsWhenFull(t *testing.T) {
	out := make(chan Reading, 2)

	scan(context.Background(), strings.NewReader("1\n2\n3\n4\n"), out)
	close(out)

	var values []uint16
	for r := range out {
		values = append(values, r.Value)
	}
	assert.Equal(t, []uint16{1, 2}, values)
}

func TestScan_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan Reading, 10)
	scan(ctx, strings.NewReader("1\n2\n3\n"), out)
	assert.Len(t, out, 0)
}

func TestSerial_NewDefaults(t *testing.T) {
	d := New("/dev/null-port", 0, 0)

	assert.Equal(t, DefaultBaudRate, d.baudRate)
	assert.Equal(t, DefaultBufferSize, d.bufSize)
	assert.Equal(t, DefaultBufferSize, cap(d.readings))
	assert.False(t, d.IsConnected())
	assert.NoError(t, d.Close(), "closing an unconnected device is a no-op")
}

func TestSerial_ConnectMissingPort(t *testing.T) {
	d := New("/dev/does-not-exist-thermplot", DefaultBaudRate, 10)

	err := d.Connect()
	assert.Error(t, err)
	assert.False(t, d.IsConnected())
}

// drain collects readings until the channel closes.
func drain(t *testing.T, readings <-chan Reading) []uint16 {
	t.Helper()

	var values []uint16
	timeout := time.After(2 * time.Second)
	for {
		select {
		case r, ok := <-readings:
			if !ok {
				return values
			}
			values = append(values, r.Value)
		case <-timeout:
			t.Fatal("readings channel not closed")
			return nil
		}
	}
}

func TestSerial_ConnectAfterClose(t *testing.T) {
	d := New("/dev/ttyTEST", DefaultBaudRate, 10)
	pr, pw := io.Pipe()
	defer pw.Close()

	d.mu.Lock()
	d.attach(pr)
	d.mu.Unlock()
	require.True(t, d.IsConnected())

	require.NoError(t, d.Close())
	drain(t, d.Readings())
	assert.False(t, d.IsConnected())

	err := d.Connect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already closed")
	assert.False(t, d.IsConnected())
}

func TestSerial_ConnectAfterClose_NeverConnected(t *testing.T) {
	d := New("/dev/ttyTEST", DefaultBaudRate, 10)
	require.NoError(t, d.Close())

	err := d.Connect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already closed")
}

func TestSerial_StreamEndDisconnects(t *testing.T) {
	d := New("/dev/ttyTEST", DefaultBaudRate, 10)
	pr, pw := io.Pipe()

	d.mu.Lock()
	d.attach(pr)
	d.mu.Unlock()

	go func() {
		_, _ = io.WriteString(pw, "1234567890123,100\n200\n")
		pw.Close()
	}()

	assert.Equal(t, []uint16{100, 200}, drain(t, d.Readings()))
	assert.False(t, d.IsConnected())
	d.mu.RLock()
	assert.Nil(t, d.conn)
	d.mu.RUnlock()

	// Reconnecting would reuse the closed readings channel.
	assert.Error(t, d.Connect())
	assert.NoError(t, d.Close())
}
