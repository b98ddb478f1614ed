package sample

import (
	"testing"
	"time"

	"github.com/itohio/thermplot/pkg/adc"
	"github.com/itohio/thermplot/pkg/config"
	"github.com/itohio/thermplot/pkg/thermistor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, out <-chan Sample) []Sample {
	t.Helper()

	var samples []Sample
	timeout := time.After(2 * time.Second)
	for {
		select {
		case s, ok := <-out:
			if !ok {
				return samples
			}
			samples = append(samples, s)
		case <-timeout:
			t.Fatal("converter output not closed")
			return nil
		}
	}
}

func TestModel_Convert(t *testing.T) {
	model := NewModel(config.Default())
	now := time.Now()

	s := model.Convert(adc.Reading{Timestamp: now, Value: 2048})

	wantVoltage := thermistor.Voltage(2048)
	th := thermistor.Default()
	assert.Equal(t, now, s.Timestamp)
	assert.Equal(t, uint16(2048), s.ADC)
	assert.Equal(t, wantVoltage, s.Voltage)
	assert.InDelta(t, th.Resistance(wantVoltage), s.Resistance, 1e-9)
	assert.InDelta(t, th.TemperatureFromVoltage(wantVoltage), s.Temperature, 1e-9)
}

func TestModel_ConvertClampsInvalidReadings(t *testing.T) {
	model := NewModel(config.Default())

	s := model.Convert(adc.Reading{Value: 0})
	assert.Equal(t, float64(0), s.Voltage)
	assert.Equal(t, float64(0), s.Resistance)
}

func TestModel_Average(t *testing.T) {
	model := NewModel(config.Default())
	now := time.Now()

	readings := []adc.Reading{
		{Timestamp: now, Value: 1000},
		{Timestamp: now.Add(time.Millisecond), Value: 1001},
		{Timestamp: now.Add(2 * time.Millisecond), Value: 1003},
	}

	s := model.Average(readings)

	wantVoltage := (thermistor.Voltage(1000) + thermistor.Voltage(1001) + thermistor.Voltage(1003)) / 3
	assert.InDelta(t, wantVoltage, s.Voltage, 1e-12)
	assert.Equal(t, uint16(1001), s.ADC) // 1001.33 rounds down
	assert.Equal(t, readings[2].Timestamp, s.Timestamp)
	assert.InDelta(t, model.Thermistor.TemperatureFromVoltage(s.Voltage), s.Temperature, 1e-9)
}

func TestModel_AverageSingleMatchesConvert(t *testing.T) {
	model := NewModel(config.Default())
	r := adc.Reading{Timestamp: time.Now(), Value: 3000}

	assert.Equal(t, model.Convert(r), model.Average([]adc.Reading{r}))
	assert.Equal(t, Sample{}, model.Average(nil))
}

func TestNewModel_UsesConfiguredFit(t *testing.T) {
	cfg := config.Default()
	cfg.Polynomial.Coefficients = []float64{0, 0.001}

	model := NewModel(cfg)
	s := model.Convert(adc.Reading{Value: 1650})
	assert.InDelta(t, 1.65, s.Voltage, 1e-12)
	assert.InDelta(t, 10000, s.Resistance, 1e-6)
	assert.InDelta(t, 25, s.Temperature, 1e-9)
}

func TestNewConverter_ConvertsEveryReading(t *testing.T) {
	converter := NewConverter(config.Default(), 10)

	in := make(chan adc.Reading, 10)
	out := converter(in)

	for i := 0; i < 5; i++ {
		in <- adc.Reading{Timestamp: time.Now(), Value: uint16(100 * (i + 1))}
	}
	close(in)

	samples := collect(t, out)
	require.Len(t, samples, 5)
	for i, s := range samples {
		assert.Equal(t, uint16(100*(i+1)), s.ADC)
		assert.Equal(t, thermistor.Voltage(float64(100*(i+1))), s.Voltage)
	}
}

func TestNewAveragingConverter_WindowAndFlush(t *testing.T) {
	converter := NewAveragingConverter(config.Default(), 3, 10)

	in := make(chan adc.Reading, 10)
	out := converter(in)

	for _, v := range []uint16{10, 20, 30, 40, 50, 60, 70} {
		in <- adc.Reading{Timestamp: time.Now(), Value: v}
	}
	close(in)

	samples := collect(t, out)
	require.Len(t, samples, 3)
	assert.Equal(t, uint16(20), samples[0].ADC)
	assert.Equal(t, uint16(50), samples[1].ADC)
	assert.Equal(t, uint16(70), samples[2].ADC) // partial window flushed
}

func TestNewAveragingConverter_InvalidWindow(t *testing.T) {
	converter := NewAveragingConverter(config.Default(), 0, 0)

	in := make(chan adc.Reading, 2)
	out := converter(in)
	in <- adc.Reading{Value: 1}
	in <- adc.Reading{Value: 2}
	close(in)

	assert.Len(t, collect(t, out), 2)
}

func TestConverter_ClosedInput(t *testing.T) {
	in := make(chan adc.Reading)
	close(in)

	out := NewAveragingConverter(config.Default(), 10, 1)(in)
	assert.Empty(t, collect(t, out))
}

func TestDefaultAveragingWindow(t *testing.T) {
	cfg := config.Default()
	converter := NewAveragingConverter(cfg, cfg.Measurement.AverageSamples, 20)

	// One second of sensor output, one raw reading per line.
	start := time.Unix(1700000000, 0)
	in := make(chan adc.Reading, 100)
	out := converter(in)
	for i := 0; i < 100; i++ {
		in <- adc.Reading{
			Timestamp: start.Add(time.Duration(i) * cfg.Mock.SampleRate),
			Value:     uint16(2000 + i%10),
		}
	}
	close(in)

	samples := collect(t, out)
	require.Len(t, samples, 10, "ten readings per sample")
	for i := 1; i < len(samples); i++ {
		assert.Equal(t, 100*time.Millisecond, samples[i].Timestamp.Sub(samples[i-1].Timestamp))
	}

	// Voltages are averaged, not the raw counts.
	var want float64
	for v := 2000; v < 2010; v++ {
		want += thermistor.Voltage(float64(v))
	}
	assert.InDelta(t, want/10, samples[0].Voltage, 1e-12)
	assert.Equal(t, uint16(2005), samples[0].ADC) // 2004.5 rounds half up
}
