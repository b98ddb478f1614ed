package sample

import (
	"log"
	"time"

	"github.com/itohio/thermplot/pkg/adc"
	"github.com/itohio/thermplot/pkg/config"
	"github.com/itohio/thermplot/pkg/thermistor"
)

// Sample is a thermistor reading converted to physical values.
type Sample struct {
	Timestamp   time.Time
	ADC         uint16  // Raw (or averaged) ADC reading
	Voltage     float64 // Divider voltage (V)
	Resistance  float64 // Thermistor resistance (Ω)
	Temperature float64 // °C
}

// Converter transforms a Reading channel into a Sample channel.
type Converter func(in <-chan adc.Reading) <-chan Sample

// Model converts raw readings into samples.
type Model struct {
	Fit        thermistor.Polynomial
	Thermistor thermistor.Thermistor
}

// NewModel builds a Model from configuration.
func NewModel(cfg *config.Config) Model {
	return Model{
		Fit:        cfg.PolynomialFit(),
		Thermistor: cfg.ThermistorModel(),
	}
}

// Convert converts a single reading. Readings outside the valid ADC range give
// zero volts, as on the device.
func (m Model) Convert(r adc.Reading) Sample {
	return m.fromVoltage(r.Timestamp, r.Value, m.Fit.Reading(r.Value))
}

func (m Model) fromVoltage(ts time.Time, value uint16, voltage float64) Sample {
	resistance := m.Thermistor.Resistance(voltage)
	return Sample{
		Timestamp:   ts,
		ADC:         value,
		Voltage:     voltage,
		Resistance:  resistance,
		Temperature: m.Thermistor.Temperature(resistance),
	}
}

// NewConverter creates a converter that converts every reading.
func NewConverter(cfg *config.Config, bufSize int) Converter {
	return NewAveragingConverter(cfg, 1, bufSize)
}

// NewAveragingConverter creates a converter that emits one sample for every
// windowSize readings. Voltages are averaged before the resistance and
// temperature are derived, the same way the sensor firmware averages. A
// partial window left when the input closes is flushed.
func NewAveragingConverter(cfg *config.Config, windowSize int, bufSize int) Converter {
	if windowSize <= 0 {
		windowSize = 1
	}
	if bufSize <= 0 {
		bufSize = 100
	}
	model := NewModel(cfg)

	return func(in <-chan adc.Reading) <-chan Sample {
		out := make(chan Sample, bufSize)

		go func() {
			defer close(out)

			buffer := make([]adc.Reading, 0, windowSize)
			for raw := range in {
				buffer = append(buffer, raw)
				if len(buffer) < windowSize {
					continue
				}

				emit(out, model.Average(buffer))
				buffer = buffer[:0]
			}

			if len(buffer) > 0 {
				emit(out, model.Average(buffer))
			}
		}()

		return out
	}
}

// Average converts each reading and returns one sample with the mean voltage.
// The timestamp is the most recent reading's and ADC is the rounded mean.
func (m Model) Average(readings []adc.Reading) Sample {
	if len(readings) == 0 {
		return Sample{}
	}

	var sumVoltage float64
	var sumADC uint32
	for _, r := range readings {
		sumVoltage += m.Fit.Reading(r.Value)
		sumADC += uint32(r.Value)
	}

	n := float64(len(readings))
	avgADC := uint16(float64(sumADC)/n + 0.5)
	last := readings[len(readings)-1]

	return m.fromVoltage(last.Timestamp, avgADC, sumVoltage/n)
}

func emit(out chan<- Sample, s Sample) {
	select {
	case out <- s:
	case <-time.After(time.Second):
		log.Printf("Converter output channel full, dropping sample")
	}
}
