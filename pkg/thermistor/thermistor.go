package thermistor

import "math"

const kelvinOffset = 273.15

// Default parameters for a 10K 3950 NTC epoxy thermistor on the low side of a
// divider with a 10K fixed resistor to a 3.3V supply.
const (
	DefaultBValue             = 3950
	DefaultNominalResistance  = 10000
	DefaultNominalTemperature = 25
	DefaultSeriesResistance   = 10000
	DefaultSupplyVoltage      = 3.3
)

// Thermistor models an NTC thermistor with the B-parameter equation.
type Thermistor struct {
	BValue             float64 // Beta coefficient (K)
	NominalResistance  float64 // Resistance at NominalTemperature (Ω)
	NominalTemperature float64 // °C
	SeriesResistance   float64 // Fixed divider resistor (Ω)
	SupplyVoltage      float64 // Divider input (V)
}

// Default returns a Thermistor with the default parameters.
func Default() Thermistor {
	return Thermistor{
		BValue:             DefaultBValue,
		NominalResistance:  DefaultNominalResistance,
		NominalTemperature: DefaultNominalTemperature,
		SeriesResistance:   DefaultSeriesResistance,
		SupplyVoltage:      DefaultSupplyVoltage,
	}
}

// Resistance converts the divider voltage to thermistor resistance in ohms.
// Formula: R = Rs * V / (Vin - V)
func (t Thermistor) Resistance(voltage float64) float64 {
	return t.SeriesResistance * voltage / (t.SupplyVoltage - voltage)
}

// Temperature converts thermistor resistance to degrees celsius.
// Formula: 1/T = ln(R/R0)/B + 1/T0
func (t Thermistor) Temperature(resistance float64) float64 {
	inv := math.Log(resistance/t.NominalResistance) / t.BValue
	inv += 1.0 / (t.NominalTemperature + kelvinOffset)
	return 1.0/inv - kelvinOffset
}

// TemperatureFromVoltage converts the divider voltage to degrees celsius.
func (t Thermistor) TemperatureFromVoltage(voltage float64) float64 {
	return t.Temperature(t.Resistance(voltage))
}
