package thermistor

import "math"

// Coefficients of the quartic fit from raw 12-bit ADC readings to volts.
const (
	C4 = -1.6e-14
	C3 = 1.18171e-13
	C2 = -3.01211691e-7
	C1 = 1.109019271794e-3
	C0 = 3.4143524634089e-2
)

// MaxReading is the largest value a 12-bit ADC reports.
const MaxReading = 4095

// Polynomial holds coefficients indexed by power: p[0] + p[1]*x + ... + p[4]*x^4.
type Polynomial [5]float64

// ADCVoltage is the polynomial used by Voltage.
var ADCVoltage = Polynomial{C0, C1, C2, C3, C4}

// Eval evaluates the polynomial at x.
func (p Polynomial) Eval(x float64) float64 {
	return p[4]*math.Pow(x, 4) + p[3]*math.Pow(x, 3) + p[2]*math.Pow(x, 2) + p[1]*x + p[0]
}

// Voltage converts an ADC value to volts. The input is not range checked.
func Voltage(x float64) float64 {
	return ADCVoltage.Eval(x)
}

// ReadingToVoltage converts a raw device reading to volts.
// Readings outside [1, MaxReading] yield 0, as the sensor firmware does.
func ReadingToVoltage(adc uint16) float64 {
	return ADCVoltage.Reading(adc)
}

// Reading converts a raw device reading with p, clamping like ReadingToVoltage.
func (p Polynomial) Reading(adc uint16) float64 {
	if adc < 1 || adc > MaxReading {
		return 0
	}
	return p.Eval(float64(adc))
}
