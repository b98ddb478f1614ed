// Package sweep evaluates a converter over a range of ADC values and reports
// the resulting curve.
package sweep

import (
	"fmt"
	"io"

	"github.com/itohio/thermplot/pkg/thermistor"
)

// DefaultSize is the number of ADC values in the default sweep (0..4094).
const DefaultSize = 4095

// Sweep holds ADC values and the voltages computed from them.
// ADC[i] and Voltages[i] always correspond.
type Sweep struct {
	ADC      []int
	Voltages []float64
}

// Range returns the values 0, 1, ..., n-1.
func Range(n int) []int {
	if n <= 0 {
		return []int{}
	}
	values := make([]int, n)
	for i := range values {
		values[i] = i
	}
	return values
}

// Run maps convert over adc.
func Run(adc []int, convert func(float64) float64) Sweep {
	voltages := make([]float64, len(adc))
	for i, x := range adc {
		voltages[i] = convert(float64(x))
	}
	return Sweep{
		ADC:      adc,
		Voltages: voltages,
	}
}

// New returns the default sweep over 0..4094 using thermistor.Voltage.
func New() Sweep {
	return Run(Range(DefaultSize), thermistor.Voltage)
}

// Len returns the number of points.
func (s Sweep) Len() int {
	return len(s.ADC)
}

// Points returns the sweep as float64 x/y series for plotting.
func (s Sweep) Points() (xs, ys []float64) {
	xs = make([]float64, len(s.ADC))
	for i, x := range s.ADC {
		xs[i] = float64(x)
	}
	ys = make([]float64, len(s.Voltages))
	copy(ys, s.Voltages)
	return xs, ys
}

// Report writes the sweep as two lines: "in [...]" and "out [...]".
func (s Sweep) Report(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "in %v\n", s.ADC); err != nil {
		return fmt.Errorf("failed to write adc values: %w", err)
	}
	if _, err := fmt.Fprintf(w, "out %v\n", s.Voltages); err != nil {
		return fmt.Errorf("failed to write voltages: %w", err)
	}
	return nil
}
