package config

import (
	"fmt"
	"os"
	"time"

	"github.com/itohio/thermplot/pkg/thermistor"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultSampleInterval is how often the sensor firmware streams a reading.
	DefaultSampleInterval = 10 * time.Millisecond
	// DefaultAverageSamples readings are averaged into one sample, giving one
	// sample per 100 ms at DefaultSampleInterval.
	DefaultAverageSamples = 10
)

// Config represents the application configuration.
type Config struct {
	Sweep       SweepConfig       `yaml:"sweep"`
	Polynomial  PolynomialConfig  `yaml:"polynomial"`
	Thermistor  ThermistorConfig  `yaml:"thermistor"`
	Chart       ChartConfig       `yaml:"chart"`
	Serial      SerialConfig      `yaml:"serial"`
	Measurement MeasurementConfig `yaml:"measurement"`
	Mock        MockConfig        `yaml:"mock"`
}

// SweepConfig contains the ADC range that is evaluated and reported.
type SweepConfig struct {
	Size int `yaml:"size"` // Number of ADC values, starting at 0
}

// PolynomialConfig contains the ADC to voltage fit, indexed by power.
type PolynomialConfig struct {
	Coefficients []float64 `yaml:"coefficients"`
}

// ThermistorConfig contains thermistor and divider parameters.
type ThermistorConfig struct {
	BValue             float64 `yaml:"b_value"`
	NominalResistance  float64 `yaml:"nominal_resistance"`
	NominalTemperature float64 `yaml:"nominal_temperature"`
	SeriesResistance   float64 `yaml:"series_resistance"`
	SupplyVoltage      float64 `yaml:"supply_voltage"`
}

// ChartConfig contains chart window and axis configuration.
type ChartConfig struct {
	Title     string  `yaml:"title"`
	XLabel    string  `yaml:"x_label"`
	YLabel    string  `yaml:"y_label"`
	Color     string  `yaml:"color"` // "#rrggbb"
	Width     float32 `yaml:"width"`
	Height    float32 `yaml:"height"`
	MaxPoints int     `yaml:"max_points"` // Points drawn per series
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// MeasurementConfig contains live measurement parameters.
type MeasurementConfig struct {
	AverageSamples int `yaml:"average_samples"` // Readings averaged per sample (0 or 1 = disabled)
}

// MockConfig contains mock device configuration.
type MockConfig struct {
	Reading    uint16        `yaml:"reading"`     // Centre ADC reading
	Swing      uint16        `yaml:"swing"`       // Peak deviation from Reading
	NoiseLevel uint16        `yaml:"noise_level"` // Peak noise in ADC counts
	Period     time.Duration `yaml:"period"`      // Swing period
	SampleRate time.Duration `yaml:"sample_rate"` // Interval between readings
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Sweep: SweepConfig{
			Size: 4095,
		},
		Polynomial: PolynomialConfig{
			Coefficients: []float64{thermistor.C0, thermistor.C1, thermistor.C2, thermistor.C3, thermistor.C4},
		},
		Thermistor: ThermistorConfig{
			BValue:             thermistor.DefaultBValue,
			NominalResistance:  thermistor.DefaultNominalResistance,
			NominalTemperature: thermistor.DefaultNominalTemperature,
			SeriesResistance:   thermistor.DefaultSeriesResistance,
			SupplyVoltage:      thermistor.DefaultSupplyVoltage,
		},
		Chart: ChartConfig{
			XLabel:    "adc values",
			YLabel:    "voltages",
			Color:     "#0000ff",
			Width:     1000,
			Height:    700,
			MaxPoints: 1000,
		},
		Serial: SerialConfig{
			Port:     "COM3", // Default for Windows, should be "/dev/ttyUSB0" on Linux
			BaudRate: 115200,
		},
		Measurement: MeasurementConfig{
			AverageSamples: DefaultAverageSamples,
		},
		Mock: MockConfig{
			Reading:    2048,
			Swing:      400,
			NoiseLevel: 8,
			Period:     30 * time.Second,
			SampleRate: DefaultSampleInterval,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports configuration values that cannot be used.
func (c *Config) Validate() error {
	if c.Sweep.Size < 0 {
		return fmt.Errorf("sweep.size must not be negative, got %d", c.Sweep.Size)
	}
	if n := len(c.Polynomial.Coefficients); n > len(thermistor.Polynomial{}) {
		return fmt.Errorf("polynomial.coefficients: at most %d coefficients supported, got %d", len(thermistor.Polynomial{}), n)
	}
	if c.Measurement.AverageSamples < 0 {
		return fmt.Errorf("measurement.average_samples must not be negative, got %d", c.Measurement.AverageSamples)
	}
	return nil
}

// PolynomialFit returns the configured ADC to voltage polynomial.
func (c *Config) PolynomialFit() thermistor.Polynomial {
	var p thermistor.Polynomial
	copy(p[:], c.Polynomial.Coefficients)
	return p
}

// ThermistorModel returns the configured thermistor model.
func (c *Config) ThermistorModel() thermistor.Thermistor {
	return thermistor.Thermistor{
		BValue:             c.Thermistor.BValue,
		NominalResistance:  c.Thermistor.NominalResistance,
		NominalTemperature: c.Thermistor.NominalTemperature,
		SeriesResistance:   c.Thermistor.SeriesResistance,
		SupplyVoltage:      c.Thermistor.SupplyVoltage,
	}
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Sweep.Size == 0 {
		c.Sweep.Size = def.Sweep.Size
	}

	if len(c.Polynomial.Coefficients) == 0 {
		c.Polynomial.Coefficients = def.Polynomial.Coefficients
	}

	if c.Thermistor.BValue == 0 {
		c.Thermistor.BValue = def.Thermistor.BValue
	}
	if c.Thermistor.NominalResistance == 0 {
		c.Thermistor.NominalResistance = def.Thermistor.NominalResistance
	}
	if c.Thermistor.SeriesResistance == 0 {
		c.Thermistor.SeriesResistance = def.Thermistor.SeriesResistance
	}
	if c.Thermistor.SupplyVoltage == 0 {
		c.Thermistor.SupplyVoltage = def.Thermistor.SupplyVoltage
	}
	// NominalTemperature of 0 °C is a valid rating, so it is left alone.

	if c.Chart.XLabel == "" {
		c.Chart.XLabel = def.Chart.XLabel
	}
	if c.Chart.YLabel == "" {
		c.Chart.YLabel = def.Chart.YLabel
	}
	if c.Chart.Color == "" {
		c.Chart.Color = def.Chart.Color
	}
	if c.Chart.Width == 0 {
		c.Chart.Width = def.Chart.Width
	}
	if c.Chart.Height == 0 {
		c.Chart.Height = def.Chart.Height
	}
	if c.Chart.MaxPoints == 0 {
		c.Chart.MaxPoints = def.Chart.MaxPoints
	}

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Mock.Period == 0 {
		c.Mock.Period = def.Mock.Period
	}
	if c.Mock.SampleRate == 0 {
		c.Mock.SampleRate = def.Mock.SampleRate
	}
}
