package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/itohio/thermplot/pkg/adc"
	"github.com/itohio/thermplot/pkg/chart"
	"github.com/itohio/thermplot/pkg/config"
	"github.com/itohio/thermplot/pkg/sample"
	"github.com/itohio/thermplot/pkg/sweep"
)

func main() {
	var (
		configFlag         = flag.String("config", "thermplot.yaml", "Configuration file path")
		noChartFlag        = flag.Bool("no-chart", false, "Only print the curve, do not open a chart window")
		liveFlag           = flag.Bool("live", false, "Read thermistor values from the sensor and mark them on the chart")
		mockFlag           = flag.Bool("mock", false, "Use a simulated sensor instead of the serial port")
		portFlag           = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyUSB0)")
		averageSamplesFlag = flag.Int("average-samples", -1, "Number of readings to average (0 = disabled, overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *averageSamplesFlag >= 0 {
		cfg.Measurement.AverageSamples = *averageSamplesFlag
	}

	curve := buildCurve(cfg)
	if err := curve.Report(os.Stdout); err != nil {
		log.Fatalf("Failed to print curve: %v", err)
	}

	if *noChartFlag {
		if *liveFlag {
			runHeadless(cfg, *mockFlag)
		}
		return
	}

	opts, err := chart.OptionsFromConfig(cfg.Chart)
	if err != nil {
		log.Fatalf("Invalid chart configuration: %v", err)
	}

	xs, ys := curve.Points()
	if !*liveFlag {
		if err := chart.Show(xs, ys, opts); err != nil {
			log.Fatalf("Failed to show chart: %v", err)
		}
		return
	}

	runWindow(cfg, *mockFlag, opts, xs, ys)
}

// buildCurve evaluates the configured polynomial over the configured ADC range.
func buildCurve(cfg *config.Config) sweep.Sweep {
	return sweep.Run(sweep.Range(cfg.Sweep.Size), cfg.PolynomialFit().Eval)
}

// runWindow shows the curve and marks live readings on it until the window closes.
func runWindow(cfg *config.Config, useMock bool, opts chart.Options, xs, ys []float64) {
	application := app.NewWithID(chart.AppID)

	chartWidget := chart.New(opts)
	if err := chartWidget.SetData(xs, ys); err != nil {
		log.Fatalf("Failed to show chart: %v", err)
	}
	window := chart.NewWindow(application, chartWidget)

	session, err := startLive(cfg, useMock, func(s sample.Sample) {
		fyne.Do(func() {
			chartWidget.SetMarker(float64(s.ADC), s.Voltage, formatSample(s))
		})
	})
	if err != nil {
		log.Fatalf("Failed to start live readings: %v", err)
	}
	window.SetOnClosed(session.Close)

	window.ShowAndRun()
}

// runHeadless prints live readings until interrupted.
func runHeadless(cfg *config.Config, useMock bool) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	session, err := startLive(cfg, useMock, nil)
	if err != nil {
		log.Fatalf("Failed to start live readings: %v", err)
	}

	select {
	case <-ctx.Done():
	case <-session.Done():
		log.Printf("Sensor stream ended")
	}
	session.Close()
}

// openDevice creates the configured sensor device.
func openDevice(cfg *config.Config, useMock bool) adc.Device {
	if useMock {
		fmt.Println("Using simulated sensor")
		return adc.NewMock(&cfg.Mock)
	}
	return adc.New(cfg.Serial.Port, cfg.Serial.BaudRate, adc.DefaultBufferSize)
}

// startLive connects the sensor and starts the conversion pipeline.
func startLive(cfg *config.Config, useMock bool, onSample func(sample.Sample)) (*liveSession, error) {
	device := openDevice(cfg, useMock)
	if err := device.Connect(); err != nil {
		if useMock {
			return nil, fmt.Errorf("failed to connect to simulated sensor: %w", err)
		}
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Serial.Port, err)
	}
	if !useMock {
		fmt.Printf("Connected to serial port: %s\n", cfg.Serial.Port)
	}

	converter := sample.NewAveragingConverter(cfg, cfg.Measurement.AverageSamples, 100)
	return newLiveSession(device, converter, func(s sample.Sample) {
		fmt.Println(formatSample(s))
		if onSample != nil {
			onSample(s)
		}
	}), nil
}

// formatSample formats a converted reading for display.
func formatSample(s sample.Sample) string {
	return fmt.Sprintf("adc=%d voltage=%.4fV resistance=%.0fΩ temperature=%.2f°C",
		s.ADC, s.Voltage, s.Resistance, s.Temperature)
}
