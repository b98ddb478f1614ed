//go:generate tinygo flash -target=xiao

package main

import (
	"machine"
	"time"
)

var (
	adcThermistor machine.ADC
	uart          = machine.UART0

	// Timing
	lastADCRead time.Time
)

func main() {
	PIN_THERMISTOR_ADC.Configure(machine.PinConfig{Mode: machine.PinInput})

	adcThermistor = machine.ADC{Pin: PIN_THERMISTOR_ADC}
	adcThermistor.Configure(machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	})

	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	lastADCRead = time.Now()

	for {
		now := time.Now()

		// Every reading is streamed; the host averages them in voltage space.
		if now.Sub(lastADCRead) >= time.Duration(SAMPLE_INTERVAL_MS)*time.Millisecond {
			outputReading(readThermistorADC())
			lastADCRead = now
		}

		time.Sleep(100 * time.Microsecond)
	}
}

func readThermistorADC() uint16 {
	// machine.ADC.Get scales every reading to 16 bits; shift back to 12.
	return adcThermistor.Get() >> (16 - ADC_RESOLUTION)
}

func outputReading(value uint16) {
	timestampMicros := time.Now().UnixNano() / 1000

	// Output format: "unix_micros,reading\n"
	// Example: "1234567890123,2048\n"
	print(timestampMicros)
	print(",")
	print(value)
	print("\n")
}
