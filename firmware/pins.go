package main

import "machine"

const (
	// Sampling configuration
	SAMPLE_INTERVAL_MS = 10 // ADC read and output interval in milliseconds

	// ADC configuration
	ADC_REFERENCE_MV = 3300 // Reference voltage in millivolts (3.3V)
	ADC_RESOLUTION   = 12   // ADC resolution in bits (12-bit = 0-4095)

	// Thermistor divider pin
	PIN_THERMISTOR_ADC = machine.A1

	// Serial configuration
	// Format "unix_micros,reading\n", at most ~22 bytes per line.
	// 100 outputs/sec * 22 bytes/line = 2200 bytes/sec, below the ~11520 bytes/sec of 115200 baud.
	UART_BAUD_RATE = 115200
)
