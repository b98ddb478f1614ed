package main

import (
	"sync"

	"github.com/itohio/thermplot/pkg/adc"
	"github.com/itohio/thermplot/pkg/sample"
)

// liveSession tracks the device, converter and consumer goroutine of a live
// measurement for graceful shutdown.
type liveSession struct {
	device  adc.Device
	samples <-chan sample.Sample
	done    chan struct{} // Closed when the consumer goroutine exits

	closeOnce sync.Once
}

// newLiveSession wires device readings through converter and calls onSample
// for every converted sample on a dedicated goroutine.
func newLiveSession(device adc.Device, converter sample.Converter, onSample func(sample.Sample)) *liveSession {
	s := &liveSession{
		device:  device,
		samples: converter(device.Readings()),
		done:    make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		for smp := range s.samples {
			onSample(smp)
		}
	}()

	return s
}

// Done is closed once every sample has been consumed.
func (s *liveSession) Done() <-chan struct{} {
	return s.done
}

// Close closes the device and waits for the pipeline to drain.
func (s *liveSession) Close() {
	s.closeOnce.Do(func() {
		// Closing the device closes the readings channel, which closes the
		// converter output and ends the consumer goroutine.
		if s.device != nil {
			s.device.Close()
		}
		<-s.done
	})
}
