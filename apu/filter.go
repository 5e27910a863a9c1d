package apu

import "math"

// signalFilter is a first-order IIR biquad used to model one stage of
// the NES's analog output filtering (two high-pass stages and one
// low-pass stage, cascaded).
type signalFilter struct {
	b0, b1, a1 float64
	prevX      float64
	prevY      float64
}

func hiPassFilter(sampleRate, cutoffHz float64) signalFilter {
	c := sampleRate / math.Pi / cutoffHz
	a0i := 1 / (1 + c)
	return signalFilter{
		b0: c * a0i,
		b1: -c * a0i,
		a1: (1 - c) * a0i,
	}
}

func loPassFilter(sampleRate, cutoffHz float64) signalFilter {
	c := sampleRate / math.Pi / cutoffHz
	a0i := 1 / (1 + c)
	return signalFilter{
		b0: a0i,
		b1: a0i,
		a1: (1 - c) * a0i,
	}
}

func (f *signalFilter) step(x float64) float64 {
	y := f.b0*x + f.b1*f.prevX - f.a1*f.prevY
	f.prevY = y
	f.prevX = x
	return y
}
