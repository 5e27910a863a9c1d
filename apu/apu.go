// Package apu implements the 2A03's audio processing unit: two pulse
// channels, a triangle channel, the frame sequencer that drives their
// envelopes/sweeps/length counters, and the pulse mixer with its
// cascaded analog-output filters.
package apu

const (
	sampleRate      = 44100.0
	samplesPerFrame = 735 // 44100 / 60, per NTSC frame
	sampleEveryNth  = 40  // CPU cycles between mixer samples
)

// APU is the 2A03 sound generator. Step must be called once per CPU
// cycle; it buffers stereo sample pairs (duplicated mono) as they
// become available, up to one frame's worth at a time.
type APU struct {
	pulse1   *pulse
	pulse2   *pulse
	triangle *triangle
	frame    *frameCounter
	filters  [3]signalFilter

	cycle uint64
	buf   []float32
}

// New constructs a powered-on APU.
func New() *APU {
	a := &APU{
		pulse1:   newPulse(sweepOnesComplement),
		pulse2:   newPulse(sweepTwosComplement),
		triangle: newTriangle(),
		frame:    newFrameCounter(),
	}
	a.resetFilters()
	return a
}

func (a *APU) resetFilters() {
	a.filters = [3]signalFilter{
		hiPassFilter(sampleRate, 90.0),
		hiPassFilter(sampleRate, 440.0),
		loPassFilter(sampleRate, 14000.0),
	}
}

// Reset returns the APU to its power-on state.
func (a *APU) Reset() {
	*a = APU{
		pulse1:   newPulse(sweepOnesComplement),
		pulse2:   newPulse(sweepTwosComplement),
		triangle: newTriangle(),
		frame:    newFrameCounter(),
	}
	a.resetFilters()
}

// Step advances the APU by one CPU cycle.
func (a *APU) Step() {
	if a.cycle%2 == 1 {
		a.pulse1.stepSequencer()
		a.pulse2.stepSequencer()
	}
	a.triangle.stepSequencer()

	ev := a.frame.step()
	a.applyFrameEvent(ev)

	if a.cycle%sampleEveryNth == 0 && len(a.buf) < samplesPerFrame*2 {
		s := a.sample()
		a.buf = append(a.buf, s, s)
	}

	a.cycle++
}

func (a *APU) applyFrameEvent(ev frameEvent) {
	switch ev {
	case frameEventQuarter:
		a.pulse1.stepQuarterFrame()
		a.pulse2.stepQuarterFrame()
		a.triangle.stepQuarterFrame()
	case frameEventHalf:
		a.pulse1.stepQuarterFrame()
		a.pulse1.stepHalfFrame()
		a.pulse2.stepQuarterFrame()
		a.pulse2.stepHalfFrame()
		a.triangle.stepQuarterFrame()
		a.triangle.stepHalfFrame()
		a.pulse1.commitPending()
		a.pulse2.commitPending()
		a.triangle.commitPending()
	}
}

// ReadStatus services a CPU read of $4015.
func (a *APU) ReadStatus() uint8 {
	var v uint8
	if a.frame.irqFlag {
		v |= 0x40
	}
	if a.triangle.playing() {
		v |= 0x04
	}
	if a.pulse2.playing() {
		v |= 0x02
	}
	if a.pulse1.playing() {
		v |= 0x01
	}
	a.frame.irqFlag = false
	return v
}

// WriteRegister services a CPU write to $4000-$4017 (APU-relevant
// addresses only; the bus is responsible for routing $4016/$4017
// controller reads elsewhere).
func (a *APU) WriteRegister(addr uint16, val uint8) {
	switch {
	case addr >= 0x4000 && addr <= 0x4003:
		a.pulse1.writeReg(uint8(addr&0x0003), val)
	case addr >= 0x4004 && addr <= 0x4007:
		a.pulse2.writeReg(uint8(addr&0x0003), val)
	case addr >= 0x4008 && addr <= 0x400B:
		a.triangle.writeReg(addr, val)
	case addr == 0x4015:
		a.pulse1.setEnabled(val&0x01 != 0)
		a.pulse2.setEnabled(val&0x02 != 0)
		a.triangle.setEnabled(val&0x04 != 0)
	case addr == 0x4017:
		ev := a.frame.writeRegister(val, a.cycle)
		a.applyFrameEvent(ev)
	}
}

// IRQ reports whether the frame sequencer's IRQ line is currently
// asserted, without clearing it ($4015 reads clear it; this does not).
func (a *APU) IRQ() bool {
	return a.frame.irqFlag
}

// sample mixes the pulse channels per spec's pulse-only mixer formula
// and runs the result through the three cascaded output filters.
func (a *APU) sample() float32 {
	p0 := float64(a.pulse1.sample())
	p1 := float64(a.pulse2.sample())
	pulseSum := p0 + p1

	var out float64
	if pulseSum > 0 {
		out = (95.88 / (8128/pulseSum + 100)) * 65535
	}

	for i := range a.filters {
		out = a.filters[i].step(out)
	}

	return float32(out)
}

// TakeBuffer drains and returns the buffered stereo samples collected
// since the last call, resetting the buffer to empty.
func (a *APU) TakeBuffer() []float32 {
	b := a.buf
	a.buf = nil
	return b
}
