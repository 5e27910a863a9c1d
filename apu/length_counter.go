package apu

// lengthTable maps the 5-bit length index written to $4003/$4007/$400B/
// $400F into the number of half-frame ticks the channel plays for.
var lengthTable = [32]uint8{
	0x0A, 0xFE, 0x14, 0x02, 0x28, 0x04, 0x50, 0x06,
	0xA0, 0x08, 0x3C, 0x0A, 0x0E, 0x0C, 0x1A, 0x0E,
	0x0C, 0x10, 0x18, 0x12, 0x30, 0x14, 0x60, 0x16,
	0xC0, 0x18, 0x48, 0x1A, 0x10, 0x1C, 0x20, 0x1E,
}

// lengthCounter tracks how many half-frame ticks a channel has left to
// play. Writes to the halt flag and the length-load register are
// staged and only take effect at the next half-frame tick, matching
// spec's length-counter update ordering requirement.
type lengthCounter struct {
	enabled bool
	halt    bool
	count   uint8

	pendingHalt    bool
	hasPendingHalt bool
	pendingLoad    uint8
	hasPendingLoad bool
}

func (l *lengthCounter) setEnabled(val bool) {
	l.enabled = val
	if !val {
		l.count = 0
	}
}

func (l *lengthCounter) setHalted(val bool) {
	l.pendingHalt = val
	l.hasPendingHalt = true
}

func (l *lengthCounter) writeLoad(index uint8) {
	l.pendingLoad = index
	l.hasPendingLoad = true
}

// commitPending applies staged halt/load writes. Called on each
// half-frame tick, after that tick's length clock has already been
// applied, so a freshly committed load is not decremented by the same
// tick.
func (l *lengthCounter) commitPending() {
	if l.hasPendingHalt {
		l.halt = l.pendingHalt
		l.hasPendingHalt = false
	}
	if l.hasPendingLoad {
		if l.enabled {
			l.count = lengthTable[l.pendingLoad]
		}
		l.hasPendingLoad = false
	}
}

// clock decrements the counter on a half frame, unless halted or
// already silent.
func (l *lengthCounter) clock() {
	if l.enabled && !l.halt && l.count > 0 {
		l.count--
	}
}

// active reports whether the channel should currently produce sound.
func (l *lengthCounter) active() bool {
	return l.enabled && l.count > 0
}
