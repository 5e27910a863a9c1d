package console

// Controller is one NES gamepad port: an 8-bit parallel-to-serial
// shift register latched by the strobe line at $4016/$4017, per spec
// §4.7. Button state itself is supplied by the host (see cmd/gintendo's
// ebiten key polling) via SetButtons; this package knows nothing about
// any specific input backend.
type Controller struct {
	strobe  bool
	buttons uint8 // bit0=A, bit1=B, bit2=Select, bit3=Start, bit4=Up, bit5=Down, bit6=Left, bit7=Right
	shift   uint8
	idx     uint8
}

// Button bit positions within the snapshot passed to SetButtons.
const (
	ButtonA = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// NewController returns a powered-on controller with no buttons held.
func NewController() *Controller {
	return &Controller{}
}

// Reset clears the strobe/shift state; held buttons are left alone
// since they reflect live host input, not emulated state.
func (c *Controller) Reset() {
	c.strobe = false
	c.idx = 0
}

// SetButtons replaces the controller's current button snapshot; bits
// match the Button* constants.
func (c *Controller) SetButtons(buttons uint8) {
	c.buttons = buttons
	if c.strobe {
		c.shift = c.buttons
		c.idx = 0
	}
}

// Write handles a CPU write to $4016 (mirrored onto both ports).
func (c *Controller) Write(val uint8) {
	high := val&0x01 != 0
	if high {
		c.strobe = true
		c.shift = c.buttons
		c.idx = 0
		return
	}
	c.strobe = false
}

// Read handles a CPU read of this controller's port. While strobe is
// held high, every read returns the A button's live state. Once strobe
// goes low, each read shifts out the next latched bit, and reads past
// the 8th bit return 1 (open-bus convention most games rely on).
func (c *Controller) Read() uint8 {
	if c.strobe {
		return c.buttons & 0x01
	}
	if c.idx >= 8 {
		return 1
	}
	bit := (c.shift >> c.idx) & 0x01
	c.idx++
	return bit
}
