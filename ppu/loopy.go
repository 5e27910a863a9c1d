package ppu

// loopy is the PPU's internal 15-bit scroll register shape (named
// after Loopy, who documented it on nesdev): v is the VRAM address
// currently in use, t is the buffered "next" value latched by
// $2005/$2006 writes and copied into v at well-defined points in the
// scanline.
//
// yyy NN YYYYY XXXXX
// ||| || ||||| +++++-- coarse X scroll
// ||| || +++++-------- coarse Y scroll
// ||| ++-------------- nametable select
// +++----------------- fine Y scroll
type loopy struct {
	data uint16 // only 15 bits used
}

func (l *loopy) coarseX() uint16 { return l.data & 0x001F }

func (l *loopy) setCoarseX(n uint16) {
	l.data = (l.data & ^uint16(0x001F)) | (n & 0x001F)
}

// incrementCoarseX advances coarse X by one tile, wrapping into the
// horizontal nametable toggle at the 32-tile boundary.
func (l *loopy) incrementCoarseX() {
	if l.coarseX() == 31 {
		l.setCoarseX(0)
		l.data ^= 0x0400 // flip nametable X
	} else {
		l.setCoarseX(l.coarseX() + 1)
	}
}

func (l *loopy) coarseY() uint16 { return (l.data & 0x03E0) >> 5 }

func (l *loopy) setCoarseY(n uint16) {
	l.data = (l.data & ^uint16(0x03E0)) | ((n & 0x1F) << 5)
}

// incrementY advances the fine/coarse Y scroll by one pixel row,
// matching the real PPU's dot-256 behaviour: fine Y wraps into
// coarse Y, and coarse Y 29 (the last row of nametable tiles) wraps
// into the vertical nametable toggle instead of 31 (rows 30/31 are
// the attribute-table area and are a documented hardware quirk: a
// coarse Y of 30 advances to 31, and 31 wraps to 0 without toggling
// the nametable).
func (l *loopy) incrementY() {
	if l.fineY() < 7 {
		l.setFineY(l.fineY() + 1)
		return
	}
	l.setFineY(0)
	switch l.coarseY() {
	case 29:
		l.setCoarseY(0)
		l.data ^= 0x0800 // flip nametable Y
	case 31:
		l.setCoarseY(0)
	default:
		l.setCoarseY(l.coarseY() + 1)
	}
}

func (l *loopy) nametableX() uint16 { return (l.data & 0x0400) >> 10 }
func (l *loopy) nametableY() uint16 { return (l.data & 0x0800) >> 11 }

func (l *loopy) fineY() uint16 { return (l.data & 0x7000) >> 12 }

func (l *loopy) setFineY(n uint16) {
	l.data = (l.data & ^uint16(0x7000)) | ((n & 0x7) << 12)
}

// nametableIndex is the logical nametable selector (0-3) this
// register currently addresses.
func (l *loopy) nametableIndex() uint16 {
	return (l.data & 0x0C00) >> 10
}

const (
	loopyHorizMask = 0x041F // coarse X + nametable X
	loopyVertMask  = 0x7BE0 // fine Y + nametable Y + coarse Y
)

// transferX copies the horizontal scroll bits (coarse X, nametable
// X) from src into l, per dot 257 of every scanline.
func (l *loopy) transferX(src *loopy) {
	l.data = (l.data &^ loopyHorizMask) | (src.data & loopyHorizMask)
}

// transferY copies the vertical scroll bits (fine Y, coarse Y,
// nametable Y) from src into l, per dots 280-304 of the pre-render
// scanline.
func (l *loopy) transferY(src *loopy) {
	l.data = (l.data &^ loopyVertMask) | (src.data & loopyVertMask)
}
