package mappers

import (
	"github.com/bdwalton/nesgo/cartridge"
	"github.com/bdwalton/nesgo/pager"
)

func init() {
	registerMapper(4, "MMC3", func() cartridge.Mapper {
		return &mapper4{baseMapper: &baseMapper{id: 4, name: "MMC3"}}
	})
}

// mapper4 implements MMC3: eight bank registers R0..R7 selected
// through $8000/$8001, PRG/CHR mode flags in the bank-select
// register, and a scanline IRQ counter driven by SignalScanline
// (spec §4.2).
type mapper4 struct {
	*baseMapper
	prg *pager.Pager
	chr *pager.Pager
	ram *pager.Pager

	bankSelect uint8 // last value written to $8000
	r          [8]uint8

	mirror uint8 // 0=vertical, 1=horizontal; only meaningful w/o four-screen

	irqPeriod  uint8
	irqCounter uint8
	irqEnabled bool
}

func (m *mapper4) Init(r *cartridge.ROM) {
	m.baseMapper.Init(r)
	m.prg = pager.New(r.PRGROM)
	m.chr = pager.New(r.CHRROM)
	m.ram = pager.New(r.PRGRAM)
}

func (m *mapper4) prgMode() uint8 { return (m.bankSelect >> 6) & 1 }
func (m *mapper4) chrMode() uint8 { return (m.bankSelect >> 7) & 1 }

func (m *mapper4) WriteCPU(addr uint16, val uint8) {
	switch {
	case addr < 0x8000:
		m.ram.Write(pager.First(pager.EightKb), int(addr-0x6000)%int(pager.EightKb), val)
	case addr < 0xA000:
		if addr&1 == 0 {
			m.bankSelect = val
		} else {
			m.r[m.bankSelect&0x07] = val
		}
	case addr < 0xC000:
		if addr&1 == 0 {
			m.mirror = val & 1
		}
		// odd ($A001, PRG-RAM protect) is not modeled.
	case addr < 0xE000:
		if addr&1 == 0 {
			m.irqPeriod = val
		} else {
			m.irqCounter = 0
		}
	default:
		if addr&1 == 0 {
			m.irqEnabled = false
			m.irq = false
		} else {
			m.irqEnabled = true
		}
	}
}

func (m *mapper4) ReadCPU(addr uint16) uint8 {
	switch {
	case addr < 0x8000:
		return m.ram.Read(pager.First(pager.EightKb), int(addr-0x6000)%int(pager.EightKb))
	case addr < 0xA000:
		return m.prg.Read(m.prgSelector(0), int(addr-0x8000))
	case addr < 0xC000:
		return m.prg.Read(m.prgSelector(1), int(addr-0xA000))
	case addr < 0xE000:
		return m.prg.Read(m.prgSelector(2), int(addr-0xC000))
	default:
		return m.prg.Read(m.prgSelector(3), int(addr-0xE000))
	}
}

// prgSelector resolves the 8 KiB PRG-ROM window (0=$8000, 1=$A000,
// 2=$C000, 3=$E000) per the bank-select register's PRG mode bit.
func (m *mapper4) prgSelector(window int) pager.Selector {
	r6 := pager.FromNth(int(m.r[6]&0x3F), pager.EightKb)
	r7 := pager.FromNth(int(m.r[7]&0x3F), pager.EightKb)
	secondLast := pager.FromEnd(1, pager.EightKb)
	last := pager.Last(pager.EightKb)

	if m.prgMode() == 0 {
		switch window {
		case 0:
			return r6
		case 1:
			return r7
		case 2:
			return secondLast
		default:
			return last
		}
	}
	switch window {
	case 0:
		return secondLast
	case 1:
		return r7
	case 2:
		return r6
	default:
		return last
	}
}

func (m *mapper4) ReadPPU(addr uint16) uint8 {
	sel, base := m.chrSelector(addr)
	return m.chr.Read(sel, int(addr)-base)
}

func (m *mapper4) WritePPU(addr uint16, val uint8) {
	if !m.rom.CHRIsRAM() {
		return
	}
	sel, base := m.chrSelector(addr)
	m.chr.Write(sel, int(addr)-base, val)
}

// chrSelector resolves the CHR window covering addr, returning the
// page selector and the base address of that window (so callers can
// compute an in-page offset), per the bank-select register's CHR
// mode bit.
func (m *mapper4) chrSelector(addr uint16) (pager.Selector, int) {
	two := func(r uint8, half int) (pager.Selector, int) {
		bank2k := int(r &^ 1)
		return pager.FromNth(bank2k+half, pager.OneKb), 0
	}
	one := func(r uint8) pager.Selector {
		return pager.FromNth(int(r), pager.OneKb)
	}

	if m.chrMode() == 0 {
		switch {
		case addr < 0x0800:
			sel, _ := two(m.r[0], int(addr/0x400))
			return sel, int(addr/0x400) * 0x400
		case addr < 0x1000:
			sel, _ := two(m.r[1], int(addr/0x400)-2)
			return sel, int(addr/0x400) * 0x400
		case addr < 0x1400:
			return one(m.r[2]), 0x1000
		case addr < 0x1800:
			return one(m.r[3]), 0x1400
		case addr < 0x1C00:
			return one(m.r[4]), 0x1800
		default:
			return one(m.r[5]), 0x1C00
		}
	}

	switch {
	case addr < 0x0400:
		return one(m.r[2]), 0x0000
	case addr < 0x0800:
		return one(m.r[3]), 0x0400
	case addr < 0x0C00:
		return one(m.r[4]), 0x0800
	case addr < 0x1000:
		return one(m.r[5]), 0x0C00
	case addr < 0x1800:
		sel, _ := two(m.r[0], int(addr/0x400)-4)
		return sel, int(addr/0x400) * 0x400
	default:
		sel, _ := two(m.r[1], int(addr/0x400)-6)
		return sel, int(addr/0x400) * 0x400
	}
}

// Mirroring overrides baseMapper: four-screen cartridges ignore the
// mirror register entirely, matching real MMC3 boards.
func (m *mapper4) Mirroring() cartridge.Mirroring {
	if m.rom.Mirroring() == cartridge.MirrorFourScreen {
		return cartridge.MirrorFourScreen
	}
	if m.mirror == 0 {
		return cartridge.MirrorVertical
	}
	return cartridge.MirrorHorizontal
}

// SignalScanline drives the scanline IRQ counter: reload on zero,
// otherwise decrement; assert IRQ when it reaches zero while enabled.
func (m *mapper4) SignalScanline() {
	if m.irqCounter == 0 {
		m.irqCounter = m.irqPeriod
	} else {
		m.irqCounter--
	}

	if m.irqCounter == 0 && m.irqEnabled {
		m.irq = true
	}
}
