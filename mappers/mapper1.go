package mappers

import (
	"github.com/bdwalton/nesgo/cartridge"
	"github.com/bdwalton/nesgo/pager"
)

func init() {
	registerMapper(1, "MMC1", func() cartridge.Mapper {
		return &mapper1{baseMapper: &baseMapper{id: 1, name: "MMC1"}, control: 0x0C}
	})
}

// mapper1 implements MMC1: a 5-bit serial shift register feeding four
// internal registers (control, chr0, chr1, prg0), per spec §4.2.
type mapper1 struct {
	*baseMapper
	prg *pager.Pager
	chr *pager.Pager
	ram *pager.Pager

	shift      uint8
	shiftCount uint8

	control uint8
	chr0    uint8
	chr1    uint8
	prg0    uint8
}

func (m *mapper1) Init(r *cartridge.ROM) {
	m.baseMapper.Init(r)
	m.prg = pager.New(r.PRGROM)
	m.chr = pager.New(r.CHRROM)
	m.ram = pager.New(r.PRGRAM)
}

func (m *mapper1) WriteCPU(addr uint16, val uint8) {
	if addr < 0x8000 {
		m.ram.Write(pager.First(pager.EightKb), int(addr-0x6000)%int(pager.EightKb), val)
		return
	}

	if val&0x80 != 0 {
		// Bit 7 set: reset the shift register and fix PRG/CHR mode
		// per the widely documented hardware behaviour (spec.md is
		// explicit here; the original source's mapper1 reset only
		// clears the shift register).
		m.shift = 0
		m.shiftCount = 0
		m.control |= 0x0C
		return
	}

	m.shift |= (val & 1) << m.shiftCount
	m.shiftCount++

	if m.shiftCount < 5 {
		return
	}

	switch addr & 0x6000 {
	case 0x0000:
		m.control = m.shift
	case 0x2000:
		m.chr0 = m.shift
	case 0x4000:
		m.chr1 = m.shift
	case 0x6000:
		m.prg0 = m.shift
	}

	m.shift = 0
	m.shiftCount = 0
}

func (m *mapper1) ReadCPU(addr uint16) uint8 {
	if addr < 0x8000 {
		return m.ram.Read(pager.First(pager.EightKb), int(addr-0x6000)%int(pager.EightKb))
	}
	if addr < 0xC000 {
		return m.prg.Read(m.prgBank(true), int(addr-0x8000))
	}
	return m.prg.Read(m.prgBank(false), int(addr-0xC000))
}

// prgBank resolves the 16 KiB PRG-ROM selector for the low ($8000) or
// high ($C000) window, per the control register's PRG mode bits.
func (m *mapper1) prgBank(low bool) pager.Selector {
	switch (m.control >> 2) & 0x3 {
	case 0, 1: // 32 KiB switch: prg0>>1 selects a bank pair
		bank32 := int(m.prg0 >> 1)
		if low {
			return pager.FromNth(bank32*2, pager.SixteenKb)
		}
		return pager.FromNth(bank32*2+1, pager.SixteenKb)
	case 2: // fix first bank, switch $C000
		if low {
			return pager.First(pager.SixteenKb)
		}
		return pager.FromNth(int(m.prg0&0x0F), pager.SixteenKb)
	default: // 3: switch $8000, fix last bank
		if low {
			return pager.FromNth(int(m.prg0&0x0F), pager.SixteenKb)
		}
		return pager.Last(pager.SixteenKb)
	}
}

// chrBank resolves the 4 KiB CHR selector for the low ($0000) or high
// ($1000) window, per the control register's CHR mode bit.
func (m *mapper1) chrBank(low bool) pager.Selector {
	if m.control&0x10 == 0 { // 8 KiB mode: chr0's upper bits select a pair
		bank8 := int(m.chr0 >> 1)
		if low {
			return pager.FromNth(bank8*2, pager.FourKb)
		}
		return pager.FromNth(bank8*2+1, pager.FourKb)
	}
	if low {
		return pager.FromNth(int(m.chr0), pager.FourKb)
	}
	return pager.FromNth(int(m.chr1), pager.FourKb)
}

func (m *mapper1) ReadPPU(addr uint16) uint8 {
	return m.chr.Read(m.chrBank(addr < 0x1000), int(addr)%int(pager.FourKb))
}

func (m *mapper1) WritePPU(addr uint16, val uint8) {
	if m.rom.CHRIsRAM() {
		m.chr.Write(m.chrBank(addr < 0x1000), int(addr)%int(pager.FourKb), val)
	}
}

// Mirroring overrides baseMapper: MMC1 selects its mirroring mode at
// runtime via the low two bits of the control register.
func (m *mapper1) Mirroring() cartridge.Mirroring {
	switch m.control & 0x3 {
	case 0:
		return cartridge.MirrorSingleLower
	case 1:
		return cartridge.MirrorSingleUpper
	case 2:
		return cartridge.MirrorVertical
	default:
		return cartridge.MirrorHorizontal
	}
}
