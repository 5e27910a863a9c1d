package mappers

import (
	"github.com/bdwalton/nesgo/cartridge"
	"github.com/bdwalton/nesgo/pager"
)

func init() {
	registerMapper(0, "NROM", func() cartridge.Mapper {
		return &mapper0{baseMapper: &baseMapper{id: 0, name: "NROM"}}
	})
}

// mapper0 implements NROM: no bank switching. PRG-ROM is either one
// 16 KiB bank mirrored across both halves of $8000-$FFFF, or two
// banks mapped directly.
type mapper0 struct {
	*baseMapper
	prg *pager.Pager
	chr *pager.Pager
	ram *pager.Pager
}

func (m *mapper0) Init(r *cartridge.ROM) {
	m.baseMapper.Init(r)
	m.prg = pager.New(r.PRGROM)
	m.chr = pager.New(r.CHRROM)
	m.ram = pager.New(r.PRGRAM)
}

func (m *mapper0) ReadCPU(addr uint16) uint8 {
	switch {
	case addr < 0x8000:
		return m.ram.Read(pager.First(pager.EightKb), int(addr-0x6000)%int(pager.EightKb))
	case addr < 0xC000:
		return m.prg.Read(pager.First(pager.SixteenKb), int(addr-0x8000))
	default:
		return m.prg.Read(pager.Last(pager.SixteenKb), int(addr-0xC000))
	}
}

func (m *mapper0) WriteCPU(addr uint16, val uint8) {
	if addr < 0x8000 {
		m.ram.Write(pager.First(pager.EightKb), int(addr-0x6000)%int(pager.EightKb), val)
	}
	// Writes to $8000-$FFFF are ignored: NROM has no registers.
}

func (m *mapper0) ReadPPU(addr uint16) uint8 {
	return m.chr.Read(pager.First(pager.EightKb), int(addr))
}

func (m *mapper0) WritePPU(addr uint16, val uint8) {
	if m.rom.CHRIsRAM() {
		m.chr.Write(pager.First(pager.EightKb), int(addr), val)
	}
}
