package mappers

import (
	"github.com/bdwalton/nesgo/cartridge"
	"github.com/bdwalton/nesgo/pager"
)

func init() {
	registerMapper(2, "UxROM", func() cartridge.Mapper {
		return &mapper2{baseMapper: &baseMapper{id: 2, name: "UxROM"}}
	})
}

// mapper2 implements UxROM: a single switchable 16 KiB PRG window at
// $8000, with the last PRG bank fixed at $C000. CHR is always a
// single fixed 8 KiB bank (almost always CHR-RAM on real boards).
type mapper2 struct {
	*baseMapper
	prg *pager.Pager
	chr *pager.Pager

	bank uint8
}

func (m *mapper2) Init(r *cartridge.ROM) {
	m.baseMapper.Init(r)
	m.prg = pager.New(r.PRGROM)
	m.chr = pager.New(r.CHRROM)
}

func (m *mapper2) ReadCPU(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	if addr < 0xC000 {
		return m.prg.Read(pager.FromNth(int(m.bank), pager.SixteenKb), int(addr-0x8000))
	}
	return m.prg.Read(pager.Last(pager.SixteenKb), int(addr-0xC000))
}

func (m *mapper2) WriteCPU(addr uint16, val uint8) {
	if addr >= 0x8000 {
		m.bank = val
	}
}

func (m *mapper2) ReadPPU(addr uint16) uint8 {
	return m.chr.Read(pager.First(pager.EightKb), int(addr))
}

func (m *mapper2) WritePPU(addr uint16, val uint8) {
	if m.rom.CHRIsRAM() {
		m.chr.Write(pager.First(pager.EightKb), int(addr), val)
	}
}
