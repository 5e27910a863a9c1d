package mappers

import (
	"github.com/bdwalton/nesgo/cartridge"
	"github.com/bdwalton/nesgo/pager"
)

func init() {
	registerMapper(3, "CNROM", func() cartridge.Mapper {
		return &mapper3{baseMapper: &baseMapper{id: 3, name: "CNROM"}}
	})
}

// mapper3 implements CNROM: fixed PRG (NROM-style), one switchable
// 8 KiB CHR bank selected by any CPU write to $8000-$FFFF.
type mapper3 struct {
	*baseMapper
	prg *pager.Pager
	chr *pager.Pager

	bank uint8
}

func (m *mapper3) Init(r *cartridge.ROM) {
	m.baseMapper.Init(r)
	m.prg = pager.New(r.PRGROM)
	m.chr = pager.New(r.CHRROM)
}

func (m *mapper3) ReadCPU(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	if addr < 0xC000 {
		return m.prg.Read(pager.First(pager.SixteenKb), int(addr-0x8000))
	}
	return m.prg.Read(pager.Last(pager.SixteenKb), int(addr-0xC000))
}

func (m *mapper3) WriteCPU(addr uint16, val uint8) {
	if addr >= 0x8000 {
		m.bank = val
	}
}

func (m *mapper3) ReadPPU(addr uint16) uint8 {
	return m.chr.Read(pager.FromNth(int(m.bank), pager.EightKb), int(addr))
}

func (m *mapper3) WritePPU(addr uint16, val uint8) {
	if m.rom.CHRIsRAM() {
		m.chr.Write(pager.FromNth(int(m.bank), pager.EightKb), int(addr), val)
	}
}
