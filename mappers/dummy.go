package mappers

import "github.com/bdwalton/nesgo/cartridge"

// dummyMapper is a flat-memory stand-in used by tests that need a
// cartridge.Mapper but don't care about bank switching.
type dummyMapper struct {
	prg       [0x10000]uint8
	chr       [0x10000]uint8
	mirroring cartridge.Mirroring
}

func (dm *dummyMapper) ID() uint16   { return 0xFFFF }
func (dm *dummyMapper) Name() string { return "dummy mapper" }
func (dm *dummyMapper) Init(r *cartridge.ROM) {}

func (dm *dummyMapper) ReadCPU(addr uint16) uint8        { return dm.prg[addr] }
func (dm *dummyMapper) WriteCPU(addr uint16, val uint8)  { dm.prg[addr] = val }
func (dm *dummyMapper) ReadPPU(addr uint16) uint8        { return dm.chr[addr] }
func (dm *dummyMapper) WritePPU(addr uint16, val uint8)  { dm.chr[addr] = val }
func (dm *dummyMapper) Mirroring() cartridge.Mirroring   { return dm.mirroring }
func (dm *dummyMapper) IRQFlag() bool                    { return false }
func (dm *dummyMapper) ClearIRQ()                        {}
func (dm *dummyMapper) SignalScanline()                  {}
func (dm *dummyMapper) HasSaveRAM() bool                 { return true }

// Dummy is a shared dummyMapper instance for tests that just need
// something implementing cartridge.Mapper.
var Dummy cartridge.Mapper = &dummyMapper{mirroring: cartridge.MirrorHorizontal}
