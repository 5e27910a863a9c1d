// Package mappers implements the cartridge.Mapper variants selected
// by iNES mapper number: NROM, MMC1, UxROM, CNROM and MMC3.
package mappers

import (
	"fmt"

	"github.com/bdwalton/nesgo/cartridge"
)

// allMappers is a registry of mapper factories keyed by iNES mapper
// id. Each factory returns a fresh instance, so concurrently loaded
// ROMs (e.g. in tests) never share banking state -- unlike the
// teacher's single shared *baseMapper instance reused across Init()
// calls.
var allMappers = map[uint16]func() cartridge.Mapper{}

func registerMapper(id uint16, name string, factory func() cartridge.Mapper) {
	if _, ok := allMappers[id]; ok {
		panic(fmt.Sprintf("mappers: can't re-register mapper id %d (%s)", id, name))
	}
	allMappers[id] = factory
}

// Get constructs and initializes the Mapper for rom's declared
// mapper number, or an error if no implementation is registered.
func Get(rom *cartridge.ROM) (cartridge.Mapper, error) {
	id := rom.MapperNum()
	factory, ok := allMappers[id]
	if !ok {
		return nil, fmt.Errorf("mapper id %d: %w", id, cartridge.ErrUnsupportedMapper)
	}

	m := factory()
	m.Init(rom)
	return m, nil
}

// baseMapper carries the fields and trivial methods common to every
// mapper variant: identity, the bound ROM, and the save-RAM/mirroring
// passthroughs that don't vary by banking scheme (mirroring is
// overridden by mapper 1, which can select it at runtime).
type baseMapper struct {
	id   uint16
	name string
	rom  *cartridge.ROM

	irq bool
}

func (bm *baseMapper) ID() uint16   { return bm.id }
func (bm *baseMapper) Name() string { return bm.name }
func (bm *baseMapper) String() string { return bm.name }

func (bm *baseMapper) Init(r *cartridge.ROM) { bm.rom = r }

func (bm *baseMapper) Mirroring() cartridge.Mirroring { return bm.rom.Mirroring() }

func (bm *baseMapper) HasSaveRAM() bool { return bm.rom.HasSaveRAM() }

func (bm *baseMapper) IRQFlag() bool { return bm.irq }
func (bm *baseMapper) ClearIRQ()     { bm.irq = false }

// SignalScanline defaults to a no-op; mapper 4 overrides it.
func (bm *baseMapper) SignalScanline() {}
