package cartridge

// Mapper is the capability contract every cartridge banking scheme
// implements (spec §4.2, §9 "Polymorphic mappers"). The capability
// set is closed and small; dynamic dispatch over concrete mapper
// types is sufficient and matches the teacher's registry-of-Mapper
// pattern in mappers/mapper_basics.go.
type Mapper interface {
	// ID returns the iNES mapper number this implementation handles.
	ID() uint16
	// Name is a human-readable mapper name, e.g. "NROM".
	Name() string
	// Init binds the mapper to the parsed ROM it banks.
	Init(*ROM)

	// ReadCPU/WriteCPU service CPU bus accesses in $4020-$FFFF
	// (PRG-ROM/PRG-RAM and bank-select register writes).
	ReadCPU(addr uint16) uint8
	WriteCPU(addr uint16, val uint8)

	// ReadPPU/WritePPU service PPU bus accesses in $0000-$1FFF
	// (CHR-ROM/CHR-RAM).
	ReadPPU(addr uint16) uint8
	WritePPU(addr uint16, val uint8)

	// Mirroring reports the current nametable mirroring mode; mapper
	// 1 can change this at runtime via its control register.
	Mirroring() Mirroring

	// IRQFlag reports whether the mapper's scanline counter (MMC3)
	// has asserted an IRQ. ClearIRQ acknowledges it.
	IRQFlag() bool
	ClearIRQ()

	// SignalScanline is called by the PPU once per rendered scanline
	// (each visible line and the pre-render line), while rendering is
	// enabled, to drive MMC3's IRQ counter.
	// Mappers without a scanline counter no-op.
	SignalScanline()

	// HasSaveRAM reports whether the cartridge exposes battery-backed
	// PRG-RAM at $6000-$7FFF.
	HasSaveRAM() bool
}
