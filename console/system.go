// Package console wires the CPU, PPU, APU, cartridge mapper, RAM and
// controllers into one addressable system, and drives the NTSC
// 3:1:1 PPU:CPU:APU clock ratio that ticks them all forward in lockstep.
package console

import (
	"github.com/bdwalton/nesgo/apu"
	"github.com/bdwalton/nesgo/cartridge"
	"github.com/bdwalton/nesgo/mos6502"
	"github.com/bdwalton/nesgo/ppu"
)

const ramSize = 0x0800

// System is the NES: the address-decoding bus plus every component
// hung off it. It satisfies mos6502.Bus and ppu.Bus so the CPU and PPU
// can be constructed directly against it.
type System struct {
	CPU *mos6502.CPU
	PPU *ppu.PPU
	APU *apu.APU

	mapper      cartridge.Mapper
	ram         [ramSize]uint8
	controllers [2]*Controller

	cpuCycles uint64
}

// New constructs a powered-on system bound to mapper.
func New(mapper cartridge.Mapper) *System {
	s := &System{
		mapper:      mapper,
		controllers: [2]*Controller{NewController(), NewController()},
	}
	s.PPU = ppu.New(s)
	s.APU = apu.New()
	s.CPU = mos6502.New(s)
	return s
}

// Controller returns port 0 or 1.
func (s *System) Controller(port int) *Controller { return s.controllers[port] }

// Reset propagates a reset to every component, distinct from power-on
// construction.
func (s *System) Reset() {
	s.PPU.Reset()
	s.APU.Reset()
	s.CPU.Reset()
	s.controllers[0].Reset()
	s.controllers[1].Reset()
}

// Read services a CPU bus read, implementing mos6502.Bus.
func (s *System) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return s.ram[addr&0x07FF]
	case addr < 0x4000:
		return s.PPU.ReadRegister(addr & 0x0007)
	case addr == 0x4015:
		return s.APU.ReadStatus()
	case addr == 0x4016:
		return s.controllers[0].Read()
	case addr == 0x4017:
		return s.controllers[1].Read()
	case addr < 0x4020:
		return 0
	default:
		return s.mapper.ReadCPU(addr)
	}
}

// Write services a CPU bus write, implementing mos6502.Bus.
func (s *System) Write(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		s.ram[addr&0x07FF] = val
	case addr < 0x4000:
		s.PPU.WriteRegister(addr&0x0007, val)
	case addr == 0x4014:
		s.oamDMA(val)
	case addr == 0x4016:
		s.controllers[0].Write(val)
		s.controllers[1].Write(val)
	case addr <= 0x4013, addr == 0x4015, addr == 0x4017:
		s.APU.WriteRegister(addr, val)
	case addr < 0x4020:
		// $4018-$401F: APU/IO test-mode registers, unimplemented.
	default:
		s.mapper.WriteCPU(addr, val)
	}
}

// oamDMA services a write to $4014: 256 bytes starting at page<<8 are
// copied into OAM through the normal OAMDATA write path, and the CPU
// is stalled 513 cycles (514 if the DMA began on an odd CPU cycle).
func (s *System) oamDMA(page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		s.PPU.WriteRegister(ppu.RegOAMDATA, s.Read(base+uint16(i)))
	}
	stall := uint16(513)
	if s.cpuCycles%2 != 0 {
		stall = 514
	}
	s.CPU.AddCycles(stall)
}

// ReadCHR and WriteCHR implement ppu.Bus, routing $0000-$1FFF PPU-bus
// accesses to the cartridge's CHR-ROM/CHR-RAM.
func (s *System) ReadCHR(addr uint16) uint8       { return s.mapper.ReadPPU(addr) }
func (s *System) WriteCHR(addr uint16, val uint8) { s.mapper.WritePPU(addr, val) }

// Mirroring implements ppu.Bus, reporting the mapper's current
// nametable mirroring (mapper 1 can change this at runtime).
func (s *System) Mirroring() cartridge.Mirroring { return s.mapper.Mirroring() }

// SignalScanline implements ppu.Bus, forwarding the PPU's once-per-
// scanline pulse to the mapper's IRQ counter (MMC3).
func (s *System) SignalScanline() { s.mapper.SignalScanline() }

// Step advances the system by one CPU cycle: the PPU runs three dots,
// the CPU and APU each run one cycle, and pending NMI/IRQ lines are
// sampled afterward, matching spec §4.8's clock() description.
func (s *System) Step() {
	s.PPU.Tick()
	s.PPU.Tick()
	s.PPU.Tick()

	s.CPU.Tick()
	s.APU.Step()
	s.cpuCycles++

	if s.PPU.TakeNMI() {
		s.CPU.NMI()
	} else if s.mapper.IRQFlag() || s.APU.IRQ() {
		s.CPU.IRQ()
	}
}

// RunFrame steps the system until the PPU completes one frame, then
// returns the completed RGB framebuffer and any audio samples
// accumulated along the way.
func (s *System) RunFrame() (frame []uint8, audio []float32) {
	for !s.PPU.FrameReady() {
		s.Step()
	}
	return s.PPU.Frame(), s.APU.TakeBuffer()
}
