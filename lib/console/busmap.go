package console

import (
	"log"
)

// CPU Mapping Table
// Address range 	Size 	Device
// $0000-$07FF 		$0800 	2KB internal RAM
// $0800-$0FFF 		$0800 	Mirrors of $0000-$07FF
// $1000-$17FF 		$0800
// $1800-$1FFF 		$0800
// $2000-$2007 		$0008 	NES PPU registers
// $2008-$3FFF 		$1FF8 	Mirrors of $2000-2007 (repeats every 8 bytes)
// $4000-$4017 		$0018 	NES APU and I/O registers
// $4018-$401F 		$0008 	APU and I/O functionality that is normally disabled
// $4020-$FFFF 		$BFE0 	Cartridge space: PRG ROM, PRG RAM, and mapper registers
type cpuMapper struct {
	*Console
}

func (m *cpuMapper) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return m.ram.Read8(addr % 2048)

	case addr < 0x4000:
		return m.Console.ppu.Read8(addr)

	case addr == 0x4015:
		return m.Console.apu.Read8(addr)
	case addr == 0x4016, addr == 0x4017:
		return m.ctrl.Read8(addr)
	case addr < 0x4020:
		// open bus
		return 0

	default:
		return m.cart.Mapper.Read8(addr)
	}
}

func (m *cpuMapper) Write8(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		m.ram.Write8(addr%2048, val)

	case addr < 0x4000:
		m.Console.ppu.Write8(addr, val)

	case addr < 0x4014, addr == 0x4015, addr == 0x4017:
		m.Console.apu.Write8(addr, val)

	case addr == 0x4014:
		m.dma.Write8(addr, val)

	case addr == 0x4016:
		m.ctrl.Write8(addr, val)

	case addr < 0x4020:
		log.Printf("write to address 0x%04x not implemented", addr)

	default:
		m.cart.Mapper.Write8(addr, val)
	}
}

// PPU Mapping Table
// Address range 	Size 	Device
// $0000-$0FFF 		$1000 	Pattern table 0
// $1000-$1FFF 		$1000 	Pattern table 1
// $2000-$23FF 		$0400 	Nametable 0
// $2400-$27FF 		$0400 	Nametable 1
// $2800-$2BFF 		$0400 	Nametable 2
// $2C00-$2FFF 		$0400 	Nametable 3
// $3000-$3EFF 		$0F00 	Mirrors of $2000-$2EFF
// $3F00-$3F1F 		$0020 	Palette RAM indexes
// $3F20-$3FFF 		$00E0 	Mirrors of $3F00-$3F1F
//
// $0000-1FFF is mapped by the cartridge to CHR-ROM or CHR-RAM, often
// with a bank switching mechanism, and $2000-2FFF to the internal
// vram through the nametable mirroring configured by the cartridge.
// The palette control at $3F00-3FFF is not configurable.
type ppuMapper struct {
	*Console
}

func (m *ppuMapper) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return m.cart.Mapper.Read8(addr)
	case addr < 0x3000:
		return m.cart.Tables.Read8(addr)
	case addr < 0x3F00:
		return m.cart.Tables.Read8(addr - 0x1000)

	case addr < 0x4000:
		return m.Console.ppu.Palette.Read8(addr % 32)
	}
	return 0
}

func (m *ppuMapper) Write8(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		m.cart.Mapper.Write8(addr, val)
	case addr < 0x3000:
		m.cart.Tables.Write8(addr, val)
	case addr < 0x3F00:
		m.cart.Tables.Write8(addr-0x1000, val)

	case addr < 0x4000:
		m.Console.ppu.Palette.Write8(addr%32, val)
	}
}

// DMA handles writes to the OAMDMA register: it reads a page from the
// cpu address space and copies it to the ppu OAMDATA register.
type dmaMapper struct {
	*Console
}

func (m *dmaMapper) Read8(addr uint16) uint8 {
	// read from the cpu
	return m.Console.cpu.Read8(addr)
}

func (m *dmaMapper) Write8(addr uint16, val uint8) {
	// and copy to the ppu
	m.Console.ppu.Write8(addr, val)
}

// the dmc sample fetches read through the cpu address space
type apuMapper struct {
	*Console
}

func (m *apuMapper) Read8(addr uint16) uint8 {
	return m.Console.cpu.Read8(addr)
}
func (m *apuMapper) Write8(uint16, uint8) {}
