package mappers

import (
	"log"

	"famicore/lib/common"
)

// CPU $6000-$7FFF: PRG RAM, mirrored to fill the window
// CPU $8000-$BFFF: first 16 KB of PRG ROM
// CPU $C000-$FFFF: last 16 KB of PRG ROM, or a mirror of the first
// PPU $0000-$1FFF: 8 KB CHR ROM or RAM
type MapperNROM struct {
	cart *Cartridge
}

func (m *MapperNROM) Init() {}
func (m *MapperNROM) Tick() {}

func (m *MapperNROM) prgAddr(addr uint16) uint16 {
	if m.cart.prgRom.Size() > 0x8000 {
		// flat test rom, no decode
		return addr
	}
	return (addr - 0x8000) % uint16(m.cart.prgRom.Size())
}

func (m *MapperNROM) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return m.cart.chr.Read8(addr)
	case addr >= 0x6000 && addr < 0x8000:
		return m.cart.prgRam.Read8((addr - 0x6000) % uint16(m.cart.prgRam.Size()))
	case addr >= 0x8000:
		return m.cart.prgRom.Read8(m.prgAddr(addr))
	default:
		log.Printf("nrom: read from unmapped address 0x%04x", addr)
		return 0
	}
}

func (m *MapperNROM) Write8(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		m.cart.chr.Write8(addr, val)
	case addr >= 0x6000 && addr < 0x8000:
		m.cart.prgRam.Write8((addr-0x6000)%uint16(m.cart.prgRam.Size()), val)
	case addr >= 0x8000 && m.cart.prgRom.Size() > 0x8000:
		// writable flat test rom
		m.cart.prgRom.Write8(addr, val)
	default:
		log.Printf("nrom: write to unmapped address 0x%04x", addr)
	}
}

func (m *MapperNROM) Serialise(s common.Serialiser) error {
	return nil
}
func (m *MapperNROM) DeSerialise(s common.Serialiser) error {
	return nil
}
