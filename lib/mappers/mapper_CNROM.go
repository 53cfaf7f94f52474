package mappers

import (
	"log"

	"famicore/lib/common"
)

// CNROM (iNES 003)
// CPU $8000-$FFFF: 16 or 32 KB PRG ROM, not bankswitched
// PPU $0000-$1FFF: 8 KB switchable CHR ROM bank
type MapperCNROM struct {
	cart *Cartridge

	chrBank uint32
}

func (m *MapperCNROM) Tick() {}

func (m *MapperCNROM) Init() {
	m.chrBank = 0
}

func (m *MapperCNROM) prgAddr(addr uint16) uint16 {
	return (addr - 0x8000) % uint16(m.cart.prgRom.Size())
}

func (m *MapperCNROM) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return m.cart.chr.Read8w(m.chrBank + uint32(addr))
	case addr >= 0x6000 && addr < 0x8000:
		return m.cart.prgRam.Read8(addr - 0x6000)
	case addr >= 0x8000:
		return m.cart.prgRom.Read8(m.prgAddr(addr))
	default:
		log.Printf("cnrom: read from unmapped address 0x%04x", addr)
		return 0
	}
}

// 7  bit  0
// ---- ----
// xxxx xxCC
//        ||
//        ++- Select 8 KB CHR ROM bank for PPU $0000-$1FFF
func (m *MapperCNROM) Write8(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		m.cart.chr.Write8w(m.chrBank+uint32(addr), val)
	case addr >= 0x6000 && addr < 0x8000:
		m.cart.prgRam.Write8(addr-0x6000, val)
	case addr >= 0x8000:
		nBanks := uint32(m.cart.chr.Size()) / 0x2000
		m.chrBank = (uint32(val&0x3) % nBanks) * 0x2000
	default:
		log.Printf("cnrom: write to unmapped address 0x%04x", addr)
	}
}

func (m *MapperCNROM) Serialise(s common.Serialiser) error {
	return s.Serialise(m.chrBank)
}
func (m *MapperCNROM) DeSerialise(s common.Serialiser) error {
	return s.DeSerialise(&m.chrBank)
}
