package mappers

import (
	"log"

	"famicore/lib/common"
)

// UNROM (iNES 002)
// CPU $8000-$BFFF: 16 KB switchable PRG ROM bank
// CPU $C000-$FFFF: 16 KB PRG ROM bank, fixed to the last bank
// PPU $0000-$1FFF: 8 KB CHR RAM
type MapperUNROM struct {
	cart *Cartridge

	prgBank  uint32
	lastBank uint32
}

func (m *MapperUNROM) Tick() {}

func (m *MapperUNROM) Init() {
	m.prgBank = 0
	m.lastBank = uint32(m.cart.prgRom.Size()) - 0x4000
}

func (m *MapperUNROM) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return m.cart.chr.Read8(addr)
	case addr >= 0x6000 && addr < 0x8000:
		return m.cart.prgRam.Read8(addr - 0x6000)
	case addr >= 0x8000 && addr < 0xC000:
		return m.cart.prgRom.Read8w(m.prgBank + uint32(addr-0x8000))
	case addr >= 0xC000:
		return m.cart.prgRom.Read8w(m.lastBank + uint32(addr-0xC000))
	default:
		log.Printf("unrom: read from unmapped address 0x%04x", addr)
		return 0
	}
}

// 7  bit  0
// ---- ----
// xxxx pPPP
//      ||||
//      ++++- Select 16 KB PRG ROM bank for CPU $8000-$BFFF
func (m *MapperUNROM) Write8(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		m.cart.chr.Write8(addr, val)
	case addr >= 0x6000 && addr < 0x8000:
		m.cart.prgRam.Write8(addr-0x6000, val)
	case addr >= 0x8000:
		nBanks := uint32(m.cart.prgRom.Size()) / 0x4000
		m.prgBank = (uint32(val) % nBanks) * 0x4000
	default:
		log.Printf("unrom: write to unmapped address 0x%04x", addr)
	}
}

func (m *MapperUNROM) Serialise(s common.Serialiser) error {
	return s.Serialise(m.prgBank, m.lastBank)
}
func (m *MapperUNROM) DeSerialise(s common.Serialiser) error {
	return s.DeSerialise(&m.prgBank, &m.lastBank)
}
