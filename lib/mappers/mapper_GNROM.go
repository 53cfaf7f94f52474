package mappers

import (
	"log"

	"famicore/lib/common"
)

// GNROM (iNES 066)
// CPU $8000-$FFFF: 32 KB switchable PRG ROM bank
// PPU $0000-$1FFF: 8 KB switchable CHR ROM bank
type MapperGNROM struct {
	cart *Cartridge

	prgBank uint32
	chrBank uint32
}

func (m *MapperGNROM) Tick() {}

func (m *MapperGNROM) Init() {
	m.prgBank = 0
	m.chrBank = 0
}

func (m *MapperGNROM) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return m.cart.chr.Read8w(m.chrBank + uint32(addr))
	case addr >= 0x6000 && addr < 0x8000:
		return m.cart.prgRam.Read8(addr - 0x6000)
	case addr >= 0x8000:
		return m.cart.prgRom.Read8w(m.prgAddr(addr))
	default:
		log.Printf("gnrom: read from unmapped address 0x%04x", addr)
		return 0
	}
}

// undersized carts mirror rather than run off the end of the rom
func (m *MapperGNROM) prgAddr(addr uint16) uint32 {
	return (m.prgBank + uint32(addr-0x8000)) % uint32(m.cart.prgRom.Size())
}

// 7  bit  0
// ---- ----
// xxPP xxCC
//   ||   ||
//   ||   ++- Select 8 KB CHR ROM bank for PPU $0000-$1FFF
//   ++------ Select 32 KB PRG ROM bank for CPU $8000-$FFFF
func (m *MapperGNROM) Write8(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		m.cart.chr.Write8w(m.chrBank+uint32(addr), val)
	case addr >= 0x6000 && addr < 0x8000:
		m.cart.prgRam.Write8(addr-0x6000, val)
	case addr >= 0x8000:
		prgBanks := uint32(m.cart.prgRom.Size()) / 0x8000
		if prgBanks == 0 {
			prgBanks = 1
		}
		chrBanks := uint32(m.cart.chr.Size()) / 0x2000
		m.prgBank = (uint32((val>>4)&0x3) % prgBanks) * 0x8000
		m.chrBank = (uint32(val&0x3) % chrBanks) * 0x2000
	default:
		log.Printf("gnrom: write to unmapped address 0x%04x", addr)
	}
}

func (m *MapperGNROM) Serialise(s common.Serialiser) error {
	return s.Serialise(m.prgBank, m.chrBank)
}
func (m *MapperGNROM) DeSerialise(s common.Serialiser) error {
	return s.DeSerialise(&m.prgBank, &m.chrBank)
}
