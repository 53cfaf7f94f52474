package mappers

import (
	"log"

	"famicore/lib/common"
)

// AxROM (iNES 007)
// CPU $8000-$FFFF: 32 KB switchable PRG ROM bank
// PPU $0000-$1FFF: 8 KB CHR RAM
// One screen mirroring, the selected nametable switches with the bank
// register.
type MapperAxROM struct {
	cart *Cartridge

	prgBank uint32
}

func (m *MapperAxROM) Tick() {}

func (m *MapperAxROM) Init() {
	m.prgBank = 0
	m.cart.SetMirroring(common.SingleScreenLowerMirroring)
}

func (m *MapperAxROM) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return m.cart.chr.Read8(addr)
	case addr >= 0x6000 && addr < 0x8000:
		return m.cart.prgRam.Read8(addr - 0x6000)
	case addr >= 0x8000:
		return m.cart.prgRom.Read8w(m.prgAddr(addr))
	default:
		log.Printf("axrom: read from unmapped address 0x%04x", addr)
		return 0
	}
}

// undersized carts mirror rather than run off the end of the rom
func (m *MapperAxROM) prgAddr(addr uint16) uint32 {
	return (m.prgBank + uint32(addr-0x8000)) % uint32(m.cart.prgRom.Size())
}

// 7  bit  0
// ---- ----
// xxxM xPPP
//    |  |||
//    |  +++- Select 32 KB PRG ROM bank for CPU $8000-$FFFF
//    +------ Select 1 KB VRAM page for all 4 nametables
func (m *MapperAxROM) Write8(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		m.cart.chr.Write8(addr, val)
	case addr >= 0x6000 && addr < 0x8000:
		m.cart.prgRam.Write8(addr-0x6000, val)
	case addr >= 0x8000:
		nBanks := uint32(m.cart.prgRom.Size()) / 0x8000
		if nBanks == 0 {
			nBanks = 1
		}
		m.prgBank = (uint32(val&0x7) % nBanks) * 0x8000
		if val&0x10 != 0 {
			m.cart.SetMirroring(common.SingleScreenUpperMirroring)
		} else {
			m.cart.SetMirroring(common.SingleScreenLowerMirroring)
		}
	default:
		log.Printf("axrom: write to unmapped address 0x%04x", addr)
	}
}

func (m *MapperAxROM) Serialise(s common.Serialiser) error {
	return s.Serialise(m.prgBank)
}
func (m *MapperAxROM) DeSerialise(s common.Serialiser) error {
	return s.DeSerialise(&m.prgBank)
}
