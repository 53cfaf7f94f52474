package mappers

import (
	"log"

	"famicore/lib/common"
)

// https://wiki.nesdev.com/w/index.php/MMC1
type MapperMMC1 struct {
	cart *Cartridge

	shift   uint8
	counter uint8

	control  uint8
	chrBank0 uint8
	chrBank1 uint8
	prgBank  uint8

	prgBanks [2]uint32
	chrBanks [2]uint32
}

func (m *MapperMMC1) Tick() {}

func (m *MapperMMC1) Init() {
	// powers up with the last prg bank fixed at $C000
	m.writeInner(0x8000, 0x0C)
}

// 7  bit  0
// ---- ----
// Rxxx xxxD
// |       |
// |       +- Data bit to be shifted into shift register, LSB first
// +--------- 1: Reset shift register and write Control with (Control OR $0C),
//              locking PRG ROM at $C000-$FFFF to the last bank.
func (m *MapperMMC1) writeLoad(addr uint16, val uint8) {
	if val&0x80 != 0 {
		m.shift = 0
		m.counter = 0
		m.writeInner(0x8000, m.control|0x0C)
		return
	}

	m.shift |= (val & 0x1) << m.counter
	m.counter++

	if m.counter == 5 {
		m.writeInner(addr, m.shift)
		m.shift = 0
		m.counter = 0
	}
}

func (m *MapperMMC1) writeInner(addr uint16, val uint8) {
	switch {
	case addr <= 0x9FFF:
		m.writeControl(val)
	case addr <= 0xBFFF:
		m.chrBank0 = val & 0x1F
	case addr <= 0xDFFF:
		m.chrBank1 = val & 0x1F
	default:
		m.prgBank = val & 0x1F
	}
	m.updateBanks()
}

// Control (internal, $8000-$9FFF)
// 4bit0
// -----
// CPPMM
// |||||
// |||++- Mirroring (0: one-screen, lower bank; 1: one-screen, upper bank;
// |||               2: vertical; 3: horizontal)
// |++--- PRG ROM bank mode (0, 1: switch 32 KB at $8000, ignoring low bit of bank number;
// |                         2: fix first bank at $8000 and switch 16 KB bank at $C000;
// |                         3: fix last bank at $C000 and switch 16 KB bank at $8000)
// +----- CHR ROM bank mode (0: switch 8 KB at a time; 1: switch two separate 4 KB banks)
func (m *MapperMMC1) writeControl(val uint8) {
	m.control = val & 0x1F
	switch val & 0x3 {
	case 0:
		m.cart.SetMirroring(common.SingleScreenLowerMirroring)
	case 1:
		m.cart.SetMirroring(common.SingleScreenUpperMirroring)
	case 2:
		m.cart.SetMirroring(common.VerticalMirroring)
	case 3:
		m.cart.SetMirroring(common.HorizontalMirroring)
	}
}

func (m *MapperMMC1) prgBankMode() uint8 {
	return (m.control >> 2) & 0x3
}
func (m *MapperMMC1) chrBankMode() uint8 {
	return m.control >> 4
}

// bank selects beyond the cart wrap around rather than index off the
// end of the rom arrays
func (m *MapperMMC1) updateBanks() {
	chr4k := uint32(m.cart.chr.Size()) / 0x1000
	switch m.chrBankMode() {
	case 0:
		// one 8 KB bank, the low bit is ignored
		base := uint32(m.chrBank0 &^ 0x1)
		m.chrBanks[0] = (base % chr4k) * 0x1000
		m.chrBanks[1] = ((base + 1) % chr4k) * 0x1000
	case 1:
		// two independent 4 KB banks
		m.chrBanks[0] = (uint32(m.chrBank0) % chr4k) * 0x1000
		m.chrBanks[1] = (uint32(m.chrBank1) % chr4k) * 0x1000
	}

	prg16k := uint32(m.cart.prgRom.Size()) / 0x4000
	prgBank := uint32(m.prgBank & 0xF)
	switch m.prgBankMode() {
	case 0, 1:
		// 32 KB mode
		base := prgBank &^ 0x1
		m.prgBanks[0] = (base % prg16k) * 0x4000
		m.prgBanks[1] = ((base + 1) % prg16k) * 0x4000
	case 2:
		// first bank fixed at $8000, $C000 switches
		m.prgBanks[0] = 0x0000
		m.prgBanks[1] = (prgBank % prg16k) * 0x4000
	case 3:
		// last bank fixed at $C000, $8000 switches
		m.prgBanks[0] = (prgBank % prg16k) * 0x4000
		m.prgBanks[1] = uint32(m.cart.prgRom.Size()) - 0x4000
	}
}

// CPU $6000-$7FFF: 8 KB PRG RAM bank
// CPU $8000-$BFFF: 16 KB PRG ROM bank, either switchable or fixed to the first bank
// CPU $C000-$FFFF: 16 KB PRG ROM bank, either fixed to the last bank or switchable
// PPU $0000-$0FFF: 4 KB switchable CHR bank
// PPU $1000-$1FFF: 4 KB switchable CHR bank
func (m *MapperMMC1) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x1000:
		return m.cart.chr.Read8w(uint32(addr) + m.chrBanks[0])
	case addr < 0x2000:
		return m.cart.chr.Read8w(uint32(addr-0x1000) + m.chrBanks[1])
	case addr >= 0x6000 && addr < 0x8000:
		return m.cart.prgRam.Read8(addr - 0x6000)
	case addr >= 0x8000 && addr < 0xC000:
		return m.cart.prgRom.Read8w(m.prgBanks[0] + uint32(addr-0x8000))
	case addr >= 0xC000:
		return m.cart.prgRom.Read8w(m.prgBanks[1] + uint32(addr-0xC000))
	default:
		log.Printf("mmc1: read from unmapped address 0x%04x", addr)
		return 0
	}
}

func (m *MapperMMC1) Write8(addr uint16, val uint8) {
	switch {
	case addr < 0x1000:
		m.cart.chr.Write8w(uint32(addr)+m.chrBanks[0], val)
	case addr < 0x2000:
		m.cart.chr.Write8w(uint32(addr-0x1000)+m.chrBanks[1], val)
	case addr >= 0x6000 && addr < 0x8000:
		m.cart.prgRam.Write8(addr-0x6000, val)
	case addr >= 0x8000:
		m.writeLoad(addr, val)
	default:
		log.Printf("mmc1: write to unmapped address 0x%04x", addr)
	}
}

func (m *MapperMMC1) Serialise(s common.Serialiser) error {
	return s.Serialise(
		m.shift, m.counter, m.control, m.chrBank0, m.chrBank1, m.prgBank,
		m.prgBanks, m.chrBanks,
	)
}
func (m *MapperMMC1) DeSerialise(s common.Serialiser) error {
	return s.DeSerialise(
		&m.shift, &m.counter, &m.control, &m.chrBank0, &m.chrBank1, &m.prgBank,
		&m.prgBanks, &m.chrBanks,
	)
}
