package mappers

import (
	"log"

	"famicore/lib/common"
	"famicore/lib/cpu"
)

// https://wiki.nesdev.com/w/index.php/MMC3
//
// CPU $6000-$7FFF: 8 KB PRG RAM bank
// CPU $8000-$9FFF: 8 KB switchable PRG ROM bank (or second last)
// CPU $A000-$BFFF: 8 KB switchable PRG ROM bank
// CPU $C000-$DFFF: 8 KB PRG ROM bank, second last (or switchable)
// CPU $E000-$FFFF: 8 KB PRG ROM bank, fixed to the last bank
// PPU $0000-$1FFF: eight 1 KB CHR banks in two 2KB + four 1KB groups
type MapperMMC3 struct {
	cart *Cartridge

	bankSelect uint8
	registers  [8]uint8

	irqLatch   uint8
	irqCounter uint8
	irqEnable  bool
	irqReload  bool

	// previous level of ppu address line 12, the irq counter clocks
	// on its rising edge
	a12 uint8

	prgRamProtect uint8

	prgBanks [4]uint32
	chrBanks [8]uint32
}

func (m *MapperMMC3) Tick() {}

func (m *MapperMMC3) Init() {
	m.bankSelect = 0
	m.registers = [8]uint8{}
	m.irqLatch = 0
	m.irqCounter = 0
	m.irqEnable = false
	m.irqReload = false
	m.a12 = 0
	m.updateBanks()
}

// The MMC3 has 4 pairs of registers at $8000-$9FFF, $A000-$BFFF,
// $C000-$DFFF and $E000-$FFFF: even addresses select the first of the
// pair, odd addresses the second.
func (m *MapperMMC3) writeRegister(addr uint16, val uint8) {
	even := addr&1 == 0
	switch {
	case addr <= 0x9FFF && even:
		m.bankSelect = val
	case addr <= 0x9FFF:
		m.registers[m.bankSelect&0x7] = val
	case addr <= 0xBFFF && even:
		m.writeMirroring(val)
	case addr <= 0xBFFF:
		m.prgRamProtect = val
	case addr <= 0xDFFF && even:
		m.irqLatch = val
	case addr <= 0xDFFF:
		m.irqReload = true
	case even:
		m.irqEnable = false
		if m.cart.Cpu != nil {
			// acknowledges any pending interrupt as well
			m.cart.Cpu.ClearIrq(cpu.IrqMapper)
		}
	default:
		m.irqEnable = true
	}
	m.updateBanks()
}

// Mirroring ($A000-$BFFE, even)
//
// 7  bit  0
// ---- ----
// xxxx xxxM
//         |
//         +- Nametable mirroring (0: vertical; 1: horizontal)
func (m *MapperMMC3) writeMirroring(val uint8) {
	if m.cart.Tables.Mirroring == common.QuadScreenMirroring {
		// four screen carts hardwire their vram
		return
	}
	if val&1 == 0 {
		m.cart.SetMirroring(common.VerticalMirroring)
	} else {
		m.cart.SetMirroring(common.HorizontalMirroring)
	}
}

func (m *MapperMMC3) prgBank(index int32) uint32 {
	nBanks := int32(m.cart.prgRom.Size() / 0x2000)
	index %= nBanks
	if index < 0 {
		index += nBanks
	}
	return uint32(index) * 0x2000
}

func (m *MapperMMC3) chrBank(register int) uint32 {
	nBanks := m.cart.chr.Size() / 0x400
	if nBanks == 0 {
		return 0
	}
	return uint32(int(m.registers[register])%nBanks) * 0x400
}

func (m *MapperMMC3) updateBanks() {
	prgMode := (m.bankSelect >> 6) & 1
	switch prgMode {
	case 0:
		m.prgBanks[0] = m.prgBank(int32(m.registers[6]))
		m.prgBanks[1] = m.prgBank(int32(m.registers[7]))
		m.prgBanks[2] = m.prgBank(-2)
		m.prgBanks[3] = m.prgBank(-1)
	case 1:
		m.prgBanks[0] = m.prgBank(-2)
		m.prgBanks[1] = m.prgBank(int32(m.registers[7]))
		m.prgBanks[2] = m.prgBank(int32(m.registers[6]))
		m.prgBanks[3] = m.prgBank(-1)
	}

	chrMode := m.bankSelect >> 7
	switch chrMode {
	case 0:
		m.chrBanks[0] = m.chrBank(0) &^ 0x400
		m.chrBanks[1] = m.chrBanks[0] + 0x400
		m.chrBanks[2] = m.chrBank(1) &^ 0x400
		m.chrBanks[3] = m.chrBanks[2] + 0x400
		m.chrBanks[4] = m.chrBank(2)
		m.chrBanks[5] = m.chrBank(3)
		m.chrBanks[6] = m.chrBank(4)
		m.chrBanks[7] = m.chrBank(5)
	case 1:
		m.chrBanks[0] = m.chrBank(2)
		m.chrBanks[1] = m.chrBank(3)
		m.chrBanks[2] = m.chrBank(4)
		m.chrBanks[3] = m.chrBank(5)
		m.chrBanks[4] = m.chrBank(0) &^ 0x400
		m.chrBanks[5] = m.chrBanks[4] + 0x400
		m.chrBanks[6] = m.chrBank(1) &^ 0x400
		m.chrBanks[7] = m.chrBanks[6] + 0x400
	}
}

// notifyA12 watches ppu address line 12, a rising edge clocks the
// scanline counter.
func (m *MapperMMC3) notifyA12(addr uint16) {
	a12 := uint8((addr >> 12) & 1)
	if a12 == 1 && m.a12 == 0 {
		m.clockIrqCounter()
	}
	m.a12 = a12
}

func (m *MapperMMC3) clockIrqCounter() {
	if m.irqCounter == 0 || m.irqReload {
		m.irqCounter = m.irqLatch
		m.irqReload = false
	} else {
		m.irqCounter--
	}

	if m.irqCounter == 0 && m.irqEnable && m.cart.Cpu != nil {
		m.cart.Cpu.AssertIrq(cpu.IrqMapper)
	}
}

func (m *MapperMMC3) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		m.notifyA12(addr)
		return m.cart.chr.Read8w(m.chrBanks[addr/0x400] + uint32(addr%0x400))
	case addr >= 0x6000 && addr < 0x8000:
		return m.cart.prgRam.Read8(addr - 0x6000)
	case addr >= 0x8000:
		bank := (addr - 0x8000) / 0x2000
		return m.cart.prgRom.Read8w(m.prgBanks[bank] + uint32(addr%0x2000))
	default:
		log.Printf("mmc3: read from unmapped address 0x%04x", addr)
		return 0
	}
}

func (m *MapperMMC3) Write8(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		m.notifyA12(addr)
		m.cart.chr.Write8w(m.chrBanks[addr/0x400]+uint32(addr%0x400), val)
	case addr >= 0x6000 && addr < 0x8000:
		m.cart.prgRam.Write8(addr-0x6000, val)
	case addr >= 0x8000:
		m.writeRegister(addr, val)
	default:
		log.Printf("mmc3: write to unmapped address 0x%04x", addr)
	}
}

func (m *MapperMMC3) Serialise(s common.Serialiser) error {
	return s.Serialise(
		m.bankSelect, m.registers, m.irqLatch, m.irqCounter, m.irqEnable,
		m.irqReload, m.a12, m.prgRamProtect, m.prgBanks, m.chrBanks,
	)
}
func (m *MapperMMC3) DeSerialise(s common.Serialiser) error {
	return s.DeSerialise(
		&m.bankSelect, &m.registers, &m.irqLatch, &m.irqCounter, &m.irqEnable,
		&m.irqReload, &m.a12, &m.prgRamProtect, &m.prgBanks, &m.chrBanks,
	)
}
