package ppu

import (
	"famicore/lib/common"
)

// https://wiki.nesdev.com/w/index.php/PPU_palettes
// 32 bytes of palette ram, 4 background and 4 sprite palettes of
// three colours plus the shared backdrop.
type paletteRam struct {
	indexes [32]uint8
}

// Addresses $3F10/$3F14/$3F18/$3F1C are mirrors of $3F00/$3F04/$3F08/$3F0C
func paletteIndex(addr uint16) uint16 {
	addr &= 0x1F
	if addr >= 16 && addr%4 == 0 {
		addr -= 16
	}
	return addr
}

func (p *paletteRam) Read8(addr uint16) uint8 {
	return p.indexes[paletteIndex(addr)]
}

func (p *paletteRam) Write8(addr uint16, val uint8) {
	// colour indexes only go up to $3F
	p.indexes[paletteIndex(addr)] = val & 0x3F
}

func (p *paletteRam) Serialise(s common.Serialiser) error {
	return s.Serialise(p.indexes)
}
func (p *paletteRam) DeSerialise(s common.Serialiser) error {
	return s.DeSerialise(&p.indexes)
}
