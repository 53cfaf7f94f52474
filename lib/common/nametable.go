package common

import "log"

type NameTableMirroring uint8

// NameTable Mirroring
const (
	HorizontalMirroring NameTableMirroring = iota
	VerticalMirroring
	SingleScreenLowerMirroring
	SingleScreenUpperMirroring
	// CIRAM disabled, the cartridge carries vram for all four tables
	QuadScreenMirroring
)

// For each mirroring mode, which physical 1KB table backs each of
// the four logical nametables.
var mirrorTable = [...][4]uint16{
	HorizontalMirroring:        {0, 0, 1, 1},
	VerticalMirroring:          {0, 1, 0, 1},
	SingleScreenLowerMirroring: {0, 0, 0, 0},
	SingleScreenUpperMirroring: {1, 1, 1, 1},
	QuadScreenMirroring:        {0, 1, 2, 3},
}

// busInt
type NameTables struct {
	vRam Ram

	Mirroring NameTableMirroring
}

func (n *NameTables) Serialise(s Serialiser) error {
	return s.Serialise(&n.vRam, n.Mirroring)
}
func (n *NameTables) DeSerialise(s Serialiser) error {
	return s.DeSerialise(&n.vRam, &n.Mirroring)
}

func (n *NameTables) Init(defaultMirror NameTableMirroring) {
	// 4KB so quad screen carts fit as well
	n.vRam.Init(0x800 * 2)
	n.Mirroring = defaultMirror
}

func (n *NameTables) Read8(addr uint16) uint8 {
	return n.vRam.Read8(n.decode(addr))
}
func (n *NameTables) Write8(addr uint16, val uint8) {
	n.vRam.Write8(n.decode(addr), val)
}

func (n *NameTables) decode(addr uint16) uint16 {
	if int(n.Mirroring) >= len(mirrorTable) {
		log.Panicf("invalid nametable mirroring mode %d", n.Mirroring)
	}
	addr = (addr - 0x2000) % 0x1000
	table := addr / 0x400
	return mirrorTable[n.Mirroring][table]*0x400 + addr%0x400
}
