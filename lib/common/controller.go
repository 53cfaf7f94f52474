package common

const (
	BitA = iota
	BitB
	BitSelect
	BitStart
	BitUp
	BitDown
	BitLeft
	BitRight
)

// Button order on the wire: A is reported first, so it sits in the
// top bit of the packed byte.
type gamePad struct {
	buttons uint8

	shift  uint8
	nReads uint8
}

func (g *gamePad) Serialise(s Serialiser) error {
	return s.Serialise(g.buttons, g.shift, g.nReads)
}
func (g *gamePad) DeSerialise(s Serialiser) error {
	return s.DeSerialise(&g.buttons, &g.shift, &g.nReads)
}

func (g *gamePad) reload() {
	g.shift = g.buttons
	g.nReads = 0
}

func (g *gamePad) read(strobe uint8) uint8 {
	if strobe&0x1 == 1 {
		// while the strobe is held the pad keeps reloading,
		// so every read reports the A button
		g.reload()
		return g.buttons >> 7
	}

	if g.nReads >= 8 {
		// shifted out, an official pad reports 1 from here on
		return 1
	}

	val := g.shift >> 7
	g.shift <<= 1
	g.nReads++
	return val
}

type Controllers struct {
	pads   [2]gamePad
	strobe uint8
}

func (c *Controllers) Serialise(s Serialiser) error {
	for i := range c.pads {
		if err := c.pads[i].Serialise(s); err != nil {
			return err
		}
	}
	return s.Serialise(c.strobe)
}
func (c *Controllers) DeSerialise(s Serialiser) error {
	for i := range c.pads {
		if err := c.pads[i].DeSerialise(s); err != nil {
			return err
		}
	}
	return s.DeSerialise(&c.strobe)
}

func (c *Controllers) Init() {
	c.pads = [2]gamePad{}
	c.strobe = 0
}

func (c *Controllers) Reset() {
	c.Init()
}

// Set latches the whole button byte for one pad, A in bit 7 down to
// Right in bit 0.
func (c *Controllers) Set(padId uint8, buttons uint8) {
	c.pads[padId].buttons = buttons
}

// Poke presses or releases a single button, for UI wiring.
func (c *Controllers) Poke(padId uint8, button uint8, pressed bool) {
	bit := uint8(1) << (7 - button)
	if pressed {
		c.pads[padId].buttons |= bit
	} else {
		c.pads[padId].buttons &= ^bit
	}
}

// BusInt
func (c *Controllers) Read8(addr uint16) uint8 {
	switch addr {
	case 0x4016:
		return c.pads[0].read(c.strobe)
	case 0x4017:
		return c.pads[1].read(c.strobe)
	}
	return 0
}

func (c *Controllers) Write8(addr uint16, val uint8) {
	switch addr {
	case 0x4016:
		c.strobe = val & 0x1
		if c.strobe == 0 {
			// falling edge freezes the latched state into the
			// shift registers
			for i := range c.pads {
				c.pads[i].reload()
			}
		}
	}
}
