package cpu

import (
	"testing"

	"famicore/lib/common"
)

// flat 64KB memory, enough to exercise the cpu on its own
type flatBus struct {
	mem [0x10000]uint8
}

func (b *flatBus) Read8(addr uint16) uint8 {
	return b.mem[addr]
}
func (b *flatBus) Write8(addr uint16, val uint8) {
	b.mem[addr] = val
}
func (b *flatBus) Read16(addr uint16) uint16 {
	return uint16(b.Read8(addr)) | uint16(b.Read8(addr+1))<<8
}
func (b *flatBus) Write16(addr uint16, val uint16) {
	b.Write8(addr, uint8(val&0xFF))
	b.Write8(addr+1, uint8(val>>8))
}

var _ common.BusExtInt = &flatBus{}

const testOrg = 0x0200

func newTestCpu(program []uint8) (*Cpu, *flatBus) {
	bus := &flatBus{}
	copy(bus.mem[testOrg:], program)
	bus.Write16(VectorReset, testOrg)

	c := &Cpu{}
	c.Init(bus, false)
	c.Reset()
	for !c.Idle() {
		c.Tick()
	}
	return c, bus
}

func Test_ResetState(t *testing.T) {
	c, _ := newTestCpu(nil)

	if pc := c.Rg.Spc.Pc.Read(); pc != testOrg {
		t.Errorf("Pc not loaded from the reset vector, got 0x%04x", pc)
	}
	if sp := c.Rg.Spc.Sp.Read(); sp != 0xFD {
		t.Errorf("Sp after reset: got 0x%02x, want 0xfd", sp)
	}
	if ps := c.Rg.Spc.Ps.Read(); ps != BI|BE {
		t.Errorf("Ps after reset: got 0x%02x, want 0x%02x", ps, BI|BE)
	}
}

func Test_ResetBurnsEightCycles(t *testing.T) {
	bus := &flatBus{}
	bus.Write16(VectorReset, testOrg)

	c := &Cpu{}
	c.Init(bus, false)
	c.Reset()

	if c.Cycles() != 8 {
		t.Fatalf("reset cycle budget: got %d, want 8", c.Cycles())
	}
	if ticks := c.Step(); ticks != 8 {
		t.Errorf("reset burn: got %d ticks, want 8", ticks)
	}
}

func Test_OpTiming(t *testing.T) {
	tests := []struct {
		name    string
		program []uint8
		prefix  func(c *Cpu, b *flatBus)
		ticks   int
	}{
		{name: "ldaIMM", program: []uint8{0xA9, 0x10}, ticks: 2},
		{name: "ldaZPG", program: []uint8{0xA5, 0x10}, ticks: 3},
		{name: "ldaABS", program: []uint8{0xAD, 0x00, 0x10}, ticks: 4},
		{name: "ldaABXSamePage", program: []uint8{0xBD, 0x00, 0x10},
			prefix: func(c *Cpu, b *flatBus) { c.Rg.Gp.Ix.X.Write(0x0F) }, ticks: 4},
		{name: "ldaABXPageCross", program: []uint8{0xBD, 0xF8, 0x10},
			prefix: func(c *Cpu, b *flatBus) { c.Rg.Gp.Ix.X.Write(0x0F) }, ticks: 5},
		{name: "ldaIIYPageCross", program: []uint8{0xB1, 0x10},
			prefix: func(c *Cpu, b *flatBus) {
				b.Write16(0x10, 0x10F8)
				c.Rg.Gp.Ix.Y.Write(0x0F)
			}, ticks: 6},
		// stores pay the page cross penalty unconditionally
		{name: "staABX", program: []uint8{0x9D, 0x00, 0x10},
			prefix: func(c *Cpu, b *flatBus) { c.Rg.Gp.Ix.X.Write(0x0F) }, ticks: 5},
		{name: "staABXPageCross", program: []uint8{0x9D, 0xF8, 0x10},
			prefix: func(c *Cpu, b *flatBus) { c.Rg.Gp.Ix.X.Write(0x0F) }, ticks: 5},
		{name: "incABS", program: []uint8{0xEE, 0x00, 0x10}, ticks: 6},
		// Z is clear after reset: beq falls through, bne branches
		{name: "branchNotTaken", program: []uint8{0xF0, 0x10}, ticks: 2},
		{name: "branchTakenSamePage", program: []uint8{0xD0, 0x10}, ticks: 3},
		{name: "branchTakenPageCross", program: []uint8{0xD0, 0x80}, ticks: 4},
		{name: "jsr", program: []uint8{0x20, 0x00, 0x10}, ticks: 6},
		{name: "pha", program: []uint8{0x48}, ticks: 3},
		{name: "pla", program: []uint8{0x68}, ticks: 4},
		{name: "brk", program: []uint8{0x00}, ticks: 7},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c, b := newTestCpu(test.program)
			if test.prefix != nil {
				test.prefix(c, b)
			}
			if ticks := c.Step(); ticks != test.ticks {
				t.Errorf("got %d ticks, want %d", ticks, test.ticks)
			}
		})
	}
}

func Test_JmpIndirectPageWrap(t *testing.T) {
	// the vector straddles $03FF so the high byte comes from $0300,
	// not $0400
	c, b := newTestCpu([]uint8{0x6C, 0xFF, 0x03})
	b.Write8(0x03FF, 0x34)
	b.Write8(0x0300, 0x12)
	b.Write8(0x0400, 0x56)

	c.Step()
	if pc := c.Rg.Spc.Pc.Read(); pc != 0x1234 {
		t.Errorf("jmp indirect across a page: got Pc 0x%04x, want 0x1234", pc)
	}
}

func Test_ZeroPageIndexWraps(t *testing.T) {
	// ($FF,X) with X=2 reads its pointer from $01/$02, never $0101
	c, b := newTestCpu([]uint8{0xA1, 0xFF})
	b.Write8(0x01, 0x00)
	b.Write8(0x02, 0x10)
	b.Write8(0x1000, 0x42)
	c.Rg.Gp.Ix.X.Write(2)

	c.Step()
	if ac := c.Rg.Gp.Ac.Read(); ac != 0x42 {
		t.Errorf("got Ac 0x%02x, want 0x42", ac)
	}
}

func Test_AdcFlags(t *testing.T) {
	tests := []struct {
		name  string
		ac    uint8
		opr   uint8
		res   uint8
		flags uint8
	}{
		{name: "positiveOverflow", ac: 0x7F, opr: 0x01, res: 0x80, flags: BV | BN},
		{name: "carryOut", ac: 0xFF, opr: 0x01, res: 0x00, flags: BC | BZ},
		{name: "negativeOverflow", ac: 0x80, opr: 0x80, res: 0x00, flags: BC | BZ | BV},
		{name: "plain", ac: 0x10, opr: 0x05, res: 0x15, flags: 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c, _ := newTestCpu([]uint8{0x69, test.opr})
			c.Rg.Gp.Ac.Write(test.ac)
			c.Step()

			if ac := c.Rg.Gp.Ac.Read(); ac != test.res {
				t.Errorf("got Ac 0x%02x, want 0x%02x", ac, test.res)
			}
			want := test.flags | BI | BE
			if ps := c.Rg.Spc.Ps.Read(); ps != want {
				t.Errorf("got Ps 0x%02x, want 0x%02x", ps, want)
			}
		})
	}
}

func Test_PhpPlp(t *testing.T) {
	c, b := newTestCpu([]uint8{0x08, 0x28})

	c.Step() // php
	if pushed := b.Read8(0x01FD); pushed != BI|BE|BB {
		t.Fatalf("php pushed 0x%02x, want 0x%02x", pushed, BI|BE|BB)
	}

	// plp must never land B back in the register
	b.Write8(0x01FD, 0xFF)
	c.Step()
	if ps := c.Rg.Spc.Ps.Read(); ps != 0xFF&^BB {
		t.Errorf("plp restored 0x%02x, want 0x%02x", ps, 0xFF&^uint8(BB))
	}
}

func Test_BrkRti(t *testing.T) {
	c, b := newTestCpu([]uint8{0x00})
	b.Write16(VectorIRQ, 0x0300)
	b.Write8(0x0300, 0x40) // rti

	if ticks := c.Step(); ticks != 7 {
		t.Errorf("brk: got %d ticks, want 7", ticks)
	}
	if pc := c.Rg.Spc.Pc.Read(); pc != 0x0300 {
		t.Fatalf("brk: got Pc 0x%04x, want 0x0300", pc)
	}
	if ps := c.Rg.Spc.Ps.Read(); ps&BI == 0 {
		t.Errorf("brk must set the interrupt disable flag")
	}
	// the pushed copy carries B, the live register never does
	if pushed := b.Read8(0x01FB); pushed&BB == 0 {
		t.Errorf("brk pushed 0x%02x without the B bit", pushed)
	}

	c.Step() // rti
	if pc := c.Rg.Spc.Pc.Read(); pc != testOrg+2 {
		t.Errorf("rti: got Pc 0x%04x, want 0x%04x", pc, testOrg+2)
	}
	if sp := c.Rg.Spc.Sp.Read(); sp != 0xFD {
		t.Errorf("rti: got Sp 0x%02x, want 0xfd", sp)
	}
}

func Test_NmiBeforeIrq(t *testing.T) {
	c, b := newTestCpu([]uint8{0xEA, 0xEA})
	b.Write16(VectorNMI, 0x0400)
	b.Write16(VectorIRQ, 0x0500)
	b.Write8(0x0400, 0xEA)
	b.Write8(0x0500, 0xEA)

	c.RaiseNmi()
	c.AssertIrq(IrqApuFrame)
	c.Rg.Spc.Ps.Set(BI, 0)

	if ticks := c.Step(); ticks != 7 {
		t.Errorf("interrupt entry: got %d ticks, want 7", ticks)
	}
	if pc := c.Rg.Spc.Pc.Read(); pc != 0x0400 {
		t.Fatalf("nmi must win over irq, got Pc 0x%04x", pc)
	}

	// the irq line is still held but the entry masked it
	c.Step()
	if pc := c.Rg.Spc.Pc.Read(); pc == 0x0500 {
		t.Errorf("irq dispatched despite the interrupt disable flag")
	}
}

func Test_IrqMaskingAndClear(t *testing.T) {
	c, b := newTestCpu([]uint8{0xEA, 0xEA, 0xEA})
	b.Write16(VectorIRQ, 0x0500)
	b.Write8(0x0500, 0xEA)

	c.AssertIrq(IrqMapper)
	c.Step()
	if pc := c.Rg.Spc.Pc.Read(); pc != testOrg+1 {
		t.Fatalf("irq taken while masked, Pc 0x%04x", pc)
	}

	c.Rg.Spc.Ps.Set(BI, 0)
	c.Step()
	if pc := c.Rg.Spc.Pc.Read(); pc != 0x0500 {
		t.Fatalf("irq not taken once unmasked, Pc 0x%04x", pc)
	}

	// the line stays asserted until every source releases it
	c.AssertIrq(IrqApuFrame)
	c.ClearIrq(IrqMapper)
	c.Rg.Spc.Ps.Set(BI, 0)
	c.Step()
	if pc := c.Rg.Spc.Pc.Read(); pc != 0x0500 {
		t.Fatalf("irq line released too early, Pc 0x%04x", pc)
	}

	c.ClearIrq(IrqApuFrame)
	c.Rg.Spc.Ps.Set(BI, 0)
	c.Step()
	if pc := c.Rg.Spc.Pc.Read(); pc != 0x0501 {
		t.Errorf("irq taken with no source holding the line, Pc 0x%04x", pc)
	}
}

func Test_UndocumentedOpcodeRunsAsNop(t *testing.T) {
	// 0x80: undocumented 2 byte nop
	c, _ := newTestCpu([]uint8{0x80, 0x00, 0xA9, 0x55})
	c.Step()
	if pc := c.Rg.Spc.Pc.Read(); pc != testOrg+2 {
		t.Fatalf("got Pc 0x%04x, want 0x%04x", pc, testOrg+2)
	}
	c.Step()
	if ac := c.Rg.Gp.Ac.Read(); ac != 0x55 {
		t.Errorf("execution derailed after the nop, Ac 0x%02x", ac)
	}
}

func Test_ShiftsThroughCarry(t *testing.T) {
	// rol a with carry in and bit 7 set
	c, _ := newTestCpu([]uint8{0x2A})
	c.Rg.Gp.Ac.Write(0x81)
	c.Rg.Spc.Ps.Set(BC, BC)
	c.Step()

	if ac := c.Rg.Gp.Ac.Read(); ac != 0x03 {
		t.Errorf("rol: got Ac 0x%02x, want 0x03", ac)
	}
	if ps := c.Rg.Spc.Ps.Read(); ps&BC == 0 {
		t.Errorf("rol must move bit 7 into carry")
	}
}
