package cpu

import (
	"fmt"
	"log"

	"famicore/lib/common"
)

// Interrupt vectors
const (
	VectorNMI   = 0xFFFA
	VectorReset = 0xFFFC
	VectorIRQ   = 0xFFFE
)

// IRQ line sources, the line stays asserted while any source holds it.
const (
	IrqApuFrame = 1 << iota
	IrqApuDmc
	IrqMapper
)

type Context struct {
	ins *Instruction
	opr uint32
	pgX bool
}

type Cpu struct {
	common.BusExtInt

	ins [256]Instruction

	curr Context

	Rg Registers

	// countdown until the current instruction retires, a new one is
	// fetched when it reaches zero
	cycles uint8

	// total cycles since power on
	clk uint64

	nmiPending bool
	irqSources uint8

	verbose bool

	illSeen [256]bool
}

func (c *Cpu) Serialise(s common.Serialiser) error {
	if err := c.Rg.Serialise(s); err != nil {
		return err
	}
	return s.Serialise(c.cycles, c.clk, c.nmiPending, c.irqSources)
}
func (c *Cpu) DeSerialise(s common.Serialiser) error {
	if err := c.Rg.DeSerialise(s); err != nil {
		return err
	}
	return s.DeSerialise(&c.cycles, &c.clk, &c.nmiPending, &c.irqSources)
}

func (c *Cpu) Init(busInt common.BusExtInt, verbose bool) {
	c.verbose = verbose

	c.Rg.Init()
	c.setupIns()

	c.BusExtInt = busInt
}

func (c *Cpu) Reset() {
	c.Rg.Init()
	c.Rg.Spc.Pc.Write(c.Read16(VectorReset))
	c.nmiPending = false
	c.irqSources = 0
	c.curr.ins = nil
	c.cycles = 8
}

// Idle reports whether the cpu sits between instructions, which is
// when interrupts get dispatched.
func (c *Cpu) Idle() bool {
	return c.cycles == 0
}

// Clk is the total cycle count since power on.
func (c *Cpu) Clk() uint64 {
	return c.clk
}

// Cycles is the countdown left on the current instruction.
func (c *Cpu) Cycles() uint8 {
	return c.cycles
}

// Raise latches an NMI, it fires before the next instruction.
func (c *Cpu) RaiseNmi() {
	c.nmiPending = true
}

// AssertIrq holds the irq line for the given source until cleared.
func (c *Cpu) AssertIrq(source uint8) {
	c.irqSources |= source
}
func (c *Cpu) ClearIrq(source uint8) {
	c.irqSources &= ^source
}

// Tick advances one cpu cycle: fetch and evaluate when idle, then
// burn down the instruction's cycle budget one tick at a time.
func (c *Cpu) Tick() {
	if c.cycles == 0 {
		c.exec()
	}
	c.cycles--
	c.clk++
}

// Step runs one whole instruction and reports the cycles spent, for
// callers that step instruction by instruction.
func (c *Cpu) Step() int {
	ticks := 0
	for {
		c.Tick()
		ticks++
		if c.cycles == 0 {
			return ticks
		}
	}
}

func (c *Cpu) exec() {
	if c.nmiPending {
		c.nmiPending = false
		c.interrupt(VectorNMI)
		return
	}
	if c.irqSources != 0 && c.Rg.Spc.Ps.Read()&BI == 0 {
		c.interrupt(VectorIRQ)
		return
	}

	c.curr.pgX = false
	c.curr.opr = c.fetch()
	opCode := uint8(c.curr.opr & 0xFF)
	c.curr.ins = &c.ins[opCode]

	if !c.curr.ins.implemented && !c.illSeen[opCode] {
		c.illSeen[opCode] = true
		log.Printf("undocumented opcode 0x%02x (%s) at 0x%04x, running as a nop",
			opCode, c.curr.ins.opName, c.Rg.Spc.Pc.Val)
	}

	if c.verbose {
		log.Printf("0x%04x: 0x%02x - %s %s", c.Rg.Spc.Pc.Val, opCode,
			c.curr.ins.opName, c.getOperandString(c.curr.ins))
	}

	c.curr.ins.eval()
	c.Rg.Spc.Pc.Val += uint16(c.curr.ins.opLength)

	c.cycles += c.curr.ins.opCycles
	if c.curr.pgX {
		c.cycles += c.curr.ins.opPageCycles
	}
}

// interrupt runs the 7 cycle nmi/irq sequence: push pc and status,
// mask further irqs, jump through the vector.
func (c *Cpu) interrupt(vector uint16) {
	c.push16(c.Rg.Spc.Pc.Read())
	c.push8(c.Rg.Spc.Ps.Read() &^ BB)
	c.Rg.Spc.Ps.Set(BI, BI)
	c.Rg.Spc.Pc.Write(c.Read16(vector))
	c.cycles = 7
}

func (c *Cpu) fetch() uint32 {
	op01 := c.Read16(c.Rg.Spc.Pc.Val)
	op2 := c.Read8(c.Rg.Spc.Pc.Val + 2)
	return uint32(op01) | uint32(op2)<<16
}

func pageCrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

func (c *Cpu) getOperandAddr(ins *Instruction) uint16 {
	op1 := uint16(c.curr.opr&0xFF00) >> 8
	op12 := uint16((c.curr.opr & 0xFFFF00) >> 8)
	switch ins.addrMode {
	case ModeImmediate:
		return c.Rg.Spc.Pc.Read() + 1
	case ModeZeroPage:
		return op1
	case ModeIndexedZeroPageX:
		return (op1 + uint16(c.Rg.Gp.Ix.X.Read())) % 256
	case ModeIndexedZeroPageY:
		return (op1 + uint16(c.Rg.Gp.Ix.Y.Read())) % 256
	case ModeAbsolute:
		return op12
	case ModeIndexedAbsoluteX:
		x := uint16(c.Rg.Gp.Ix.X.Read())
		addr := op12 + x
		c.curr.pgX = pageCrossed(addr-x, addr)
		return addr
	case ModeIndexedAbsoluteY:
		y := uint16(c.Rg.Gp.Ix.Y.Read())
		addr := op12 + y
		c.curr.pgX = pageCrossed(addr-y, addr)
		return addr
	case ModeIndexedIndirectX:
		return c.read16zp(uint8(op1) + c.Rg.Gp.Ix.X.Read())
	case ModeIndirectIndexedY:
		y := uint16(c.Rg.Gp.Ix.Y.Read())
		addr := c.read16zp(uint8(op1)) + y
		c.curr.pgX = pageCrossed(addr-y, addr)
		return addr
	case ModeIndirect:
		// the 6502 fetches the high byte from the start of the same
		// page when the vector sits at $xxFF
		if op12&0xFF == 0xFF {
			l := uint16(c.Read8(op12))
			h := uint16(c.Read8(op12 & 0xFF00))
			return l | h<<8
		}
		return c.Read16(op12)
	case ModeRelative:
		// signed offset so branches can go backwards
		return c.Rg.Spc.Pc.Read() + uint16(ins.opLength) + uint16(int8(op1))
	default:
		panic(fmt.Errorf("invalid instruction address mode: %d", ins.addrMode))
	}
}

// zero page indirection wraps within the page
func (c *Cpu) read16zp(addr uint8) uint16 {
	l := uint16(c.Read8(uint16(addr)))
	h := uint16(c.Read8(uint16(addr + 1)))
	return l | h<<8
}

func (c *Cpu) getOperandString(ins *Instruction) string {
	op1 := uint16(c.curr.opr&0xFF00) >> 8
	op12 := uint16((c.curr.opr & 0xFFFF00) >> 8)
	str := ""
	switch ins.addrMode {
	case ModeImplied:
	case ModeAccumulator:
	case ModeImmediate:
		str = fmt.Sprintf("#$%02x", op1)
	case ModeZeroPage:
		str = fmt.Sprintf("$%02x", op1)
	case ModeIndexedZeroPageX:
		str = fmt.Sprintf("$%02x, X", op1)
	case ModeIndexedZeroPageY:
		str = fmt.Sprintf("$%02x, Y", op1)
	case ModeAbsolute:
		str = fmt.Sprintf("$%04x", op12)
	case ModeIndexedAbsoluteX:
		str = fmt.Sprintf("$%04x, X", op12)
	case ModeIndexedAbsoluteY:
		str = fmt.Sprintf("$%04x, Y", op12)
	case ModeIndexedIndirectX:
		str = fmt.Sprintf("($%02x, X)", op1)
	case ModeIndirectIndexedY:
		str = fmt.Sprintf("($%02x), Y", op1)
	case ModeIndirect:
		str = fmt.Sprintf("($%04x)", op12)
	case ModeRelative:
		str = fmt.Sprintf("#$%02x", op1)
	}
	return str
}
