package cpu

import (
	"fmt"

	"famicore/lib/common"
)

const (
	C = 0 // Carry
	Z = 1 // Zero Result
	I = 2 // Interrupt Disable
	D = 3 // Decimal Mode
	B = 4 // Break Command
	E = 5 // Expansion
	V = 6 // Overflow
	N = 7 // Negative Result

	BC = 1 << C
	BZ = 1 << Z
	BI = 1 << I
	BD = 1 << D
	BB = 1 << B
	BE = 1 << E
	BV = 1 << V
	BN = 1 << N
)

type psRegister struct {
	val uint8

	name string
}

func (ps *psRegister) Read() uint8 {
	// the expansion bit reads back set on a real 6502
	return ps.val | BE
}

func (ps *psRegister) Write(value uint8) {
	ps.val = value | BE
}

// Set updates the selected flags from value: Z tracks value==0,
// N tracks the sign bit, the remaining flags copy their own bit.
func (ps *psRegister) Set(flags int, value int8) {
	for _, f := range [...]uint8{BC, BI, BD, BB, BV} {
		if flags&int(f) != 0 {
			if uint8(value)&f != 0 {
				ps.val |= f
			} else {
				ps.val &= ^f
			}
		}
	}
	if flags&BZ != 0 {
		if value == 0 {
			ps.val |= BZ
		} else {
			ps.val &= ^uint8(BZ)
		}
	}
	if flags&BN != 0 {
		if value < 0 {
			ps.val |= BN
		} else {
			ps.val &= ^uint8(BN)
		}
	}
}

func (ps psRegister) String() string {
	v := ps.Read()
	return fmt.Sprintf("%s: 0x%02x (N:%d V:%d E:%d B:%d D:%d I:%d Z:%d C:%d)", ps.name, v,
		v>>N&1, v>>V&1, v>>E&1, v>>B&1, v>>D&1, v>>I&1, v>>Z&1, v>>C&1)
}

func (ps *psRegister) init(name string, val uint8) {
	ps.Write(val)
	ps.name = name
}

type spcRegisters struct {
	Pc common.Register16
	Sp common.Register
	Ps psRegister

	name string
}

func (r *spcRegisters) init(name string) {
	r.Pc.Init("Pc", 0xFFFC)
	r.Sp.Init("Sp", 0xFD)
	r.Ps.init("Ps", BI|BE)
	r.name = name
}
func (r spcRegisters) String() string {
	return fmt.Sprintf("%s, %s, %s", r.Pc, r.Sp, r.Ps)
}

type ixRegisters struct {
	X common.Register
	Y common.Register

	name string
}

func (r *ixRegisters) init(name string) {
	r.X.Init("X", 0)
	r.Y.Init("Y", 0)
	r.name = name
}
func (r ixRegisters) String() string {
	return fmt.Sprintf("%s, %s", r.X, r.Y)
}

type gpRegisters struct {
	Ac common.Register
	Ix ixRegisters

	name string
}

func (r *gpRegisters) init(name string) {
	r.Ac.Init("Ac", 0)
	r.Ix.init("Ix")
	r.name = name
}
func (r gpRegisters) String() string {
	return fmt.Sprintf("%s, %s", r.Ac, r.Ix)
}

type Registers struct {
	Spc spcRegisters
	Gp  gpRegisters
}

func (r *Registers) Init() {
	r.Spc.init("spcr")
	r.Gp.init("gpr")
}

func (r Registers) String() string {
	return fmt.Sprintf("%s, %s", r.Spc, r.Gp)
}

func (r *Registers) Serialise(s common.Serialiser) error {
	return s.Serialise(r.Spc.Pc.Val, r.Spc.Sp.Val, r.Spc.Ps.val,
		r.Gp.Ac.Val, r.Gp.Ix.X.Val, r.Gp.Ix.Y.Val)
}
func (r *Registers) DeSerialise(s common.Serialiser) error {
	return s.DeSerialise(&r.Spc.Pc.Val, &r.Spc.Sp.Val, &r.Spc.Ps.val,
		&r.Gp.Ac.Val, &r.Gp.Ix.X.Val, &r.Gp.Ix.Y.Val)
}
