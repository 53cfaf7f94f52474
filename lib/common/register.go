package common

import (
	"fmt"
)

// Device registers carry a name so traces read like the datasheets.
// An access tap turns a plain register into a port: the PPU front
// registers and the APU status run their side effects through them.
type regTap struct {
	write func()
	read  func() uint8
}

type Register struct {
	Val uint8

	name string
	tap  regTap
}

func (r *Register) Init(name string, val uint8) {
	r.name = name
	r.Val = val
}

// Initx attaches access taps alongside the initial value.
func (r *Register) Initx(name string, val uint8, onWrite func(), onRead func() uint8) {
	r.Init(name, val)
	r.tap = regTap{write: onWrite, read: onRead}
}

func (r *Register) Read() uint8 {
	if r.tap.read != nil {
		return r.tap.read()
	}
	return r.Val
}

func (r *Register) Write(val uint8) {
	r.Val = val
	if r.tap.write != nil {
		r.tap.write()
	}
}

// Set and Clr flip flag bits in place without running the write tap.
func (r *Register) Set(bits uint8) {
	r.Val |= bits
}

func (r *Register) Clr(bits uint8) {
	r.Val &^= bits
}

func (r Register) String() string {
	return fmt.Sprintf("%s: 0x%02x", r.name, r.Val)
}

// Register16 backs the program counter and the ppu address pair,
// plain state with no taps.
type Register16 struct {
	Val uint16

	name string
}

func (r *Register16) Init(name string, val uint16) {
	r.name = name
	r.Val = val
}

func (r *Register16) Read() uint16 {
	return r.Val
}

func (r *Register16) Write(val uint16) {
	r.Val = val
}

func (r Register16) String() string {
	return fmt.Sprintf("%s: 0x%04x", r.name, r.Val)
}
