package console

import (
	"bytes"
	"strings"
	"testing"

	"famicore/lib/common"
	"famicore/lib/cpu"
)

func newTestConsole(t *testing.T) *Console {
	c, err := New(nil, nil)
	if err != nil {
		t.Fatalf("failed to build the console: %v", err)
	}
	return c
}

type cpuTest struct {
	prefix  func()
	name    string
	code    string
	result  string
	postfix func()
}

func cmpMem(c *Console, t *testing.T, checkAddr uint16, expectedVal uint8) {
	checkVal := c.ram.Read8(checkAddr)
	if checkVal != expectedVal {
		t.Errorf("Output of test %s was incorrect!\nGot:\t\t[0x%04x]=%02x\nExpected:\t[0x%04x]=%02x", t.Name(), checkAddr, checkVal, checkAddr, expectedVal)
	}
}

// runToBrk steps instruction by instruction until the next opcode is
// brk, so the register state reflects the program and nothing else
func runToBrk(c *Console, t *testing.T) {
	for i := 0; i < 100000; i++ {
		if c.cpu.Idle() && c.cpu.Read8(c.cpu.Rg.Spc.Pc.Read()) == 0x00 {
			return
		}
		c.cpu.Step()
	}
	t.Fatalf("[%s] the test program never reached a brk", t.Name())
}

func testCpuTest(c *Console, t *testing.T, cpuTest cpuTest) {
	c.LoadHexDump(cpuTest.code)

	if cpuTest.prefix != nil {
		cpuTest.prefix()
	}
	c.cpu.Rg.Spc.Ps.Set(cpu.BZ|cpu.BN, int8(c.cpu.Rg.Gp.Ac.Read()))

	runToBrk(c, t)

	if strings.TrimSuffix(c.cpu.Rg.String(), "\n") != cpuTest.result {
		t.Fatalf("[%s][%s] test failed!\nGot:\t\t%s\nExpected:\t%s", t.Name(), cpuTest.name, c.cpu.Rg.String(), cpuTest.result)
	}

	if cpuTest.postfix != nil {
		cpuTest.postfix()
	}
}

func Test_newConsole(t *testing.T) {
	c := newTestConsole(t)
	if c.CPU() == nil || c.PPU() == nil {
		t.Errorf("console devices not wired up")
	}
}

// should be able to generate the tests for similar fn's, ld*,st*
func Test_RunOpTest(t *testing.T) {
	c := newTestConsole(t)

	var ldaIMM = cpuTest{code: "0600: a9 aa 00", result: "Pc: 0x0602, Sp: 0xfd, Ps: 0xa4 (N:1 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0xaa, X: 0x00, Y: 0x00"}
	testCpuTest(c, t, ldaIMM)
	var ldaZPG = cpuTest{code: "0600: a5 bb 00", result: "Pc: 0x0602, Sp: 0xfd, Ps: 0x24 (N:0 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0x77, X: 0x00, Y: 0x00", prefix: func() { c.ram.Write8(0xbb, 0x77) }}
	testCpuTest(c, t, ldaZPG)
	var ldaABS = cpuTest{code: "0600: ad 88 18 00", result: "Pc: 0x0603, Sp: 0xfd, Ps: 0xa4 (N:1 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0x88, X: 0x00, Y: 0x00", prefix: func() { c.ram.Write8(0x1888%0x800, 0x88) }}
	testCpuTest(c, t, ldaABS)
	var ldaABX = cpuTest{code: "0600: bd fe ff 00", result: "Pc: 0x0603, Sp: 0xfd, Ps: 0xa4 (N:1 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0x99, X: 0x0d, Y: 0x00", prefix: func() {
		c.ram.Write8(0x0B, 0x99)
		c.cpu.Rg.Gp.Ix.X.Write(0xD)
	}}
	testCpuTest(c, t, ldaABX)
	var ldaABY = cpuTest{code: "0600: b9 fe ff 00", result: "Pc: 0x0603, Sp: 0xfd, Ps: 0xa4 (N:1 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0xf9, X: 0x00, Y: 0x0d", prefix: func() {
		c.ram.Write8(0x0B, 0xF9)
		c.cpu.Rg.Gp.Ix.Y.Write(0xD)
	}}
	testCpuTest(c, t, ldaABY)
	var ldaIIX = cpuTest{code: "0600: a1 00 00", result: "Pc: 0x0602, Sp: 0xfd, Ps: 0xa4 (N:1 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0xcc, X: 0x01, Y: 0x00", prefix: func() {
		c.ram.Write8(0x2, 0x1)
		c.ram.Write8(0x100, 0xCC)
		c.cpu.Rg.Gp.Ix.X.Write(1)
	}}
	testCpuTest(c, t, ldaIIX)
	var ldaIIY = cpuTest{code: "0600: b1 01 00", result: "Pc: 0x0602, Sp: 0xfd, Ps: 0xa4 (N:1 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0xcc, X: 0x00, Y: 0x02", prefix: func() {
		c.ram.Write8(0x2, 0x1)
		c.ram.Write8(0x102, 0xCC)
		c.cpu.Rg.Gp.Ix.Y.Write(2)
	}}
	testCpuTest(c, t, ldaIIY)
	var ldaZPX = cpuTest{code: "0600: b5 ff 00", result: "Pc: 0x0602, Sp: 0xfd, Ps: 0xa4 (N:1 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0xfe, X: 0x0b, Y: 0x00", prefix: func() {
		c.ram.Write8(0xA, 0xFE)
		c.cpu.Rg.Gp.Ix.X.Write(0xB)
	}}
	testCpuTest(c, t, ldaZPX)
	var ldxZPY = cpuTest{code: "0600: b6 ff 00", result: "Pc: 0x0602, Sp: 0xfd, Ps: 0xa4 (N:1 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0x00, X: 0xef, Y: 0x0c", prefix: func() {
		c.ram.Write8(0xB, 0xEF)
		c.cpu.Rg.Gp.Ix.Y.Write(0xC)
	}}
	testCpuTest(c, t, ldxZPY)
	var staIIX = cpuTest{code: "0600: 81 21 00", result: "Pc: 0x0602, Sp: 0xfd, Ps: 0x24 (N:0 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0x0c, X: 0x01, Y: 0x00", prefix: func() {
		c.ram.Write8(0x22, 0x0)
		c.ram.Write8(0x23, 0x1)
		c.cpu.Rg.Gp.Ac.Write(0x0C)
		c.cpu.Rg.Gp.Ix.X.Write(1)
	}, postfix: func() {
		cmpMem(c, t, 0x100, 0x0C)
	}}
	testCpuTest(c, t, staIIX)
	var staIIY = cpuTest{code: "0600: 91 21 00", result: "Pc: 0x0602, Sp: 0xfd, Ps: 0x24 (N:0 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0x0c, X: 0x00, Y: 0x01", prefix: func() {
		c.ram.Write8(0x21, 0x10)
		c.ram.Write8(0x22, 0x1)
		c.cpu.Rg.Gp.Ac.Write(0x0C)
		c.cpu.Rg.Gp.Ix.Y.Write(1)
	}, postfix: func() {
		cmpMem(c, t, 0x111, 0x0C)
	}}
	testCpuTest(c, t, staIIY)
	var staZPX = cpuTest{code: "0600: 95 ff 00", result: "Pc: 0x0602, Sp: 0xfd, Ps: 0x24 (N:0 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0x7e, X: 0x0b, Y: 0x00", prefix: func() {
		c.cpu.Rg.Gp.Ac.Write(0x7E)
		c.cpu.Rg.Gp.Ix.X.Write(0xB)
	}, postfix: func() {
		cmpMem(c, t, 0xA, 0x7E)
	}}
	testCpuTest(c, t, staZPX)
	var staABY = cpuTest{code: "0600: 99 ff 00 00", result: "Pc: 0x0603, Sp: 0xfd, Ps: 0x24 (N:0 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0x7e, X: 0x00, Y: 0x0b", prefix: func() {
		c.cpu.Rg.Gp.Ac.Write(0x7E)
		c.cpu.Rg.Gp.Ix.Y.Write(0xB)
	}, postfix: func() {
		cmpMem(c, t, 0x010A, 0x7E)
	}}
	testCpuTest(c, t, staABY)
	var stxZPG = cpuTest{code: "0600: 86 ff 00", result: "Pc: 0x0602, Sp: 0xfd, Ps: 0x26 (N:0 V:0 E:1 B:0 D:0 I:1 Z:1 C:0), Ac: 0x00, X: 0x0b, Y: 0x00", prefix: func() {
		c.cpu.Rg.Gp.Ix.X.Write(0xB)
	}, postfix: func() {
		cmpMem(c, t, 0xFF, 0x0B)
	}}
	testCpuTest(c, t, stxZPG)
	var stxABS = cpuTest{code: "0600: 8e 34 02 00", result: "Pc: 0x0603, Sp: 0xfd, Ps: 0x26 (N:0 V:0 E:1 B:0 D:0 I:1 Z:1 C:0), Ac: 0x00, X: 0x0b, Y: 0x00", prefix: func() {
		c.cpu.Rg.Gp.Ix.X.Write(0xB)
	}, postfix: func() {
		cmpMem(c, t, 0x234, 0x0B)
	}}
	testCpuTest(c, t, stxABS)
	var ldyIMM = cpuTest{code: "0600: a0 aa 00", result: "Pc: 0x0602, Sp: 0xfd, Ps: 0xa4 (N:1 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0x00, X: 0x00, Y: 0xaa"}
	testCpuTest(c, t, ldyIMM)
	var ldyZPX = cpuTest{code: "0600: b4 ff 00", result: "Pc: 0x0602, Sp: 0xfd, Ps: 0xa4 (N:1 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0x00, X: 0x0b, Y: 0xfe", prefix: func() {
		c.ram.Write8(0xA, 0xFE)
		c.cpu.Rg.Gp.Ix.X.Write(0xB)
	}}
	testCpuTest(c, t, ldyZPX)
}

func Test_JMP(t *testing.T) {
	c := newTestConsole(t)

	var jmpABS = cpuTest{code: "0600: a9 01 4c 07 06 a9 22 00", result: "Pc: 0x0607, Sp: 0xfd, Ps: 0x24 (N:0 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0x01, X: 0x00, Y: 0x00"}
	testCpuTest(c, t, jmpABS)
	var jmpIND = cpuTest{code: "0600: a9 0e 8d f0 00 a9 06 8d f1 00 6c f0 00 00 a9 22", result: "Pc: 0x0610, Sp: 0xfd, Ps: 0x24 (N:0 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0x22, X: 0x00, Y: 0x00"}
	testCpuTest(c, t, jmpIND)
	var jmpINDBug = cpuTest{code: "0600: a9 0e 8d ff 01 a9 06 8d 00 01 6c ff 01 00 a9 22", result: "Pc: 0x0610, Sp: 0xfd, Ps: 0x24 (N:0 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0x22, X: 0x00, Y: 0x00"}
	testCpuTest(c, t, jmpINDBug)
	var bpl = cpuTest{code: "0600: a9 81 10 03 a9 22 00 a9 33", result: "Pc: 0x0606, Sp: 0xfd, Ps: 0x24 (N:0 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0x22, X: 0x00, Y: 0x00"}
	testCpuTest(c, t, bpl)
	var bplFw = cpuTest{code: "0600: a9 51 10 03 a9 22 00 a9 33", result: "Pc: 0x0609, Sp: 0xfd, Ps: 0x24 (N:0 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0x33, X: 0x00, Y: 0x00"}
	testCpuTest(c, t, bplFw)
	var bplBw = cpuTest{code: "0600: 4c 06 06 a9 33 00 a9 51 10 f9 a9 44 00", result: "Pc: 0x0605, Sp: 0xfd, Ps: 0x24 (N:0 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0x33, X: 0x00, Y: 0x00"}
	testCpuTest(c, t, bplBw)
	var bmi = cpuTest{code: "0600: a9 51 30 03 a9 22 00 a9 33", result: "Pc: 0x0606, Sp: 0xfd, Ps: 0x24 (N:0 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0x22, X: 0x00, Y: 0x00"}
	testCpuTest(c, t, bmi)
	var jsrRts = cpuTest{code: "0600: 20 04 06 00 a9 11 60", result: "Pc: 0x0603, Sp: 0xfd, Ps: 0x24 (N:0 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0x11, X: 0x00, Y: 0x00"}
	testCpuTest(c, t, jsrRts)
}

func Test_LA(t *testing.T) {
	c := newTestConsole(t)

	tests := []cpuTest{
		{name: "sbcIMM", code: "0600: 18 a9 fe e9 7e 00", result: "Pc: 0x0605, Sp: 0xfd, Ps: 0x65 (N:0 V:1 E:1 B:0 D:0 I:1 Z:0 C:1), Ac: 0x7f, X: 0x00, Y: 0x00"},
		{name: "sbcIMM2", code: "0600: 18 a9 fe e9 7d 00", result: "Pc: 0x0605, Sp: 0xfd, Ps: 0xa5 (N:1 V:0 E:1 B:0 D:0 I:1 Z:0 C:1), Ac: 0x80, X: 0x00, Y: 0x00"},
		{name: "sbcIMM3", code: "0600: a9 fe e9 7e 00", result: "Pc: 0x0604, Sp: 0xfd, Ps: 0x65 (N:0 V:1 E:1 B:0 D:0 I:1 Z:0 C:1), Ac: 0x7f, X: 0x00, Y: 0x00"},

		{name: "cmpIMM", code: "0600: a9 03 c9 05 00", result: "Pc: 0x0604, Sp: 0xfd, Ps: 0xa4 (N:1 V:0 E:1 B:0 D:0 I:1 Z:0 C:0), Ac: 0x03, X: 0x00, Y: 0x00"},
		{name: "cmpIMM2", code: "0600: a9 03 c9 03 00", result: "Pc: 0x0604, Sp: 0xfd, Ps: 0x27 (N:0 V:0 E:1 B:0 D:0 I:1 Z:1 C:1), Ac: 0x03, X: 0x00, Y: 0x00"},
		{name: "cmpIMM3", code: "0600: a9 03 c9 01 00", result: "Pc: 0x0604, Sp: 0xfd, Ps: 0x25 (N:0 V:0 E:1 B:0 D:0 I:1 Z:0 C:1), Ac: 0x03, X: 0x00, Y: 0x00"},
		{name: "cmpIMM4", code: "0600: a9 85 c9 01 00", result: "Pc: 0x0604, Sp: 0xfd, Ps: 0xa5 (N:1 V:0 E:1 B:0 D:0 I:1 Z:0 C:1), Ac: 0x85, X: 0x00, Y: 0x00"},
	}

	for _, test := range tests {
		testCpuTest(c, t, test)
	}
}

func Test_RamMirroring(t *testing.T) {
	c := newTestConsole(t)

	c.cpu.Write8(0x1888, 0x7A)
	if got := c.ram.Read8(0x0088); got != 0x7A {
		t.Errorf("ram mirror write: got 0x%02x, want 0x7a", got)
	}
	c.ram.Write8(0x0010, 0x55)
	for _, addr := range []uint16{0x0010, 0x0810, 0x1010, 0x1810} {
		if got := c.cpu.Read8(addr); got != 0x55 {
			t.Errorf("ram mirror read at 0x%04x: got 0x%02x, want 0x55", addr, got)
		}
	}
}

func Test_ControllerShiftRegister(t *testing.T) {
	c := newTestConsole(t)

	// A, Start and Right held
	c.SetController(0, 1<<7|1<<4|1<<0)

	c.cpu.Write8(0x4016, 1)
	c.cpu.Write8(0x4016, 0)

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 1}
	for i, w := range want {
		if got := c.cpu.Read8(0x4016); got != w {
			t.Errorf("pad read %d: got %d, want %d", i, got, w)
		}
	}
	// an official pad reports 1 once shifted out
	if got := c.cpu.Read8(0x4016); got != 1 {
		t.Errorf("pad read past the end: got %d, want 1", got)
	}

	// a held strobe keeps reporting the A button
	c.cpu.Write8(0x4016, 1)
	for i := 0; i < 3; i++ {
		if got := c.cpu.Read8(0x4016); got != 1 {
			t.Errorf("strobed pad read %d: got %d, want 1", i, got)
		}
	}
}

func Test_OamDma(t *testing.T) {
	c := newTestConsole(t)

	for i := 0; i < 256; i++ {
		c.ram.Write8(uint16(0x0300+i), uint8(i^0xA5))
	}
	c.cpu.Write8(0x2003, 0) // OAMADDR

	c.cpu.Write8(0x4014, 0x03)
	if !c.dma.Active() {
		t.Fatalf("dma not active after the 0x4014 write")
	}

	ticks := 0
	for c.dma.Active() {
		c.dma.Ticks(1)
		ticks++
	}
	if ticks != 513 && ticks != 514 {
		t.Errorf("dma transfer took %d cycles, want 513 or 514", ticks)
	}

	// read the copy back through OAMDATA
	for i := 0; i < 256; i++ {
		c.cpu.Write8(0x2003, uint8(i))
		if got := c.cpu.Read8(0x2004); got != uint8(i)^0xA5 {
			t.Fatalf("oam[%d]: got 0x%02x, want 0x%02x", i, got, uint8(i)^0xA5)
		}
	}
}

func Test_ClockProducesFrames(t *testing.T) {
	c := newTestConsole(t)

	frame := c.Clock()
	if frame == nil {
		t.Fatalf("Clock returned a nil frame")
	}

	// with rendering left off every pixel is the backdrop colour
	backdrop := c.ppu.Palette.Read8(0)
	for y := 0; y < common.FrameYHeight; y += 17 {
		for x := 0; x < common.FrameXWidth; x += 13 {
			if frame.At(x, y) != backdrop {
				t.Fatalf("pixel (%d,%d): got 0x%02x, want the backdrop 0x%02x",
					x, y, frame.At(x, y), backdrop)
			}
		}
	}
}

func Test_SaveLoadState(t *testing.T) {
	c := newTestConsole(t)
	c.LoadHexDump("0600: a2 00 e8 4c 02 06")

	for i := 0; i < 50; i++ {
		c.cpu.Step()
	}
	before := c.cpu.Rg.String()

	var state bytes.Buffer
	if err := c.SaveState(&state); err != nil {
		t.Fatalf("failed to save the state: %v", err)
	}

	for i := 0; i < 50; i++ {
		c.cpu.Step()
	}
	if c.cpu.Rg.String() == before {
		t.Fatalf("the cpu did not advance past the snapshot")
	}

	if err := c.LoadState(&state); err != nil {
		t.Fatalf("failed to load the state: %v", err)
	}
	if got := c.cpu.Rg.String(); got != before {
		t.Errorf("state mismatch after restore!\nGot:\t\t%s\nExpected:\t%s", got, before)
	}
}

func Test_BadRomErrors(t *testing.T) {
	if _, err := New([]byte{1, 2, 3}, nil); err == nil {
		t.Errorf("a three byte rom image must be rejected")
	}
	junk := make([]byte, 64)
	copy(junk, "JUNKJUNK")
	if _, err := New(junk, nil); err == nil {
		t.Errorf("a rom without the ines magic must be rejected")
	}
}

// a minimal nrom image: palette setup, rendering on, then a spin loop
func makeTestRom() []byte {
	rom := make([]byte, 16+0x4000+0x2000)
	copy(rom, "NES\x1A")
	rom[4] = 1
	rom[5] = 1

	prg := rom[16 : 16+0x4000]
	program := []byte{
		0xA9, 0x3F, 0x8D, 0x06, 0x20, // point ppuaddr at the palette
		0xA9, 0x00, 0x8D, 0x06, 0x20,
		0xA9, 0x0F, 0x8D, 0x07, 0x20, // backdrop and three colours
		0xA9, 0x16, 0x8D, 0x07, 0x20,
		0xA9, 0x2A, 0x8D, 0x07, 0x20,
		0xA9, 0x12, 0x8D, 0x07, 0x20,
		0xA9, 0x1E, 0x8D, 0x01, 0x20, // rendering on
		0x4C, 0x23, 0x80, // spin
	}
	copy(prg, program)
	prg[0x3FFC] = 0x00
	prg[0x3FFD] = 0x80

	chr := rom[16+0x4000:]
	for i := range chr {
		chr[i] = uint8(i * 7)
	}
	return rom
}

// the same rom, save data and input trace must reproduce the exact
// same frame bytes on every run
func Test_DeterministicFrames(t *testing.T) {
	inputs := []uint8{0, 1 << 7, 1<<7 | 1<<4, 0, 1 << 6}

	runTrace := func() [][]uint8 {
		c, err := New(makeTestRom(), nil)
		if err != nil {
			t.Fatalf("failed to build the console: %v", err)
		}
		frames := make([][]uint8, 0, len(inputs))
		for _, buttons := range inputs {
			c.SetController(0, buttons)
			frame := c.Clock()
			pix := make([]uint8, len(frame.Pix))
			copy(pix, frame.Pix[:])
			frames = append(frames, pix)
		}
		return frames
	}

	first := runTrace()
	second := runTrace()
	for i := range first {
		if !bytes.Equal(first[i], second[i]) {
			t.Fatalf("frame %d diverged between identical runs", i)
		}
	}

	// the picture must carry actual pattern data, not just zeroes
	empty := true
	for _, v := range first[len(first)-1] {
		if v != 0 {
			empty = false
			break
		}
	}
	if empty {
		t.Errorf("rendered frames carry no pixels")
	}
}
