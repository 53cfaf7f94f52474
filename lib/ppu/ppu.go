package ppu

import (
	"famicore/lib/common"
	"famicore/lib/cpu"
)

// Ppu steps one dot per tick through 262 scanlines of 341 cycles.
// Scanline -1 is the pre render line, 0-239 are visible, 240 is idle
// and 241-260 are the vblank lines.
type Ppu struct {
	busInt common.BusInt

	cpu *cpu.Cpu

	Palette paletteRam
	rOAM    common.Ram
	sOAM    [32]uint8

	regs    [8]common.Register
	vRAM    loopyRegister
	tRAM    loopyRegister
	xFine   common.Register
	wToggle common.Register

	lastRegWrite uint8
	vRAMBuffer   uint8

	nmiOutput bool
	nmiDelay  uint8
	hitDelay  uint8

	cycle    int
	scanLine int
	frames   uint64
	oddFrame bool
	clock    uint64

	// background fetch latches and shifters
	nameTableLatch uint8
	attributeLatch uint8
	lowTileLatch   uint8
	highTileLatch  uint8
	patternShiftLo uint16
	patternShiftHi uint16
	attrShiftLo    uint16
	attrShiftHi    uint16

	// sprite pipeline
	units       [8]spriteUnit
	evalState   uint8
	evalN       uint8
	evalM       uint8
	oamLatch    uint8
	secCount    uint8
	copyIdx     uint8
	sprite0Next bool
	sprite0Line bool

	frame     common.Frame
	out       common.Frame
	frameDone bool

	verbose bool
}

func (p *Ppu) Init(busInt common.BusInt, verbose bool, cpu *cpu.Cpu) {
	p.verbose = verbose
	p.busInt = busInt
	p.cpu = cpu

	p.rOAM.InitNfill(256, 0xFE)
	p.initRegisters()
	p.Reset()
}

func (p *Ppu) Reset() {
	p.cycle = 0
	p.scanLine = -1
	p.frames = 0
	p.oddFrame = false
	p.nmiOutput = false
	p.nmiDelay = 0
	p.hitDelay = 0
	p.vRAMBuffer = 0
	p.lastRegWrite = 0

	p.vRAM.Init("v", 0)
	p.tRAM.Init("t", 0)
	p.xFine.Init("x", 0)
	p.wToggle.Init("w", 0)
	for i := range p.regs {
		p.regs[i].Val = 0
	}
	p.clearSprites()
}

func (p *Ppu) Ticks(nTicks int) {
	for i := 0; i < nTicks; i++ {
		p.tick()
	}
}

func (p *Ppu) tick() {
	p.clock++
	p.exec()
}

// TakeFrame returns the finished frame once after each
// (239, 256) dot, nil otherwise.
func (p *Ppu) TakeFrame() *common.Frame {
	if !p.frameDone {
		return nil
	}
	p.frameDone = false
	return &p.out
}

func (p *Ppu) Frames() uint64 {
	return p.frames
}

func (p *Ppu) exec() {
	visibleLine := p.scanLine >= 0 && p.scanLine < 240
	preLine := p.scanLine == -1
	rendering := p.renderingEnabled()

	if rendering && (visibleLine || preLine) {
		p.execBackground()

		if p.cycle == 256 {
			p.vRAM.incrementFineY()
		}
		if p.cycle == 257 {
			p.vRAM.copyHori(&p.tRAM)
			p.sprite0Line = p.sprite0Next
		}
		if preLine && p.cycle >= 280 && p.cycle <= 304 {
			p.vRAM.copyVert(&p.tRAM)
		}
	}

	if visibleLine && rendering {
		p.evalSprites()
		if p.cycle >= 257 && p.cycle <= 320 {
			p.loadSprites()
		}
	}

	if visibleLine && p.cycle >= 1 && p.cycle <= 256 {
		p.renderPixel()
		if rendering {
			p.tickSprites()
		}
	}

	if p.scanLine == 239 && p.cycle == 256 {
		p.finishFrame()
	}

	p.checkInterrupts(preLine)
	p.advance(preLine, rendering)
}

// eight cycle fetch pipeline, two tiles ahead of the pixel output
func (p *Ppu) execBackground() {
	fetch := (p.cycle >= 2 && p.cycle <= 257) || (p.cycle >= 321 && p.cycle <= 337)
	if !fetch {
		return
	}

	p.shiftBackground()
	switch (p.cycle - 1) % 8 {
	case 0:
		p.reloadShifters()
		p.nameTableLatch = p.busInt.Read8(0x2000 | p.vRAM.Val&0x0FFF)
	case 2:
		p.attributeLatch = p.fetchAttribute()
	case 4:
		p.lowTileLatch = p.busInt.Read8(p.tileAddr())
	case 6:
		p.highTileLatch = p.busInt.Read8(p.tileAddr() + 8)
	case 7:
		p.vRAM.incrementCoarseX()
	}
}

// attribute byte for the tile under v, reduced to its 2bit palette
func (p *Ppu) fetchAttribute() uint8 {
	v := p.vRAM.Val
	addr := 0x23C0 | (v & 0x0C00) | ((v >> 4) & 0x38) | ((v >> 2) & 0x07)
	shift := ((v >> 4) & 4) | (v & 2)
	return (p.busInt.Read8(addr) >> shift) & 0x3
}

func (p *Ppu) tileAddr() uint16 {
	return p.getBackgroundPattern() + uint16(p.nameTableLatch)*16 + p.vRAM.getFineY()
}

func (p *Ppu) shiftBackground() {
	p.patternShiftLo <<= 1
	p.patternShiftHi <<= 1
	p.attrShiftLo <<= 1
	p.attrShiftHi <<= 1
}

func (p *Ppu) reloadShifters() {
	p.patternShiftLo = (p.patternShiftLo & 0xFF00) | uint16(p.lowTileLatch)
	p.patternShiftHi = (p.patternShiftHi & 0xFF00) | uint16(p.highTileLatch)
	p.attrShiftLo &= 0xFF00
	if p.attributeLatch&0x1 != 0 {
		p.attrShiftLo |= 0x00FF
	}
	p.attrShiftHi &= 0xFF00
	if p.attributeLatch&0x2 != 0 {
		p.attrShiftHi |= 0x00FF
	}
}

func (p *Ppu) backgroundPixel(x int) (uint8, uint8) {
	if !p.showBackground() || (x < 8 && !p.showBackgroundLeft()) {
		return 0, 0
	}
	bit := uint16(0x8000) >> p.xFine.Val
	pixel := uint8(0)
	if p.patternShiftLo&bit != 0 {
		pixel |= 0x1
	}
	if p.patternShiftHi&bit != 0 {
		pixel |= 0x2
	}
	palette := uint8(0)
	if p.attrShiftLo&bit != 0 {
		palette |= 0x1
	}
	if p.attrShiftHi&bit != 0 {
		palette |= 0x2
	}
	return pixel, palette
}

// mux background against the first opaque sprite and write the
// resulting palette colour into the working frame
func (p *Ppu) renderPixel() {
	x := p.cycle - 1
	y := p.scanLine

	if !p.renderingEnabled() {
		p.frame.Set(x, y, p.Palette.Read8(0))
		return
	}

	bgPixel, bgPalette := p.backgroundPixel(x)
	spPixel, spPalette, behind, zero := p.spritePixel(x)

	var addr uint16
	switch {
	case bgPixel == 0 && spPixel == 0:
		addr = 0
	case bgPixel == 0:
		addr = 0x10 + uint16(spPalette)*4 + uint16(spPixel)
	case spPixel == 0:
		addr = uint16(bgPalette)*4 + uint16(bgPixel)
	default:
		if zero && x < 255 {
			p.hitSprite0()
		}
		if behind {
			addr = uint16(bgPalette)*4 + uint16(bgPixel)
		} else {
			addr = 0x10 + uint16(spPalette)*4 + uint16(spPixel)
		}
	}
	p.frame.Set(x, y, p.Palette.Read8(addr))
}

// the hit flag lands two dots after the overlapping pixel
func (p *Ppu) hitSprite0() {
	if p.hitDelay == 0 && !p.getStatus(statusSprite0Hit) {
		p.hitDelay = 3
	}
}

func (p *Ppu) finishFrame() {
	p.out = p.frame
	p.out.Mask = p.regs[PPUMASK].Val
	p.frameDone = true
}

func (p *Ppu) checkInterrupts(preLine bool) {
	if p.cycle == 1 {
		if p.scanLine == 241 {
			p.setStatus(statusVBlank)
			if p.nmiOutput {
				p.nmiDelay = 3
			}
		}
		if preLine {
			p.clearStatus(statusVBlank | statusSprite0Hit | statusSpriteOverflow)
			p.hitDelay = 0
			p.clearSprites()
		}
	}

	if p.nmiDelay > 0 {
		p.nmiDelay--
		if p.nmiDelay == 0 {
			p.cpu.RaiseNmi()
		}
	}
	if p.hitDelay > 0 {
		p.hitDelay--
		if p.hitDelay == 0 {
			p.setStatus(statusSprite0Hit)
		}
	}
}

func (p *Ppu) advance(preLine bool, rendering bool) {
	// odd frames drop the last pre render dot
	if preLine && rendering && p.oddFrame && p.cycle == 339 {
		p.cycle = 340
	}

	p.cycle++
	if p.cycle > 340 {
		p.cycle = 0
		p.scanLine++
		if p.scanLine > 260 {
			p.scanLine = -1
			p.frames++
			p.oddFrame = !p.oddFrame
		}
	}
}

func (p *Ppu) Serialise(s common.Serialiser) error {
	return s.Serialise(
		&p.Palette, &p.rOAM, p.sOAM, p.regs,
		p.vRAM.Val, p.tRAM.Val, p.xFine.Val, p.wToggle.Val,
		p.lastRegWrite, p.vRAMBuffer, p.nmiOutput, p.nmiDelay, p.hitDelay,
		p.cycle, p.scanLine, p.frames, p.oddFrame, p.clock,
		p.nameTableLatch, p.attributeLatch, p.lowTileLatch, p.highTileLatch,
		p.patternShiftLo, p.patternShiftHi, p.attrShiftLo, p.attrShiftHi,
		p.units, p.evalState, p.evalN, p.evalM, p.oamLatch,
		p.secCount, p.copyIdx, p.sprite0Next, p.sprite0Line,
		p.frame,
	)
}

func (p *Ppu) DeSerialise(s common.Serialiser) error {
	return s.DeSerialise(
		&p.Palette, &p.rOAM, &p.sOAM, &p.regs,
		&p.vRAM.Val, &p.tRAM.Val, &p.xFine.Val, &p.wToggle.Val,
		&p.lastRegWrite, &p.vRAMBuffer, &p.nmiOutput, &p.nmiDelay, &p.hitDelay,
		&p.cycle, &p.scanLine, &p.frames, &p.oddFrame, &p.clock,
		&p.nameTableLatch, &p.attributeLatch, &p.lowTileLatch, &p.highTileLatch,
		&p.patternShiftLo, &p.patternShiftHi, &p.attrShiftLo, &p.attrShiftHi,
		&p.units, &p.evalState, &p.evalN, &p.evalM, &p.oamLatch,
		&p.secCount, &p.copyIdx, &p.sprite0Next, &p.sprite0Line,
		&p.frame,
	)
}
