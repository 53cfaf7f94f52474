package ppu

import (
	"famicore/lib/common"
)

// cpu mapped registers, mirrored every 8 bytes from 0x2000 through 0x3FFF
const (
	PPUCTRL = iota
	PPUMASK
	PPUSTATUS
	OAMADDR
	OAMDATA
	PPUSCROLL
	PPUADDR
	PPUDATA
)

const (
	statusSpriteOverflow = 1 << 5
	statusSprite0Hit     = 1 << 6
	statusVBlank         = 1 << 7
)

// internal vram address register
// https://wiki.nesdev.com/w/index.php/PPU_scrolling
//
// yyy NN YYYYY XXXXX
// ||| || ||||| +++++-- coarse X scroll
// ||| || +++++-------- coarse Y scroll
// ||| ++-------------- nametable select
// +++----------------- fine Y scroll
type loopyRegister struct {
	common.Register16
}

func (l *loopyRegister) getCoarseX() uint16 {
	return l.Val & 0x1F
}
func (l *loopyRegister) setCoarseX(x uint16) {
	l.Val = (l.Val &^ 0x1F) | (x & 0x1F)
}
func (l *loopyRegister) getCoarseY() uint16 {
	return (l.Val >> 5) & 0x1F
}
func (l *loopyRegister) setCoarseY(y uint16) {
	l.Val = (l.Val &^ 0x3E0) | ((y & 0x1F) << 5)
}
func (l *loopyRegister) getFineY() uint16 {
	return (l.Val >> 12) & 0x7
}
func (l *loopyRegister) setFineY(y uint16) {
	l.Val = (l.Val &^ 0x7000) | ((y & 0x7) << 12)
}
func (l *loopyRegister) setNameTables(n uint16) {
	l.Val = (l.Val &^ 0xC00) | ((n & 0x3) << 10)
}
func (l *loopyRegister) flipNameTableH() {
	l.Val ^= 0x400
}
func (l *loopyRegister) flipNameTableV() {
	l.Val ^= 0x800
}

// coarse X increment with horizontal nametable wrap
func (l *loopyRegister) incrementCoarseX() {
	if l.getCoarseX() == 31 {
		l.setCoarseX(0)
		l.flipNameTableH()
	} else {
		l.setCoarseX(l.getCoarseX() + 1)
	}
}

// fine Y increment, overflowing into coarse Y with vertical wrap
func (l *loopyRegister) incrementFineY() {
	if l.getFineY() < 7 {
		l.setFineY(l.getFineY() + 1)
		return
	}
	l.setFineY(0)
	switch y := l.getCoarseY(); y {
	case 29:
		l.setCoarseY(0)
		l.flipNameTableV()
	case 31:
		// out of bounds reads, attribute data used as tiles
		l.setCoarseY(0)
	default:
		l.setCoarseY(y + 1)
	}
}

// horizontal bits: coarse X and the horizontal nametable bit
func (l *loopyRegister) copyHori(o *loopyRegister) {
	l.Val = (l.Val &^ 0x41F) | (o.Val & 0x41F)
}

// vertical bits: coarse Y, fine Y and the vertical nametable bit
func (l *loopyRegister) copyVert(o *loopyRegister) {
	l.Val = (l.Val &^ 0x7BE0) | (o.Val & 0x7BE0)
}

func (p *Ppu) initRegisters() {
	p.regs[PPUCTRL].Initx("PPUCTRL", 0, p.writeControl, nil)
	p.regs[PPUMASK].Init("PPUMASK", 0)
	p.regs[PPUSTATUS].Initx("PPUSTATUS", 0, nil, p.readPPUStatus)
	p.regs[OAMADDR].Init("OAMADDR", 0)
	p.regs[OAMDATA].Initx("OAMDATA", 0, p.writeOAMData, p.readOAMData)
	p.regs[PPUSCROLL].Initx("PPUSCROLL", 0, p.writePPUScroll, nil)
	p.regs[PPUADDR].Initx("PPUADDR", 0, p.writePPUAddr, nil)
	p.regs[PPUDATA].Initx("PPUDATA", 0, p.writePPUData, p.readPPUData)
}

// PPUCTRL
// 7  bit  0
// ---- ----
// VPHB SINN
// |||| ||||
// |||| ||++- Base nametable address
// |||| |+--- VRAM address increment per CPU read/write of PPUDATA
// |||| +---- Sprite pattern table address for 8x8 sprites
// |||+------ Background pattern table address
// ||+------- Sprite size (0: 8x8; 1: 8x16)
// |+-------- PPU master/slave select
// +--------- Generate an NMI at the start of vblank
func (p *Ppu) writeControl() {
	ctrl := p.regs[PPUCTRL].Val
	wasEnabled := p.nmiOutput
	p.nmiOutput = ctrl&0x80 != 0
	p.tRAM.setNameTables(uint16(ctrl) & 0x3)

	// enabling nmi mid vblank retriggers it
	if !wasEnabled && p.nmiOutput && p.getStatus(statusVBlank) {
		p.cpu.RaiseNmi()
	}
}

func (p *Ppu) getVRAMAddrInc() uint16 {
	if p.regs[PPUCTRL].Val&0x04 != 0 {
		return 32
	}
	return 1
}
func (p *Ppu) getSpritePattern() uint16 {
	if p.regs[PPUCTRL].Val&0x08 != 0 {
		return 0x1000
	}
	return 0
}
func (p *Ppu) getBackgroundPattern() uint16 {
	if p.regs[PPUCTRL].Val&0x10 != 0 {
		return 0x1000
	}
	return 0
}
func (p *Ppu) getSpriteHeight() uint8 {
	if p.regs[PPUCTRL].Val&0x20 != 0 {
		return 16
	}
	return 8
}
func (p *Ppu) bigSprites() bool {
	return p.getSpriteHeight() == 16
}

// PPUMASK
// 7  bit  0
// ---- ----
// BGRs bMmG
// |||| ||||
// |||| |||+- Greyscale
// |||| ||+-- Show background in leftmost 8 pixels
// |||| |+--- Show sprites in leftmost 8 pixels
// |||| +---- Show background
// |||+------ Show sprites
// +++------- Colour emphasis
func (p *Ppu) greyscale() bool {
	return p.regs[PPUMASK].Val&0x01 != 0
}
func (p *Ppu) showBackgroundLeft() bool {
	return p.regs[PPUMASK].Val&0x02 != 0
}
func (p *Ppu) showSpritesLeft() bool {
	return p.regs[PPUMASK].Val&0x04 != 0
}
func (p *Ppu) showBackground() bool {
	return p.regs[PPUMASK].Val&0x08 != 0
}
func (p *Ppu) showSprites() bool {
	return p.regs[PPUMASK].Val&0x10 != 0
}
func (p *Ppu) renderingEnabled() bool {
	return p.showBackground() || p.showSprites()
}

func (p *Ppu) getStatus(flag uint8) bool {
	return p.regs[PPUSTATUS].Val&flag != 0
}
func (p *Ppu) setStatus(flag uint8) {
	p.regs[PPUSTATUS].Val |= flag
}
func (p *Ppu) clearStatus(flag uint8) {
	p.regs[PPUSTATUS].Val &^= flag
}

// PPUSTATUS
// reading clears the vblank flag and resets the write toggle
func (p *Ppu) readPPUStatus() uint8 {
	status := p.regs[PPUSTATUS].Val
	p.clearStatus(statusVBlank)
	p.wToggle.Val = 0

	// a read this close to vblank start races the nmi
	if p.nmiDelay > 0 {
		p.nmiDelay = 0
	}
	return status
}

func (p *Ppu) readOAMData() uint8 {
	return p.rOAM.Read8(uint16(p.regs[OAMADDR].Val))
}

func (p *Ppu) writeOAMData() {
	addr := p.regs[OAMADDR].Val
	p.rOAM.Write8(uint16(addr), p.regs[OAMDATA].Val)
	p.regs[OAMADDR].Val = addr + 1
}

// PPUSCROLL, two writes: fine/coarse X then fine/coarse Y
func (p *Ppu) writePPUScroll() {
	val := uint16(p.regs[PPUSCROLL].Val)
	if p.wToggle.Val == 0 {
		p.tRAM.setCoarseX(val >> 3)
		p.xFine.Val = uint8(val) & 0x7
		p.wToggle.Val = 1
	} else {
		p.tRAM.setCoarseY(val >> 3)
		p.tRAM.setFineY(val)
		p.wToggle.Val = 0
	}
}

// PPUADDR, two writes: high byte then low byte
func (p *Ppu) writePPUAddr() {
	val := uint16(p.regs[PPUADDR].Val)
	if p.wToggle.Val == 0 {
		p.tRAM.Val = (p.tRAM.Val & 0x00FF) | ((val & 0x3F) << 8)
		p.wToggle.Val = 1
	} else {
		p.tRAM.Val = (p.tRAM.Val & 0xFF00) | val
		p.vRAM.Val = p.tRAM.Val
		p.wToggle.Val = 0
	}
}

func (p *Ppu) writePPUData() {
	p.busInt.Write8(p.vRAM.Val&0x3FFF, p.regs[PPUDATA].Val)
	p.vRAM.Val += p.getVRAMAddrInc()
}

// reads below the palettes go through a one read delay buffer,
// palette reads are direct but refresh the buffer with the
// nametable byte underneath
func (p *Ppu) readPPUData() uint8 {
	addr := p.vRAM.Val & 0x3FFF
	val := p.busInt.Read8(addr)
	if addr < 0x3F00 {
		val, p.vRAMBuffer = p.vRAMBuffer, val
	} else {
		p.vRAMBuffer = p.busInt.Read8(addr - 0x1000)
		if p.greyscale() {
			val &= 0x30
		}
	}
	p.vRAM.Val += p.getVRAMAddrInc()
	return val
}

// the low 5 bits of any register write linger on the ppu data bus
// and read back through PPUSTATUS
func (p *Ppu) setLastRegWrite(val uint8) {
	p.lastRegWrite = val
	p.regs[PPUSTATUS].Val = (p.regs[PPUSTATUS].Val & 0xE0) | (val & 0x1F)
}

func (p *Ppu) Read8(addr uint16) uint8 {
	switch reg := addr % 8; reg {
	case PPUSTATUS, OAMDATA, PPUDATA:
		return p.regs[reg].Read()
	default:
		// write only registers read back the bus latch
		return p.lastRegWrite
	}
}

func (p *Ppu) Write8(addr uint16, val uint8) {
	reg := addr % 8
	p.setLastRegWrite(val)
	if reg == PPUSTATUS {
		return
	}
	p.regs[reg].Write(val)
}
