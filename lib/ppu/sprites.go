package ppu

// https://wiki.nesdev.com/w/index.php/PPU_sprite_evaluation
//
// Evaluation runs on the visible scanlines, one step per dot: cycles
// 1-64 clear secondary OAM, 65-256 scan primary OAM for sprites on
// the next line (odd dots read, even dots act on the read), 257-320
// load the eight sprite units for that line.
const (
	evalCheckY = iota
	evalCopy
	evalOverflow
	evalDone
)

const (
	spriteWont = iota
	spriteWait
	spriteActive
	spriteDone
)

type spriteUnit struct {
	Y    uint8
	Tile uint8
	Attr uint8
	X    uint8

	Lsb   uint8
	Msb   uint8
	Count uint8

	State   uint8
	Sprite0 bool
}

func (p *Ppu) clearSprites() {
	for i := range p.units {
		p.units[i] = spriteUnit{State: spriteWont}
	}
	p.sprite0Line = false
}

func (p *Ppu) spriteInRange(y uint8) bool {
	row := p.scanLine - int(y)
	return row >= 0 && row < int(p.getSpriteHeight())
}

func (p *Ppu) evalSprites() {
	switch {
	case p.cycle >= 1 && p.cycle <= 64:
		if p.cycle&1 == 1 {
			p.oamLatch = 0xFF
		} else {
			p.sOAM[(p.cycle-2)/2] = p.oamLatch
		}
		if p.cycle == 64 {
			p.evalState = evalCheckY
			p.evalN = 0
			p.evalM = 0
			p.secCount = 0
			p.sprite0Next = false
		}
	case p.cycle >= 65 && p.cycle <= 256:
		if p.cycle&1 == 1 {
			// once all 64 entries are scanned n sits one past the
			// end of primary OAM, so the read must stop with it
			if p.evalState != evalDone {
				p.oamLatch = p.rOAM.Read8(uint16(p.evalN)*4 + uint16(p.evalM))
			}
		} else {
			p.evalStep()
		}
	}
}

func (p *Ppu) evalStep() {
	switch p.evalState {
	case evalCheckY:
		if p.spriteInRange(p.oamLatch) {
			p.sOAM[p.secCount*4] = p.oamLatch
			if p.evalN == 0 {
				p.sprite0Next = true
			}
			p.evalM = 1
			p.evalState = evalCopy
		} else {
			p.nextSprite()
		}

	case evalCopy:
		p.sOAM[p.secCount*4+p.evalM] = p.oamLatch
		if p.evalM < 3 {
			p.evalM++
			return
		}
		p.secCount++
		p.evalM = 0
		p.evalN++
		switch {
		case p.evalN == 64:
			p.evalState = evalDone
		case p.secCount == 8:
			p.evalState = evalOverflow
		default:
			p.evalState = evalCheckY
		}

	case evalOverflow:
		if p.spriteInRange(p.oamLatch) {
			p.setStatus(statusSpriteOverflow)
			p.evalState = evalDone
			return
		}
		// hardware bug: m increments alongside n on a miss, so the
		// y compare drifts through the sprite bytes
		p.evalM = (p.evalM + 1) & 0x3
		p.nextSprite()

	case evalDone:
	}
}

func (p *Ppu) nextSprite() {
	p.evalN++
	if p.evalN == 64 {
		p.evalState = evalDone
	}
}

func (p *Ppu) loadSprites() {
	slot := (p.cycle - 257) / 8
	u := &p.units[slot]

	switch (p.cycle - 257) % 8 {
	case 0:
		u.Y = p.sOAM[slot*4]
	case 1:
		u.Tile = p.sOAM[slot*4+1]
	case 2:
		u.Attr = p.sOAM[slot*4+2]
	case 3:
		u.X = p.sOAM[slot*4+3]
	case 5:
		u.Lsb = p.busInt.Read8(p.spriteTileAddr(u))
	case 7:
		u.Msb = p.busInt.Read8(p.spriteTileAddr(u) + 8)
		p.finishSprite(slot, u)
	}
}

func (p *Ppu) spriteTileAddr(u *spriteUnit) uint16 {
	row := p.scanLine - int(u.Y)
	if row < 0 || row >= int(p.getSpriteHeight()) {
		// empty slot, fetch row 0 to keep the bus pattern
		row = 0
	}
	tile := u.Tile
	if !p.bigSprites() {
		if u.Attr&0x80 != 0 {
			row = 7 - row
		}
		return p.getSpritePattern() + uint16(tile)*16 + uint16(row)
	}
	if u.Attr&0x80 != 0 {
		row = 15 - row
	}
	table := uint16(tile&0x1) * 0x1000
	tile &= 0xFE
	if row > 7 {
		tile++
		row -= 8
	}
	return table + uint16(tile)*16 + uint16(row)
}

func (p *Ppu) finishSprite(slot int, u *spriteUnit) {
	if u.Attr&0x40 != 0 {
		u.Lsb = reverseByte(u.Lsb)
		u.Msb = reverseByte(u.Msb)
	}
	u.Sprite0 = slot == 0 && p.sprite0Line

	if slot >= int(p.secCount) || !p.spriteInRange(u.Y) {
		u.State = spriteWont
	} else if u.X == 0 {
		u.State = spriteActive
		u.Count = 8
	} else {
		u.State = spriteWait
	}
}

// sprite pipeline step after the pixel mux: waiting units count
// down their x position, active ones shift out a pixel
func (p *Ppu) tickSprites() {
	for i := range p.units {
		u := &p.units[i]
		switch u.State {
		case spriteWait:
			u.X--
			if u.X == 0 {
				u.State = spriteActive
				u.Count = 8
			}
		case spriteActive:
			u.Lsb <<= 1
			u.Msb <<= 1
			u.Count--
			if u.Count == 0 {
				u.State = spriteDone
			}
		}
	}
}

// first active unit with an opaque pixel wins
func (p *Ppu) spritePixel(x int) (pixel uint8, palette uint8, behind bool, zero bool) {
	if !p.showSprites() || (x < 8 && !p.showSpritesLeft()) {
		return 0, 0, false, false
	}
	for i := range p.units {
		u := &p.units[i]
		if u.State != spriteActive {
			continue
		}
		pix := (u.Msb>>7)<<1 | u.Lsb>>7
		if pix == 0 {
			continue
		}
		return pix, u.Attr & 0x3, u.Attr&0x20 != 0, u.Sprite0
	}
	return 0, 0, false, false
}

func reverseByte(b uint8) uint8 {
	b = b>>4 | b<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}
