package cpu

// Move Commands:
func (c *Cpu) sta() {
	c.Write8(c.getOperandAddr(c.curr.ins), c.Rg.Gp.Ac.Read())
}
func (c *Cpu) stx() {
	c.Write8(c.getOperandAddr(c.curr.ins), c.Rg.Gp.Ix.X.Read())
}
func (c *Cpu) sty() {
	c.Write8(c.getOperandAddr(c.curr.ins), c.Rg.Gp.Ix.Y.Read())
}

func (c *Cpu) lda() {
	c.Rg.Gp.Ac.Write(c.Read8(c.getOperandAddr(c.curr.ins)))
	c.Rg.Spc.Ps.Set(BZ|BN, int8(c.Rg.Gp.Ac.Read()))
}
func (c *Cpu) ldx() {
	c.Rg.Gp.Ix.X.Write(c.Read8(c.getOperandAddr(c.curr.ins)))
	c.Rg.Spc.Ps.Set(BZ|BN, int8(c.Rg.Gp.Ix.X.Read()))
}
func (c *Cpu) ldy() {
	c.Rg.Gp.Ix.Y.Write(c.Read8(c.getOperandAddr(c.curr.ins)))
	c.Rg.Spc.Ps.Set(BZ|BN, int8(c.Rg.Gp.Ix.Y.Read()))
}

func (c *Cpu) tax() {
	c.Rg.Gp.Ix.X.Write(c.Rg.Gp.Ac.Read())
	c.Rg.Spc.Ps.Set(BZ|BN, int8(c.Rg.Gp.Ix.X.Read()))
}
func (c *Cpu) tay() {
	c.Rg.Gp.Ix.Y.Write(c.Rg.Gp.Ac.Read())
	c.Rg.Spc.Ps.Set(BZ|BN, int8(c.Rg.Gp.Ix.Y.Read()))
}
func (c *Cpu) txa() {
	c.Rg.Gp.Ac.Write(c.Rg.Gp.Ix.X.Read())
	c.Rg.Spc.Ps.Set(BZ|BN, int8(c.Rg.Gp.Ac.Read()))
}
func (c *Cpu) tya() {
	c.Rg.Gp.Ac.Write(c.Rg.Gp.Ix.Y.Read())
	c.Rg.Spc.Ps.Set(BZ|BN, int8(c.Rg.Gp.Ac.Read()))
}

// stack transfers, only tsx touches the flags
func (c *Cpu) txs() {
	c.Rg.Spc.Sp.Write(c.Rg.Gp.Ix.X.Read())
}
func (c *Cpu) tsx() {
	c.Rg.Gp.Ix.X.Write(c.Rg.Spc.Sp.Read())
	c.Rg.Spc.Ps.Set(BZ|BN, int8(c.Rg.Gp.Ix.X.Read()))
}

func (c *Cpu) push8(val uint8) {
	sp := c.Rg.Spc.Sp.Read()
	c.Write8(uint16(sp)|0x100, val)
	c.Rg.Spc.Sp.Write(sp - 1)
}
func (c *Cpu) push16(val uint16) {
	c.push8(uint8((val & 0xFF00) >> 8))
	c.push8(uint8(val & 0xFF))
}
func (c *Cpu) pull8() uint8 {
	sp := c.Rg.Spc.Sp.Read() + 1
	c.Rg.Spc.Sp.Write(sp)
	return c.Read8(uint16(sp) | 0x100)
}
func (c *Cpu) pull16() uint16 {
	return uint16(c.pull8()) | uint16(c.pull8())<<8
}

func (c *Cpu) pha() {
	c.push8(c.Rg.Gp.Ac.Read())
}
func (c *Cpu) php() {
	// the pushed copy always carries B set
	c.push8(c.Rg.Spc.Ps.Read() | BB)
}

func (c *Cpu) pla() {
	c.Rg.Gp.Ac.Write(c.pull8())
	c.Rg.Spc.Ps.Set(BZ|BN, int8(c.Rg.Gp.Ac.Read()))
}
func (c *Cpu) plp() {
	// B is not a real flag, it never lands back in the register
	c.Rg.Spc.Ps.Write(c.pull8() &^ BB)
}

// Jump/Flag Commands:
func (c *Cpu) bit() {
	mask := c.Rg.Gp.Ac.Read()
	value := c.Read8(c.getOperandAddr(c.curr.ins))
	c.Rg.Spc.Ps.Set(BZ, int8(value&mask))
	c.Rg.Spc.Ps.Set(BN|BV, int8(value))
}

func (c *Cpu) clc() {
	c.Rg.Spc.Ps.Set(BC, 0)
}
func (c *Cpu) sec() {
	c.Rg.Spc.Ps.Set(BC, BC)
}
func (c *Cpu) sed() {
	c.Rg.Spc.Ps.Set(BD, BD)
}
func (c *Cpu) cld() {
	c.Rg.Spc.Ps.Set(BD, 0)
}
func (c *Cpu) clv() {
	c.Rg.Spc.Ps.Set(BV, 0)
}
func (c *Cpu) sei() {
	c.Rg.Spc.Ps.Set(BI, BI)
}
func (c *Cpu) cli() {
	c.Rg.Spc.Ps.Set(BI, 0)
}

// a taken branch costs one extra cycle, one more across a page
func (c *Cpu) addBranchCycles(target uint16) {
	c.cycles++
	pc := c.Rg.Spc.Pc.Val + uint16(c.curr.ins.opLength)
	if pageCrossed(pc, target) {
		c.cycles++
	}
}

func (c *Cpu) jmp() {
	// exec adds the instruction length afterwards
	addr := c.getOperandAddr(c.curr.ins) - uint16(c.curr.ins.opLength)
	c.Rg.Spc.Pc.Write(addr)
}

func (c *Cpu) branch(flag uint8, test uint8) {
	if (c.Rg.Spc.Ps.Read() & flag) == test {
		target := c.getOperandAddr(c.curr.ins)
		c.addBranchCycles(target)
		c.Rg.Spc.Pc.Write(target - uint16(c.curr.ins.opLength))
	}
}

func (c *Cpu) bpl() {
	c.branch(BN, 0)
}
func (c *Cpu) bmi() {
	c.branch(BN, BN)
}
func (c *Cpu) bvc() {
	c.branch(BV, 0)
}
func (c *Cpu) bvs() {
	c.branch(BV, BV)
}
func (c *Cpu) bcc() {
	c.branch(BC, 0)
}
func (c *Cpu) bcs() {
	c.branch(BC, BC)
}
func (c *Cpu) bne() {
	c.branch(BZ, 0)
}
func (c *Cpu) beq() {
	c.branch(BZ, BZ)
}

func (c *Cpu) jsr() {
	retAddr := c.Rg.Spc.Pc.Read() + uint16(c.curr.ins.opLength)
	c.push16(retAddr - 1)
	c.jmp()
}
func (c *Cpu) rts() {
	c.Rg.Spc.Pc.Write(c.pull16())
}

func (c *Cpu) brk() {
	// the padding byte after the opcode is skipped on return
	c.push16(c.Rg.Spc.Pc.Read() + 2)
	c.push8(c.Rg.Spc.Ps.Read() | BB)
	c.Rg.Spc.Ps.Set(BI, BI)
	c.Rg.Spc.Pc.Write(c.Read16(VectorIRQ) - uint16(c.curr.ins.opLength))
}

func (c *Cpu) rti() {
	c.Rg.Spc.Ps.Write(c.pull8() &^ BB)
	c.Rg.Spc.Pc.Write(c.pull16() - uint16(c.curr.ins.opLength))
}

func (c *Cpu) nop() {}

// Logical and arithmetic commands:
func (c *Cpu) ora() {
	c.Rg.Gp.Ac.Write(c.Rg.Gp.Ac.Read() | c.Read8(c.getOperandAddr(c.curr.ins)))
	c.Rg.Spc.Ps.Set(BZ|BN, int8(c.Rg.Gp.Ac.Read()))
}
func (c *Cpu) and() {
	c.Rg.Gp.Ac.Write(c.Rg.Gp.Ac.Read() & c.Read8(c.getOperandAddr(c.curr.ins)))
	c.Rg.Spc.Ps.Set(BZ|BN, int8(c.Rg.Gp.Ac.Read()))
}
func (c *Cpu) eor() {
	c.Rg.Gp.Ac.Write(c.Rg.Gp.Ac.Read() ^ c.Read8(c.getOperandAddr(c.curr.ins)))
	c.Rg.Spc.Ps.Set(BZ|BN, int8(c.Rg.Gp.Ac.Read()))
}

func (c *Cpu) add(opr uint8) {
	ac := c.Rg.Gp.Ac.Read()
	result := uint16(ac) + uint16(opr) + uint16(c.Rg.Spc.Ps.Read()&BC)
	if result > 0xFF {
		c.Rg.Spc.Ps.Set(BC, BC)
	} else {
		c.Rg.Spc.Ps.Set(BC, 0)
	}

	// signed overflow: the addends agree on the sign and the result
	// does not, eg 127 + 3 = 130 (-126)
	if (ac^opr)&0x80 == 0 && (uint16(ac)^result)&0x80 != 0 {
		c.Rg.Spc.Ps.Set(BV, BV)
	} else {
		c.Rg.Spc.Ps.Set(BV, 0)
	}
	c.Rg.Gp.Ac.Write(uint8(result & 0xFF))
	c.Rg.Spc.Ps.Set(BZ|BN, int8(c.Rg.Gp.Ac.Read()))
	// decimal mode does not exist on the 2A03
}

func (c *Cpu) adc() {
	c.add(c.Read8(c.getOperandAddr(c.curr.ins)))
}
func (c *Cpu) sbc() {
	// A - M - (1-C) is A + ^M + C
	c.add(c.Read8(c.getOperandAddr(c.curr.ins)) ^ 0xFF)
}

func (c *Cpu) compare(op1 uint8) {
	op2 := c.Read8(c.getOperandAddr(c.curr.ins))
	if op1 >= op2 {
		c.Rg.Spc.Ps.Set(BC, BC)
	} else {
		c.Rg.Spc.Ps.Set(BC, 0)
	}
	c.Rg.Spc.Ps.Set(BZ|BN, int8(op1-op2))
}

func (c *Cpu) cmp() {
	c.compare(c.Rg.Gp.Ac.Read())
}
func (c *Cpu) cpx() {
	c.compare(c.Rg.Gp.Ix.X.Read())
}
func (c *Cpu) cpy() {
	c.compare(c.Rg.Gp.Ix.Y.Read())
}

func (c *Cpu) dec() {
	addr := c.getOperandAddr(c.curr.ins)
	v := c.Read8(addr) - 1
	c.Write8(addr, v)
	c.Rg.Spc.Ps.Set(BZ|BN, int8(v))
}
func (c *Cpu) dex() {
	v := c.Rg.Gp.Ix.X.Read() - 1
	c.Rg.Gp.Ix.X.Write(v)
	c.Rg.Spc.Ps.Set(BZ|BN, int8(v))
}
func (c *Cpu) dey() {
	v := c.Rg.Gp.Ix.Y.Read() - 1
	c.Rg.Gp.Ix.Y.Write(v)
	c.Rg.Spc.Ps.Set(BZ|BN, int8(v))
}

func (c *Cpu) inc() {
	addr := c.getOperandAddr(c.curr.ins)
	v := c.Read8(addr) + 1
	c.Write8(addr, v)
	c.Rg.Spc.Ps.Set(BZ|BN, int8(v))
}
func (c *Cpu) inx() {
	v := c.Rg.Gp.Ix.X.Read() + 1
	c.Rg.Gp.Ix.X.Write(v)
	c.Rg.Spc.Ps.Set(BZ|BN, int8(v))
}
func (c *Cpu) iny() {
	v := c.Rg.Gp.Ix.Y.Read() + 1
	c.Rg.Gp.Ix.Y.Write(v)
	c.Rg.Spc.Ps.Set(BZ|BN, int8(v))
}

// read-modify-write helper covering the accumulator mode shifts
func (c *Cpu) modify(mod func(uint8) uint8) {
	if c.curr.ins.addrMode == ModeAccumulator {
		v := mod(c.Rg.Gp.Ac.Read())
		c.Rg.Gp.Ac.Write(v)
		c.Rg.Spc.Ps.Set(BZ|BN, int8(v))
		return
	}
	addr := c.getOperandAddr(c.curr.ins)
	v := mod(c.Read8(addr))
	c.Write8(addr, v)
	c.Rg.Spc.Ps.Set(BZ|BN, int8(v))
}

func (c *Cpu) asl() {
	c.modify(func(v uint8) uint8 {
		c.Rg.Spc.Ps.Set(BC, int8(v>>7)&BC)
		return v << 1
	})
}

func (c *Cpu) rol() {
	c.modify(func(v uint8) uint8 {
		fC := c.Rg.Spc.Ps.Read() & BC
		c.Rg.Spc.Ps.Set(BC, int8(v>>7)&BC)
		return (v << 1) | fC
	})
}

func (c *Cpu) lsr() {
	c.modify(func(v uint8) uint8 {
		c.Rg.Spc.Ps.Set(BC, int8(v)&BC)
		return v >> 1
	})
}

func (c *Cpu) ror() {
	c.modify(func(v uint8) uint8 {
		fC := c.Rg.Spc.Ps.Read() & BC
		c.Rg.Spc.Ps.Set(BC, int8(v)&BC)
		return (v >> 1) | (fC << 7)
	})
}
