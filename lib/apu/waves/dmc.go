package waves

import (
	"famicore/lib/common"
)

// https://wiki.nesdev.com/w/index.php/APU_DMC
// CPU cycles between output level changes during delta encoded sample
// playback, halved because the channel ticks at the APU rate.
var dmcRateTable = [16]uint16{
	428, 380, 340, 320, 286, 254, 226, 214,
	190, 160, 142, 128, 106, 84, 72, 54,
}

func dmcSampleAddr(val uint8) uint16 {
	return 0xC000 + uint16(val)*64
}
func dmcSampleLen(val uint8) uint16 {
	return 1 + uint16(val)*16
}

type Dmc struct {
	busInt common.BusInt

	irqEnable bool
	loopFlag  bool

	outputLevel   uint8
	sampleAddrRld uint16
	sampleLenRld  uint16

	sampleBuffer uint8
	sampleReady  bool
	sampleAddr   uint16
	sampleLen    uint16

	shiftRegister uint8
	bitsRemaining uint8
	silenceFlag   bool

	timer Timer

	clock   uint64
	enabled bool
}

func (d *Dmc) Serialise(s common.Serialiser) error {
	return s.Serialise(
		d.irqEnable, d.loopFlag, d.outputLevel, d.sampleAddrRld,
		d.sampleLenRld, d.sampleBuffer, d.sampleReady, d.sampleAddr, d.sampleLen,
		d.shiftRegister, d.bitsRemaining, d.silenceFlag, &d.timer, d.clock, d.enabled,
	)
}
func (d *Dmc) DeSerialise(s common.Serialiser) error {
	return s.DeSerialise(
		&d.irqEnable, &d.loopFlag, &d.outputLevel, &d.sampleAddrRld,
		&d.sampleLenRld, &d.sampleBuffer, &d.sampleReady, &d.sampleAddr, &d.sampleLen,
		&d.shiftRegister, &d.bitsRemaining, &d.silenceFlag, &d.timer, &d.clock, &d.enabled,
	)
}

func (d *Dmc) Init(busInt common.BusInt) {
	d.busInt = busInt

	d.irqEnable = false
	d.loopFlag = false
	d.outputLevel = 0
	d.sampleAddrRld = dmcSampleAddr(0)
	d.sampleAddr = d.sampleAddrRld
	d.sampleLenRld = dmcSampleLen(0)
	d.sampleLen = 0
	d.sampleBuffer = 0
	d.sampleReady = false

	d.clock = 0
	d.shiftRegister = 1
	d.bitsRemaining = 0
	d.silenceFlag = true
	d.timer.reset()
	d.timer.set(dmcRateTable[0] / 2)
	d.enabled = false
}

func (d *Dmc) restart() {
	if d.sampleLen == 0 {
		d.sampleLen = d.sampleLenRld
		d.sampleAddr = d.sampleAddrRld
	}
}

func (d *Dmc) Tick() {
	d.clock++
	if !d.timer.tick() {
		return
	}

	if !d.sampleReady && d.sampleLen > 0 {
		d.sampleBuffer = d.busInt.Read8(d.sampleAddr)
		d.sampleReady = true
		d.sampleAddr++
		if d.sampleAddr == 0 {
			d.sampleAddr = 0x8000
		}
		d.sampleLen--
		if d.sampleLen == 0 && d.loopFlag {
			d.restart()
		}
	}

	if d.bitsRemaining == 0 {
		d.bitsRemaining = 8

		if !d.sampleReady {
			d.silenceFlag = true
		} else {
			d.silenceFlag = false
			d.shiftRegister = d.sampleBuffer
			d.sampleReady = false
		}
	}

	if !d.silenceFlag {
		if (d.shiftRegister & 1) == 1 {
			if d.outputLevel <= 125 {
				d.outputLevel += 2
			}
		} else if d.outputLevel >= 2 {
			d.outputLevel -= 2
		}
		d.shiftRegister >>= 1
	}
	d.bitsRemaining--
}

func (d *Dmc) Write8(addr uint16, val uint8) {
	switch addr {
	// flags and rate
	case 0x4010:
		d.irqEnable = (val & 0x80) != 0
		d.loopFlag = (val & 0x40) != 0
		d.timer.set(dmcRateTable[val&0xF] / 2)

	// direct load
	case 0x4011:
		d.outputLevel = val & 0x7F

	// sample address
	case 0x4012:
		d.sampleAddrRld = dmcSampleAddr(val)

	// sample length
	case 0x4013:
		d.sampleLenRld = dmcSampleLen(val)
	}
}

func (d *Dmc) Sample() float64 {
	return float64(d.outputLevel)
}

func (d *Dmc) Enabled() bool {
	return d.sampleLen > 0
}
func (d *Dmc) Enable(yes bool) {
	d.enabled = yes
	if !yes {
		d.sampleLen = 0
	} else {
		d.restart()
	}
}
