package waves

import (
	"famicore/lib/common"
)

var noisePeriodTable = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160, 202,
	254, 380, 508, 762, 1016, 2034, 4068,
}

type Noise struct {
	constVolume bool
	volume      uint8

	modeBit       uint8 // 6 in mode 1, otherwise 1
	shiftRegister uint16

	timer    Timer
	duration DurationCounter
	envelope Envelope

	clock   uint64
	enabled bool
}

func (n *Noise) Serialise(s common.Serialiser) error {
	return s.Serialise(
		n.constVolume, n.volume, n.modeBit, n.shiftRegister,
		&n.timer, &n.duration, &n.envelope, n.clock, n.enabled,
	)
}
func (n *Noise) DeSerialise(s common.Serialiser) error {
	return s.DeSerialise(
		&n.constVolume, &n.volume, &n.modeBit, &n.shiftRegister,
		&n.timer, &n.duration, &n.envelope, &n.clock, &n.enabled,
	)
}

func (n *Noise) Init() {
	n.clock = 0
	n.modeBit = 1
	n.shiftRegister = 1
	n.duration.reset()
	n.envelope.reset()
	n.timer.reset()
	n.enabled = false
}

// 15bit linear feedback shift register
func (n *Noise) Tick() {
	n.clock++
	if n.timer.tick() {
		feedback := (n.shiftRegister & 0x1) ^ ((n.shiftRegister >> n.modeBit) & 0x1)
		n.shiftRegister >>= 1
		n.shiftRegister |= feedback << 14
	}
}

func (n *Noise) Write8(addr uint16, val uint8) {
	switch addr {
	// length counter halt, const volume or envelope
	case 0x400C:
		n.duration.set((val & 0x20) != 0)

		n.volume = val & 0xF
		n.constVolume = (val & 0x10) != 0
		if !n.constVolume {
			n.envelope.loop = n.duration.halt
			n.envelope.reload = n.volume
		}

	// mode and period
	case 0x400E:
		n.timer.set(noisePeriodTable[val&0xF])
		if (val & 0x80) != 0 {
			n.modeBit = 6
		} else {
			n.modeBit = 1
		}

	// length counter load
	case 0x400F:
		if n.enabled {
			n.duration.reload((val & 0xF8) >> 3)
		}
		n.envelope.start = true
	}
}

func (n *Noise) Sample() float64 {
	if (n.shiftRegister&0x1) != 0 || n.duration.mute() {
		return 0.0
	}
	if n.constVolume {
		return float64(n.volume)
	}
	return float64(n.envelope.decay)
}

func (n *Noise) Enabled() bool {
	return !n.duration.mute()
}
func (n *Noise) Enable(yes bool) {
	n.enabled = yes
	if !yes {
		n.duration.counter = 0
	}
}

func (n *Noise) QuarterFrameTick() {
	n.envelope.tick()
}
func (n *Noise) HalfFrameTick() {
	n.duration.tick()
}
