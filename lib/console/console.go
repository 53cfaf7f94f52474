package console

import (
	"fmt"
	"io"
	"log"
	"strings"

	"famicore/lib/apu"
	"famicore/lib/common"
	"famicore/lib/cpu"
	"famicore/lib/mappers"
	"famicore/lib/ppu"
	"famicore/lib/speakers"
)

const NesBaseFrequency = 1789773 // NTSC
//const NesBaseFrequency = 1662607 // PAL

const (
	MapCPUId = iota
	MapPPUId
	MapDMAId
	MapAPUId
	MapLastId
)

// Console owns every device and the bus views tying them together.
// One Clock call runs the machine up to the next finished frame.
type Console struct {
	bus common.Bus

	cpu  cpu.Cpu
	ram  common.Ram
	cart mappers.Cartridge
	ppu  ppu.Ppu
	dma  common.Dma
	apu  apu.Apu
	ctrl common.Controllers

	clock uint64

	// Options
	verbose     bool
	freeRun     bool
	audioLib    speakers.AudioLib
	audioLog    bool
	audioOff    bool
}

func New(rom []byte, saveData []byte, options ...Option) (*Console, error) {
	c := &Console{audioLib: speakers.Nil}
	for i, option := range options {
		if err := option(c); err != nil {
			return nil, fmt.Errorf("failed to set option index %d: %w", i, err)
		}
	}
	if err := c.init(rom, saveData); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Console) init(rom []byte, saveData []byte) error {
	c.bus.Init(MapLastId)

	if err := c.cart.Init(rom, saveData); err != nil {
		return fmt.Errorf("failed to initialise the cartridge: %w", err)
	}

	c.ram.Init(0x800)
	c.ctrl.Init()

	c.cpu.Init(c.bus.GetBusInt(MapCPUId), c.verbose)
	c.cart.Connect(&c.cpu)
	c.ppu.Init(c.bus.GetBusInt(MapPPUId), c.verbose, &c.cpu)
	c.dma.Init(c.bus.GetBusInt(MapDMAId))
	if err := c.apu.Init(c.bus.GetBusInt(MapAPUId), &c.cpu, c.verbose, c.audioLog, c.audioLib); err != nil {
		return err
	}
	if c.audioOff {
		c.apu.Stop()
	}

	c.bus.Connect(MapCPUId, &cpuMapper{c})
	c.bus.Connect(MapPPUId, &ppuMapper{c})
	c.bus.Connect(MapDMAId, &dmaMapper{c})
	c.bus.Connect(MapAPUId, &apuMapper{c})

	c.cpu.Reset()
	return nil
}

// Clock runs the console until the ppu finishes the current frame,
// around 89342 dots, and returns it. The frame holds palette colour
// indexes, conversion to RGB is left to the caller.
func (c *Console) Clock() *common.Frame {
	for {
		c.tick()
		if frame := c.ppu.TakeFrame(); frame != nil {
			return frame
		}
	}
}

// master clock runs at the ppu dot rate, the cpu and apu tick once
// for every three dots, dma transfers stall the cpu
func (c *Console) tick() {
	c.clock++

	c.ppu.Ticks(1)
	c.cart.Ticks(1)

	if c.clock%3 == 0 {
		if c.dma.Active() {
			c.dma.Ticks(1)
		} else {
			c.cpu.Tick()
		}
		c.apu.Ticks(1)
	}
}

// Step runs the console for the given stretch of emulated time.
func (c *Console) Step(seconds float64) {
	dots := int(seconds * float64(NesBaseFrequency) * 3)
	for i := 0; i < dots; i++ {
		c.tick()
	}
}

func (c *Console) Reset() {
	c.ppu.Reset()
	c.dma.Reset()
	c.cpu.Reset()
	c.apu.Reset()
	c.ctrl.Reset()
	c.cart.Reset()
}

func (c *Console) Stop() {
	c.apu.Stop()
}

// SetController latches the packed button byte for a pad,
// bit 7 is A down through bit 0 Right.
func (c *Console) SetController(id uint8, buttons uint8) {
	c.ctrl.Set(id, buttons)
}

func (c *Console) Poke(controllerId uint8, button uint8, pressed bool) {
	c.ctrl.Poke(controllerId, button, pressed)
}

// Battery reports whether the cartridge has battery backed ram.
func (c *Console) Battery() bool {
	return c.cart.Battery()
}

// SaveData snapshots the battery backed ram, nil without a battery.
func (c *Console) SaveData() []byte {
	return c.cart.SaveData()
}

func (c *Console) PlayAudio() {
	c.apu.Play()
}
func (c *Console) AudioBufferReady() bool {
	return c.apu.AudioBufferReady()
}
func (c *Console) FreeRun() bool {
	return c.freeRun
}

func (c *Console) CPU() *cpu.Cpu {
	return &c.cpu
}
func (c *Console) PPU() *ppu.Ppu {
	return &c.ppu
}

// SaveState writes the full machine state with gob.
func (c *Console) SaveState(rw io.ReadWriter) error {
	return c.Serialise(common.NewSerialiser(rw))
}

// LoadState resets first, otherwise the gob decoder would merge the
// stream into live state: https://github.com/golang/go/issues/21929
func (c *Console) LoadState(rw io.ReadWriter) error {
	c.Reset()
	return c.DeSerialise(common.NewSerialiser(rw))
}

func (c *Console) Serialise(s common.Serialiser) error {
	return s.Serialise(
		&c.cpu, &c.ram, &c.apu, &c.dma, &c.ppu, &c.cart, &c.ctrl, c.clock,
	)
}
func (c *Console) DeSerialise(s common.Serialiser) error {
	return s.DeSerialise(
		&c.cpu, &c.ram, &c.apu, &c.dma, &c.ppu, &c.cart, &c.ctrl, &c.clock,
	)
}

// loads hex dumps from: https://skilldrick.github.io/easy6502/, eg:
// `0600: a9 01 85 02 a9 cc 8d 00 01 a9 01 a a1 00 00 00
//  0610: a9 05 a 8e 00 02 a9 05 8d 01 02 a9 08 8d 02 02`
func (c *Console) LoadHexDump(code string) {
	for i, line := range strings.Split(strings.TrimSuffix(code, "\n"), "\n") {
		addr := 0
		var bt [16]int
		ns, err := fmt.Sscanf(line, "%X: %X %X %X %X %X %X %X %X %X %X %X %X %X %X %X %X ",
			&addr, &bt[0], &bt[1], &bt[2], &bt[3], &bt[4], &bt[5], &bt[6], &bt[7],
			&bt[8], &bt[9], &bt[10], &bt[11], &bt[12], &bt[13], &bt[14], &bt[15])
		if err != nil && err != io.EOF {
			log.Printf("error when scanning hex dump line, ns: %X, error: %v", ns, err)
		}

		if i == 0 {
			// assumes the first line is where the program starts
			c.cart.WriteRom16(0xFFFC, uint16(addr))
		}

		for j, b := range bt {
			c.cpu.Write8(uint16(addr+j), uint8(b))
		}
	}
	c.cpu.Reset()
}
