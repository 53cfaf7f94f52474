package mappers

import (
	"fmt"

	"famicore/lib/common"
	"famicore/lib/cpu"
)

const (
	mapperNROM  = 0
	mapperMMC1  = 1
	mapperUNROM = 2
	mapperCNROM = 3
	mapperMMC3  = 4
	mapperAxROM = 7
	mapperGNROM = 66
)

type Mapper interface {
	common.BusInt
	common.Serialisable
	Init()
	Tick()
}

// BusInt
type Cartridge struct {
	config iNESConfig

	rom []byte

	prgRom *common.Rom
	prgRam *common.Ram
	chr    *common.Rom
	Tables common.NameTables

	Mapper Mapper

	// irq line back into the cpu, MMC3 pulls it
	Cpu *cpu.Cpu
}

// tests soft load code instead of using a cartridge image
func (c *Cartridge) defaultInit() error {
	c.prgRom.Init(16384*4, true)
	c.chr.Init(16384, true)
	c.prgRam.Init(16384)

	c.Mapper = &MapperNROM{cart: c}
	c.Mapper.Init()
	c.Tables.Init(common.HorizontalMirroring)
	return nil
}

// Init parses the ines image and builds the mapper. saveData, when
// not nil, seeds battery backed prg ram.
func (c *Cartridge) Init(rom []byte, saveData []byte) error {
	c.rom = rom

	c.prgRom = new(common.Rom)
	c.prgRam = new(common.Ram)
	c.chr = new(common.Rom)

	if rom == nil {
		return c.defaultInit()
	}

	config, err := parseINES(rom)
	if err != nil {
		return err
	}
	c.config = config

	data := rom[inesHeaderSize:]
	if c.config.trainer {
		// trainers predate emulation as we know it, skip
		data = data[512:]
	}

	prg := make([]byte, c.config.prgRomSize)
	copy(prg, data[:c.config.prgRomSize])
	c.prgRom.InitData(prg, false)
	data = data[c.config.prgRomSize:]

	if c.config.chrRomSize > 0 {
		chr := make([]byte, c.config.chrRomSize)
		copy(chr, data[:c.config.chrRomSize])
		c.chr.InitData(chr, false)
	} else {
		// no chr rom means 8KB of chr ram
		c.chr.Init(0x2000, true)
	}

	c.prgRam.Init(c.config.prgRamSize)
	if c.config.battery && saveData != nil {
		c.prgRam.Restore(saveData)
	}

	mapper, err := c.newCartMapper(c.config.mapper)
	if err != nil {
		return err
	}
	c.Mapper = mapper
	c.Mapper.Init()
	c.Tables.Init(c.config.mirroring())
	return nil
}

func (c *Cartridge) newCartMapper(mapper byte) (Mapper, error) {
	switch mapper {
	case mapperNROM:
		return &MapperNROM{cart: c}, nil
	case mapperMMC1:
		return &MapperMMC1{cart: c}, nil
	case mapperUNROM:
		return &MapperUNROM{cart: c}, nil
	case mapperCNROM:
		return &MapperCNROM{cart: c}, nil
	case mapperMMC3:
		return &MapperMMC3{cart: c}, nil
	case mapperAxROM:
		return &MapperAxROM{cart: c}, nil
	case mapperGNROM:
		return &MapperGNROM{cart: c}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMapper, mapper)
	}
}

func (c *Cartridge) Connect(cpu *cpu.Cpu) {
	c.Cpu = cpu
}

func (c *Cartridge) Ticks(nTicks int) {
	for i := 0; i < nTicks; i++ {
		c.Mapper.Tick()
	}
}

func (c *Cartridge) Reset() {
	// mapper registers come up in their power on state, ram persists
	mapper, _ := c.newCartMapper(c.config.mapper)
	if c.rom == nil {
		mapper = &MapperNROM{cart: c}
	}
	c.Mapper = mapper
	c.Mapper.Init()
	c.Tables.Mirroring = c.config.mirroring()
}

func (c *Cartridge) Battery() bool {
	return c.config.battery
}

// SaveData snapshots battery backed prg ram, nil without a battery.
func (c *Cartridge) SaveData() []byte {
	if !c.config.battery {
		return nil
	}
	return c.prgRam.Snapshot()
}

func (c *Cartridge) SetMirroring(mirroring common.NameTableMirroring) {
	c.Tables.Mirroring = mirroring
}

// WriteRom16 pokes the (test) rom directly, eg to plant vectors.
func (c *Cartridge) WriteRom16(addr uint16, val uint16) {
	c.prgRom.Write8(addr, uint8(val&0xFF))
	c.prgRom.Write8(addr+1, uint8(val>>8))
}

func (c *Cartridge) Serialise(s common.Serialiser) error {
	return s.Serialise(c.prgRom, c.prgRam, c.chr, &c.Tables, c.Mapper)
}
func (c *Cartridge) DeSerialise(s common.Serialiser) error {
	return s.DeSerialise(c.prgRom, c.prgRam, c.chr, &c.Tables, c.Mapper)
}
