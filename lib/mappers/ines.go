package mappers

import (
	"errors"
	"fmt"

	"famicore/lib/common"
)

// "NES" + EOF
var nesMagic = [4]byte{'N', 'E', 'S', 0x1A}

const inesHeaderSize = 16

var (
	ErrRomTooShort       = errors.New("rom image shorter than the ines header")
	ErrBadMagic          = errors.New("not an ines image, wrong magic number")
	ErrRomTruncated      = errors.New("rom image truncated")
	ErrUnsupportedMapper = errors.New("unsupported mapper")
)

type iNESFormat int

const (
	iNESInvalid iNESFormat = iota
	iNES0                  // Archaic iNES format
	iNES1
	iNES2
)

type iNESConfig struct {
	version iNESFormat

	mapper  byte
	mirror  byte
	battery bool
	trainer bool

	prgRomSize int
	chrRomSize int
	prgRamSize int
}

// parseINES reads the 16 byte header:
//
//	0-3   magic "NES\x1A"
//	4     PRG ROM size in 16KB units
//	5     CHR ROM size in 8KB units, 0 means CHR RAM
//	6     lower mapper nibble, mirroring, battery, trainer
//	7     upper mapper nibble, NES 2.0 signature
//	8     PRG RAM size in 8KB units
func parseINES(rom []byte) (iNESConfig, error) {
	cfg := iNESConfig{}

	if len(rom) < inesHeaderSize {
		return cfg, ErrRomTooShort
	}
	for i, b := range nesMagic {
		if rom[i] != b {
			return cfg, ErrBadMagic
		}
	}

	cfg.version = iNES0
	if rom[7]&0x0C == 0x08 {
		cfg.version = iNES2
	} else if rom[7]&0x0C == 0 {
		cfg.version = iNES1
		for i := 12; i < 16; i++ {
			if rom[i] != 0 {
				cfg.version = iNES0
				break
			}
		}
	}

	cfg.mapper = rom[6]>>4 | rom[7]&0xF0
	if cfg.version == iNES0 {
		// archaic images carry junk in the upper nibble source
		cfg.mapper = rom[6] >> 4
	}

	// bit3 selects four screen vram regardless of bit0
	cfg.mirror = rom[6] & 0x1
	if rom[6]&0x8 != 0 {
		cfg.mirror = 2
	}
	cfg.battery = rom[6]&0x2 != 0
	cfg.trainer = rom[6]&0x4 != 0

	cfg.prgRomSize = int(rom[4]) * 0x4000
	cfg.chrRomSize = int(rom[5]) * 0x2000

	cfg.prgRamSize = int(rom[8]) * 0x2000
	if cfg.prgRamSize == 0 {
		cfg.prgRamSize = 0x2000
	}

	expected := inesHeaderSize + cfg.prgRomSize + cfg.chrRomSize
	if cfg.trainer {
		expected += 512
	}
	if len(rom) < expected {
		return cfg, fmt.Errorf("%w: have %d bytes, header needs %d",
			ErrRomTruncated, len(rom), expected)
	}

	return cfg, nil
}

func (c iNESConfig) mirroring() common.NameTableMirroring {
	switch c.mirror {
	case 1:
		return common.VerticalMirroring
	case 2:
		return common.QuadScreenMirroring
	default:
		return common.HorizontalMirroring
	}
}
