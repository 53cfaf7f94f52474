package ui

import (
	"encoding/binary"
	"image/color"
	"os"
)

// fceux default NTSC palette
var defaultPalette = [64]uint32{
	0x747474, 0x24188c, 0x0000a8, 0x44009c, 0x8c0074, 0xa80010, 0xa40000, 0x7c0800,
	0x402c00, 0x004400, 0x005000, 0x003c14, 0x183c5c, 0x000000, 0x000000, 0x000000,
	0xbcbcbc, 0x0070ec, 0x2038ec, 0x8000f0, 0xbc00bc, 0xe40058, 0xd82800, 0xc84c0c,
	0x887000, 0x009400, 0x00a800, 0x009038, 0x008088, 0x000000, 0x000000, 0x000000,
	0xfcfcfc, 0x3cbcfc, 0x5c94fc, 0xcc88fc, 0xf478fc, 0xfc74b4, 0xfc7460, 0xfc9838,
	0xf0bc3c, 0x80d010, 0x4cdc48, 0x58f898, 0x00e8d8, 0x787878, 0x000000, 0x000000,
	0xfcfcfc, 0xa8e4fc, 0xc4d4fc, 0xd4c8fc, 0xfcc4fc, 0xfcc4d8, 0xfcbcb0, 0xfcd8a8,
	0xfce4a0, 0xe0fca0, 0xa8f0bc, 0xb0fccc, 0x9cfcf0, 0xc4c4c4, 0x000000, 0x000000,
}

type nesPalette struct {
	colours [64]color.RGBA
}

func (p *nesPalette) init() {
	for i, c := range defaultPalette {
		p.colours[i] = color.RGBA{byte(c >> 16), byte(c >> 8), byte(c), 0xFF}
	}
}

// load replaces the colours from a 192 byte .pal file.
func (p *nesPalette) load(source string) error {
	file, err := os.Open(source)
	if err != nil {
		return err
	}
	defer file.Close()

	palette := [64][3]uint8{}
	if err := binary.Read(file, binary.LittleEndian, &palette); err != nil {
		return err
	}

	for i, c := range palette {
		p.colours[i] = color.RGBA{c[0], c[1], c[2], 0xFF}
	}
	return nil
}

// colour resolves a palette index against the PPUMASK greyscale and
// emphasis bits latched with the frame.
func (p *nesPalette) colour(index uint8, mask uint8) color.RGBA {
	if mask&0x01 != 0 {
		index &= 0x30
	}
	c := p.colours[index&0x3F]

	// each emphasis bit attenuates the other two channels
	attenuate := func(v uint8) uint8 {
		return uint8(float64(v) * 0.75)
	}
	if mask&0x20 != 0 { // red
		c.G = attenuate(c.G)
		c.B = attenuate(c.B)
	}
	if mask&0x40 != 0 { // green
		c.R = attenuate(c.R)
		c.B = attenuate(c.B)
	}
	if mask&0x80 != 0 { // blue
		c.R = attenuate(c.R)
		c.G = attenuate(c.G)
	}
	return c
}
