package common

const (
	FrameXWidth  = 256
	FrameYHeight = 240
)

// Frame is one finished picture as 6bit palette indices, one per dot.
// Colour conversion belongs to the presentation side, which also gets
// the mask bits in effect when the frame completed (greyscale and
// colour emphasis apply at that stage).
type Frame struct {
	Pix [FrameXWidth * FrameYHeight]uint8

	Mask uint8
}

func (f *Frame) Set(x, y int, colour uint8) {
	f.Pix[y*FrameXWidth+x] = colour
}

func (f *Frame) At(x, y int) uint8 {
	return f.Pix[y*FrameXWidth+x]
}

func (f *Frame) Serialise(s Serialiser) error {
	return s.Serialise(f.Pix, f.Mask)
}
func (f *Frame) DeSerialise(s Serialiser) error {
	return s.DeSerialise(&f.Pix, &f.Mask)
}
