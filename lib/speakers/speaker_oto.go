package speakers

import (
	"log"

	"github.com/hajimehoshi/oto"
)

type SpeakerOto struct {
	sampleRate  int
	speakerSize int
	buffer      *SampleBuffer

	samples [][2]float64
	buf     []byte
	context *oto.Context
	player  *oto.Player
}

func (s *SpeakerOto) Init() {
	s.sampleRate = 44100
	s.buffer = NewSampleBuffer(s.sampleRate / 10)
	s.speakerSize = s.sampleRate / 100

	numBytes := s.speakerSize * 4
	s.samples = make([][2]float64, s.speakerSize)
	s.buf = make([]byte, numBytes)

	context, err := oto.NewContext(s.sampleRate, 2, 2, numBytes)
	if err != nil {
		log.Printf("failed to initialise oto: %v", err)
		return
	}
	s.context = context
}

func (s *SpeakerOto) Play() {
	if s.context != nil {
		s.player = s.context.NewPlayer()
	}
}
func (s *SpeakerOto) Reset() {}
func (s *SpeakerOto) Stop() {
	if s.player != nil {
		_ = s.player.Close()
		s.player = nil
	}
	if s.context != nil {
		_ = s.context.Close()
		s.context = nil
	}
}

func (s *SpeakerOto) BufferReady() bool {
	return s.buffer.Buffered() > int(float64(s.speakerSize)*1.5)
}

func (s *SpeakerOto) Sample(sample float64) bool {
	if s.buffer.Push(sample, false) != nil {
		// drop the oldest sample rather than stall the apu
		_, _ = s.buffer.Pop()
		return false
	}

	if s.buffer.Buffered() >= len(s.samples) && s.player != nil {
		s.buffer.DrainStereo(s.samples)
		go s.update()
	}

	return true
}

// 16bit little endian interleaved stereo
func (s *SpeakerOto) update() {
	for i := range s.samples {
		for c := range s.samples[i] {
			val := s.samples[i][c]
			if val < -1 {
				val = -1
			}
			if val > +1 {
				val = +1
			}
			valInt16 := int16(val * (1<<15 - 1))
			s.buf[i*4+c*2+0] = byte(valInt16)
			s.buf[i*4+c*2+1] = byte(valInt16 >> 8)
		}
	}

	_, _ = s.player.Write(s.buf)
}

func (s *SpeakerOto) SampleRate() int {
	return s.sampleRate
}
