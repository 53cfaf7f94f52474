package speakers

import (
	"fmt"
)

type AudioLib string

const (
	Nil       = "nil"
	Beep      = "beep"
	PortAudio = "portaudio"
	Oto       = "oto"
)

// AudioSpeaker consumes the apu sample stream.
type AudioSpeaker interface {
	Init()
	Reset()
	Stop()
	Play()
	Sample(float64) bool
	SampleRate() int
	BufferReady() bool
}

func NewSpeaker(lib AudioLib) (AudioSpeaker, error) {
	var speaker AudioSpeaker
	switch lib {
	case Nil:
		speaker = new(SpeakerNil)
	case Beep:
		speaker = new(SpeakerBeep)
	case PortAudio:
		speaker = new(SpeakerPort)
	case Oto:
		speaker = new(SpeakerOto)
	default:
		return nil, fmt.Errorf("unknown audio library %q", lib)
	}
	speaker.Init()
	return speaker, nil
}

// SpeakerNil swallows samples, for tests and headless runs.
type SpeakerNil struct {
}

func (s *SpeakerNil) Init()  {}
func (s *SpeakerNil) Reset() {}
func (s *SpeakerNil) Stop()  {}
func (s *SpeakerNil) Play()  {}
func (s *SpeakerNil) Sample(float64) bool {
	return true
}
func (s *SpeakerNil) SampleRate() int {
	return 44100
}
func (s *SpeakerNil) BufferReady() bool {
	return true
}
