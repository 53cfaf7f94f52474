package speakers

import (
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

type SpeakerBeep struct {
	sampleRate  beep.SampleRate
	speakerSize int
	buffer      *SampleBuffer
}

func (s *SpeakerBeep) Init() {
	s.sampleRate = beep.SampleRate(44100)
	s.buffer = NewSampleBuffer(int(s.sampleRate) / 10)
	s.speakerSize = s.sampleRate.N(time.Second / 10)

	_ = speaker.Init(s.sampleRate, s.speakerSize)
}

func (s *SpeakerBeep) Play() {
	speaker.Play(beep.StreamerFunc(s.stream))
}
func (s *SpeakerBeep) Reset() {}
func (s *SpeakerBeep) Stop() {
	speaker.Clear()
}

// pulled from the audio thread, underruns play silence
func (s *SpeakerBeep) stream(samples [][2]float64) (int, bool) {
	if s.buffer.DrainStereo(samples) == 0 {
		for i := range samples {
			samples[i][0] = 0
			samples[i][1] = 0
		}
	}
	return len(samples), true
}

func (s *SpeakerBeep) Sample(sample float64) bool {
	if s.buffer.Push(sample, false) != nil {
		// drop the oldest sample rather than stall the apu
		_, _ = s.buffer.Pop()
		return false
	}
	return true
}

func (s *SpeakerBeep) BufferReady() bool {
	return s.buffer.Buffered() > s.speakerSize/2
}

func (s *SpeakerBeep) SampleRate() int {
	return int(s.sampleRate)
}
