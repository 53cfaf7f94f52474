package speakers

import (
	"log"

	"github.com/gordonklaus/portaudio"
)

type SpeakerPort struct {
	sampleRate  int
	speakerSize int
	buffer      *SampleBuffer

	stream *portaudio.Stream
}

func (s *SpeakerPort) Init() {
	s.sampleRate = 44100
	s.buffer = NewSampleBuffer(s.sampleRate / 10)
	s.speakerSize = s.sampleRate / 100

	if err := portaudio.Initialize(); err != nil {
		log.Printf("failed to initialise portaudio: %v", err)
	}
}

func (s *SpeakerPort) Play() {
	stream, err := portaudio.OpenDefaultStream(
		0, 1, float64(s.sampleRate), s.speakerSize, s.callback,
	)
	if err != nil {
		log.Printf("failed to open the portaudio stream: %v", err)
		return
	}
	s.stream = stream
	if err := s.stream.Start(); err != nil {
		log.Printf("failed to start the portaudio stream: %v", err)
	}
}

func (s *SpeakerPort) Reset() {}
func (s *SpeakerPort) Stop() {
	if s.stream != nil {
		_ = s.stream.Stop()
		_ = s.stream.Close()
		s.stream = nil
	}
	_ = portaudio.Terminate()
}

// pulled from the audio thread, underruns play silence
func (s *SpeakerPort) callback(out []float32) {
	if s.buffer.Drain32(out) == 0 {
		for i := range out {
			out[i] = 0
		}
	}
}

func (s *SpeakerPort) Sample(sample float64) bool {
	if s.buffer.Push(sample, false) != nil {
		// drop the oldest sample rather than stall the apu
		_, _ = s.buffer.Pop()
		return false
	}
	return true
}

func (s *SpeakerPort) BufferReady() bool {
	return s.buffer.Buffered() > s.speakerSize*2
}

func (s *SpeakerPort) SampleRate() int {
	return s.sampleRate
}
