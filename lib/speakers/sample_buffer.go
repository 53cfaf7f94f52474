package speakers

import (
	"fmt"
	"sync"
)

// SampleBuffer hands apu samples over to the audio backend: the apu
// pushes on the emulation clock while the backend drains on its own
// callback schedule, so every entry point takes the lock.
type SampleBuffer struct {
	samples []float64

	// next write, next read, buffered count
	head  int
	tail  int
	count int

	mu   sync.Mutex
	cond *sync.Cond
}

func NewSampleBuffer(size int) *SampleBuffer {
	if size < 1 {
		panic("sample buffer needs at least one slot")
	}
	b := &SampleBuffer{samples: make([]float64, size)}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *SampleBuffer) Push(sample float64, wait bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for b.count == len(b.samples) {
		if !wait {
			return fmt.Errorf("sample buffer is full")
		}
		b.cond.Wait()
	}

	b.samples[b.head] = sample
	b.head = b.next(b.head)
	b.count++
	b.cond.Signal()
	return nil
}

func (b *SampleBuffer) Pop() (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		return 0, fmt.Errorf("sample buffer is empty")
	}
	return b.pop(), nil
}

// Drain32 fills the whole slice or nothing at all; a short backend
// callback keeps its previous samples rather than getting a partial
// fill.
func (b *SampleBuffer) Drain32(out []float32) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(out) > b.count {
		return 0
	}
	for i := range out {
		out[i] = float32(b.pop())
	}
	return len(out)
}

// DrainStereo duplicates each sample into both channels.
func (b *SampleBuffer) DrainStereo(out [][2]float64) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(out) > b.count {
		return 0
	}
	for i := range out {
		sample := b.pop()
		out[i][0] = sample
		out[i][1] = sample
	}
	return len(out)
}

func (b *SampleBuffer) Buffered() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.count
}

func (b *SampleBuffer) pop() float64 {
	sample := b.samples[b.tail]
	b.tail = b.next(b.tail)
	b.count--
	b.cond.Signal()
	return sample
}

func (b *SampleBuffer) next(i int) int {
	if i+1 == len(b.samples) {
		return 0
	}
	return i + 1
}
