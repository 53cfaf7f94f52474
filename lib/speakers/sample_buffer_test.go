package speakers

import "testing"

func Test_BufferPushPopOrder(t *testing.T) {
	b := NewSampleBuffer(8)

	for _, v := range []float64{0.25, 0.5, 0.75} {
		if err := b.Push(v, false); err != nil {
			t.Fatalf("push %v: %v", v, err)
		}
	}
	for _, want := range []float64{0.25, 0.5, 0.75} {
		got, err := b.Pop()
		if err != nil {
			t.Fatalf("pop: %v", err)
		}
		if got != want {
			t.Errorf("pop out of order: got %v, want %v", got, want)
		}
	}
	if _, err := b.Pop(); err == nil {
		t.Errorf("pop from an empty buffer must fail")
	}
}

func Test_BufferFull(t *testing.T) {
	b := NewSampleBuffer(4)

	for i := 0; i < 4; i++ {
		if err := b.Push(float64(i), false); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	if err := b.Push(4, false); err == nil {
		t.Errorf("push into a full buffer must fail without wait")
	}

	if _, err := b.Pop(); err != nil {
		t.Fatalf("pop: %v", err)
	}
	if err := b.Push(4, false); err != nil {
		t.Errorf("push after a pop: %v", err)
	}
}

func Test_BufferDrain32(t *testing.T) {
	b := NewSampleBuffer(4)

	// push and pop across the wrap point
	for _, v := range []float64{0, 0, 0.25} {
		_ = b.Push(v, false)
	}
	_, _ = b.Pop()
	_, _ = b.Pop()
	_ = b.Push(0.5, false)
	_ = b.Push(0.75, false)

	if got := b.Buffered(); got != 3 {
		t.Fatalf("buffered: got %d, want 3", got)
	}

	out := make([]float32, 3)
	if n := b.Drain32(out); n != 3 {
		t.Fatalf("drain: got %d, want 3", n)
	}
	want := []float32{0.25, 0.5, 0.75}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("sample %d: got %v, want %v", i, out[i], want[i])
		}
	}

	// asking for more than is buffered leaves the samples in place
	_ = b.Push(0.5, false)
	if n := b.Drain32(make([]float32, 3)); n != 0 {
		t.Errorf("oversized drain: got %d, want 0", n)
	}
	if got, _ := b.Pop(); got != 0.5 {
		t.Errorf("sample consumed by a rejected drain, got %v", got)
	}
}

func Test_BufferDrainStereo(t *testing.T) {
	b := NewSampleBuffer(4)
	_ = b.Push(0.25, false)
	_ = b.Push(0.5, false)

	out := make([][2]float64, 2)
	if n := b.DrainStereo(out); n != 2 {
		t.Fatalf("drain: got %d, want 2", n)
	}
	for i, want := range []float64{0.25, 0.5} {
		if out[i][0] != want || out[i][1] != want {
			t.Errorf("sample %d not duplicated to both channels: %v", i, out[i])
		}
	}
}

func Test_BufferSizeValidation(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("a buffer without slots must panic")
		}
	}()
	NewSampleBuffer(0)
}
