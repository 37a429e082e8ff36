package apu

import "testing"

type fakeFIFOSource struct {
	fifoA, fifoB []int8
}

func (f *fakeFIFOSource) FIFOLen(which int) int {
	if which == 0 {
		return len(f.fifoA)
	}
	return len(f.fifoB)
}

func (f *fakeFIFOSource) DrainFIFO(which int, n int) []int8 {
	if which == 0 {
		out := f.fifoA[:n]
		f.fifoA = f.fifoA[n:]
		return out
	}
	out := f.fifoB[:n]
	f.fifoB = f.fifoB[n:]
	return out
}

func TestPopSamplePopsOneByte(t *testing.T) {
	src := &fakeFIFOSource{fifoA: []int8{10, 20, 30}}
	a := New(src)

	a.PopSample(0)

	got := a.DrainSamples(0)
	if len(got) != 1 || got[0] != 10 {
		t.Fatalf("expected one sample of 10, got %v", got)
	}
}

func TestPopSampleTwiceDrainsTwoBytes(t *testing.T) {
	src := &fakeFIFOSource{fifoA: []int8{1, 2, 3, 4}}
	a := New(src)

	a.PopSample(0)
	a.PopSample(0)

	got := a.DrainSamples(0)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected [1 2], got %v", got)
	}
}

func TestPopSampleHoldsLastSampleOnUnderrun(t *testing.T) {
	src := &fakeFIFOSource{fifoA: []int8{42}}
	a := New(src)

	a.PopSample(0) // pops the only queued byte
	a.PopSample(0) // FIFO now empty: must hold 42

	got := a.DrainSamples(0)
	if len(got) != 2 || got[0] != 42 || got[1] != 42 {
		t.Fatalf("expected [42 42] on underrun hold, got %v", got)
	}
}

func TestPopSampleDrivesBothChannelsIndependently(t *testing.T) {
	src := &fakeFIFOSource{fifoA: []int8{5}, fifoB: []int8{-5}}
	a := New(src)

	a.PopSample(0)
	a.PopSample(1)

	gotA := a.DrainSamples(0)
	gotB := a.DrainSamples(1)
	if len(gotA) != 1 || gotA[0] != 5 {
		t.Fatalf("channel A: got %v", gotA)
	}
	if len(gotB) != 1 || gotB[0] != -5 {
		t.Fatalf("channel B: got %v", gotB)
	}
}

func TestDrainSamplesClearsBuffer(t *testing.T) {
	src := &fakeFIFOSource{fifoA: []int8{1}}
	a := New(src)
	a.PopSample(0)

	_ = a.DrainSamples(0)
	got := a.DrainSamples(0)
	if len(got) != 0 {
		t.Fatalf("expected empty buffer after drain, got %v", got)
	}
}
