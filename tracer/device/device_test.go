package device

import "testing"

func TestKernelString(t *testing.T) {
	for k := KernelNone; k < NumKernels; k++ {
		if k.String() == "" {
			t.Fatalf("expected kernel %d to have a name", k)
		}
	}

	defer func() {
		if err := recover(); err == nil {
			t.Fatal("expected String() to panic for an unknown kernel")
		}
	}()
	_ = NumKernels.String()
}

func TestWorkTilePixel(t *testing.T) {
	tile := WorkTile{X: 4, Y: 2, W: 3, H: 2, StartSample: 5, NumSamples: 2, Offset: -10, Stride: 8}
	if tile.WorkSize() != 12 {
		t.Fatalf("expected work size 12; got %d", tile.WorkSize())
	}

	type spec struct {
		index     int
		expX      int
		expY      int
		expSample int
	}
	specs := []spec{
		{0, 4, 2, 5},
		{2, 6, 2, 5},
		{3, 4, 3, 5},
		{5, 6, 3, 5},
		{6, 4, 2, 6},
		{11, 6, 3, 6},
	}
	for specIndex, s := range specs {
		x, y, sample := tile.Pixel(s.index)
		if x != s.expX || y != s.expY || sample != s.expSample {
			t.Fatalf("[spec %d] expected (%d, %d, %d); got (%d, %d, %d)", specIndex, s.expX, s.expY, s.expSample, x, y, sample)
		}
	}

	if idx := tile.BufferIndex(4, 2); idx != 10 {
		t.Fatalf("expected buffer index 10; got %d", idx)
	}
}
