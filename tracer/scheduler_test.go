package tracer

import (
	"sync"
	"testing"

	"github.com/achilleasa/wavefront/buffers"
	"github.com/achilleasa/wavefront/tracer/device"
)

func TestWorkSchedulerCoverage(t *testing.T) {
	type spec struct {
		capacity   int
		w, h       int
		numSamples int
		expTiles   int
	}
	specs := []spec{
		{1 << 14, 64, 64, 4, 1},
		{1 << 14, 100, 30, 1, 2},
		{16, 8, 8, 3, 12},
		{1, 3, 2, 2, 12},
		{1 << 20, 10, 10, 16, 1},
		{7, 5, 5, 1, 6},
	}

	for index, s := range specs {
		params := buffers.NewParams(s.w, s.h, buffers.PassCombined.Flag())
		sch := NewWorkScheduler()
		sch.SetMaxNumPathStates(s.capacity)
		sch.Reset(params, 0, s.numSamples)

		if got := sch.NumTiles(); got != s.expTiles {
			t.Fatalf("[spec %d] expected %d tiles; got %d", index, s.expTiles, got)
		}

		hits := make([]int, s.w*s.h*s.numSamples)
		var tile device.WorkTile
		numTiles := 0
		for sch.GetWork(&tile) {
			numTiles++
			if tile.WorkSize() > s.capacity {
				t.Fatalf("[spec %d] tile %s work size %d exceeds capacity %d", index, tile, tile.WorkSize(), s.capacity)
			}
			for workIndex := 0; workIndex < tile.WorkSize(); workIndex++ {
				x, y, sample := tile.Pixel(workIndex)
				hits[tile.BufferIndex(x, y)+sample*s.w*s.h]++
			}
		}

		if numTiles != s.expTiles {
			t.Fatalf("[spec %d] expected to claim %d tiles; got %d", index, s.expTiles, numTiles)
		}
		for i, count := range hits {
			if count != 1 {
				t.Fatalf("[spec %d] expected pixel/sample %d to be covered exactly once; got %d", index, i, count)
			}
		}
	}
}

func TestWorkSchedulerSubRegion(t *testing.T) {
	params := buffers.Params{
		Width:      4,
		Height:     3,
		FullX:      2,
		FullY:      5,
		FullWidth:  10,
		FullHeight: 10,
		Passes:     buffers.PassCombined.Flag(),
	}
	rb := buffers.New(params)

	sch := NewWorkScheduler()
	sch.SetMaxNumPathStates(4)
	sch.Reset(params, 10, 2)

	seen := make(map[int]int)
	var tile device.WorkTile
	for sch.GetWork(&tile) {
		if tile.StartSample < 10 || tile.StartSample+tile.NumSamples > 12 {
			t.Fatalf("unexpected sample range for %s", tile)
		}
		for workIndex := 0; workIndex < tile.WorkSize(); workIndex++ {
			x, y, _ := tile.Pixel(workIndex)
			if !params.Contains(x, y) {
				t.Fatalf("pixel (%d, %d) of %s is outside the buffer window", x, y, tile)
			}
			index := tile.BufferIndex(x, y)
			if exp := rb.PixelIndex(x, y); index != exp {
				t.Fatalf("expected buffer index for (%d, %d) to be %d; got %d", x, y, exp, index)
			}
			seen[index]++
		}
	}

	if len(seen) != params.NumPixels() {
		t.Fatalf("expected %d distinct pixels; got %d", params.NumPixels(), len(seen))
	}
	for index, count := range seen {
		if count != 2 {
			t.Fatalf("expected pixel %d to be rendered twice; got %d", index, count)
		}
	}
}

func TestWorkSchedulerEmptyRegion(t *testing.T) {
	sch := NewWorkScheduler()
	sch.Reset(buffers.NewParams(0, 10, buffers.PassCombined.Flag()), 0, 1)

	var tile device.WorkTile
	if sch.GetWork(&tile) {
		t.Fatal("expected no work for an empty region")
	}

	sch.Reset(buffers.NewParams(10, 10, buffers.PassCombined.Flag()), 0, 0)
	if sch.GetWork(&tile) {
		t.Fatal("expected no work for an empty sample range")
	}
}

func TestWorkSchedulerConcurrentClaims(t *testing.T) {
	params := buffers.NewParams(97, 41, buffers.PassCombined.Flag())
	sch := NewWorkScheduler()
	sch.SetMaxNumPathStates(64)
	sch.Reset(params, 0, 3)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		claimed int
		work    int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var tile device.WorkTile
			for sch.GetWork(&tile) {
				mu.Lock()
				claimed++
				work += tile.WorkSize()
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if claimed != sch.NumTiles() || sch.NumClaimed() != claimed {
		t.Fatalf("expected %d claimed tiles; got %d (scheduler reports %d)", sch.NumTiles(), claimed, sch.NumClaimed())
	}
	if exp := params.NumPixels() * 3; work != exp {
		t.Fatalf("expected total work size %d; got %d", exp, work)
	}
}
