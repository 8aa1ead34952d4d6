package tracer

import (
	"errors"
	"io/ioutil"
	"math"
	"testing"

	"github.com/achilleasa/wavefront/buffers"
	"github.com/achilleasa/wavefront/log"
	"github.com/achilleasa/wavefront/scene"
	"github.com/achilleasa/wavefront/tracer/cpu"
	"github.com/achilleasa/wavefront/tracer/device"
	"github.com/achilleasa/wavefront/tracer/integrator"
	"github.com/achilleasa/wavefront/types"
)

func init() {
	log.SetSink(ioutil.Discard)
}

// A queue that records enqueued kernels. After each round it reports the
// next value from activePerRound; once exhausted it reports 0.
type mockQueue struct {
	maxNumPaths    int
	activePerRound []int
	failKernel     device.Kernel

	tiles   []device.WorkTile
	kernels []device.Kernel
	round   int
	active  int
}

func (mq *mockQueue) InitExecution() error { return nil }

func (mq *mockQueue) SetWorkTile(tile device.WorkTile) error {
	mq.tiles = append(mq.tiles, tile)
	mq.round = 0
	return nil
}

func (mq *mockQueue) Enqueue(kernel device.Kernel) error {
	if kernel == mq.failKernel {
		return errors.New("kernel failure")
	}
	mq.kernels = append(mq.kernels, kernel)
	switch kernel {
	case device.KernelMegakernel:
		mq.active = 0
	case device.KernelShadeShadow:
		mq.active = 0
		if mq.round < len(mq.activePerRound) {
			mq.active = mq.activePerRound[mq.round]
		}
		mq.round++
	}
	return nil
}

func (mq *mockQueue) NumActivePaths() int { return mq.active }

func (mq *mockQueue) MaxNumPaths() int { return mq.maxNumPaths }

func (mq *mockQueue) Stats() device.QueueStats { return device.QueueStats{} }

type mockDevice struct {
	queues []*mockQueue
	next   int
}

func (md *mockDevice) Info() device.Info {
	return device.Info{Name: "mock", Type: device.OtherDevice, NumQueues: len(md.queues)}
}

func (md *mockDevice) ConcurrentQueueCount() int { return len(md.queues) }

func (md *mockDevice) QueueCreate(_ *buffers.RenderBuffers) (device.Queue, error) {
	q := md.queues[md.next]
	md.next++
	return q, nil
}

func (md *mockDevice) Close() {}

func TestWorkTiledRequiresQueues(t *testing.T) {
	rb := buffers.New(buffers.NewParams(4, 4, buffers.PassCombined.Flag()))
	if _, err := NewWorkTiled(&mockDevice{}, rb, DefaultOptions()); !errors.Is(err, ErrNoQueues) {
		t.Fatalf("expected ErrNoQueues; got %v", err)
	}
}

func TestWorkTiledKernelSequence(t *testing.T) {
	type spec struct {
		threshold      float32
		activePerRound []int
		expRounds      int
		expMegakernel  bool
	}
	// The tile is 4x4 with 1 sample, i.e. 16 paths.
	specs := []spec{
		// Everything terminates in the first round.
		{0.1, nil, 1, false},
		// 8 >= 1.6 so another round runs; 0 ends the tile.
		{0.1, []int{8}, 2, false},
		// 1 < 1.6 triggers the megakernel.
		{0.1, []int{8, 1}, 2, true},
		// A zero threshold never falls back to the megakernel.
		{0, []int{8, 1, 1}, 4, false},
	}

	params := buffers.NewParams(4, 4, buffers.PassCombined.Flag())
	for index, s := range specs {
		q := &mockQueue{maxNumPaths: 16, activePerRound: s.activePerRound}
		w, err := NewWorkTiled(&mockDevice{queues: []*mockQueue{q}}, buffers.New(params), Options{MegakernelThreshold: s.threshold})
		if err != nil {
			t.Fatalf("[spec %d] %v", index, err)
		}
		if err = w.InitExecution(); err != nil {
			t.Fatalf("[spec %d] %v", index, err)
		}
		if err = w.RenderSamples(params, 0, 1); err != nil {
			t.Fatalf("[spec %d] %v", index, err)
		}

		if len(q.tiles) != 1 {
			t.Fatalf("[spec %d] expected 1 tile; got %d", index, len(q.tiles))
		}

		expKernels := []device.Kernel{device.KernelInitFromCamera}
		for round := 0; round < s.expRounds; round++ {
			expKernels = append(expKernels, device.RoundKernels...)
		}
		if s.expMegakernel {
			expKernels = append(expKernels, device.KernelMegakernel)
		}
		if len(q.kernels) != len(expKernels) {
			t.Fatalf("[spec %d] expected %d kernel invocations; got %d: %v", index, len(expKernels), len(q.kernels), q.kernels)
		}
		for i, kernel := range expKernels {
			if q.kernels[i] != kernel {
				t.Fatalf("[spec %d] expected kernel %d to be %s; got %s", index, i, kernel, q.kernels[i])
			}
		}

		stats := w.Stats()
		if stats[0].Tiles != 1 || stats[0].Rounds != s.expRounds {
			t.Fatalf("[spec %d] unexpected stats: %+v", index, stats[0])
		}
		if expFallbacks := map[bool]int{true: 1, false: 0}[s.expMegakernel]; stats[0].MegakernelFallbacks != expFallbacks {
			t.Fatalf("[spec %d] expected %d megakernel fallbacks; got %d", index, expFallbacks, stats[0].MegakernelFallbacks)
		}
	}
}

func TestWorkTiledPropagatesErrors(t *testing.T) {
	params := buffers.NewParams(8, 8, buffers.PassCombined.Flag())
	q := &mockQueue{maxNumPaths: 16, failKernel: device.KernelShadeSurface}
	w, err := NewWorkTiled(&mockDevice{queues: []*mockQueue{q}}, buffers.New(params), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if err = w.RenderSamples(params, 0, 1); err == nil {
		t.Fatal("expected an error")
	}
	if len(q.tiles) != 1 {
		t.Fatalf("expected rendering to stop after the first tile; got %d tiles", len(q.tiles))
	}
}

func TestPipelineStateString(t *testing.T) {
	for ps := PipelineInit; ps <= PipelineDone; ps++ {
		if ps.String() == "" {
			t.Fatalf("expected state %d to have a name", ps)
		}
	}

	defer func() {
		if err := recover(); err == nil {
			t.Fatal("expected String() to panic for an unknown state")
		}
	}()
	_ = PipelineState(0xff).String()
}

func TestWorkTiledUniformBackground(t *testing.T) {
	sc := scene.NewScene()
	sc.BgColor = types.XYZ(0.25, 0.5, 1)
	sc.SetCamera(scene.NewCamera(45))
	sc.Prepare()
	sc.Camera.SetupProjection(1)

	opts := integrator.DefaultOptions()
	opts.TransparentBackground = false
	dev, err := cpu.NewDevice(cpu.Config{
		Scene:       sc,
		Camera:      sc.Camera,
		Options:     opts,
		NumQueues:   2,
		MaxNumPaths: 64,
		Concurrency: 4,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer dev.Close()

	params := buffers.NewParams(20, 12, buffers.LightPasses|buffers.PassCombined.Flag())
	rb := buffers.New(params)
	w, err := NewWorkTiled(dev, rb, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err = w.InitExecution(); err != nil {
		t.Fatal(err)
	}

	if err = w.RenderSamples(params, 0, 4); err != nil {
		t.Fatal(err)
	}

	exp := sc.BgColor.Mul(4)
	for y := 0; y < params.Height; y++ {
		for x := 0; x < params.Width; x++ {
			pixel := rb.PixelIndex(x, y)
			for _, pass := range []buffers.PassType{buffers.PassCombined, buffers.PassBackground} {
				got := rb.Read(pixel, pass)
				if d := got.Sub(exp).Abs().Max(); d > 1e-5 || math.IsNaN(float64(d)) {
					t.Fatalf("expected pixel (%d, %d) pass %s to be %v; got %v", x, y, pass, exp, got)
				}
			}
		}
	}

	tiles := 0
	for _, stats := range w.Stats() {
		tiles += stats.Tiles
	}
	if tiles != w.scheduler.NumTiles() {
		t.Fatalf("expected %d rendered tiles; got %d", w.scheduler.NumTiles(), tiles)
	}
}
