package denoiser

import (
	"errors"
	"io/ioutil"
	"testing"

	"github.com/achilleasa/wavefront/buffers"
	"github.com/achilleasa/wavefront/log"
	"github.com/achilleasa/wavefront/tracer/device"
	"github.com/achilleasa/wavefront/types"
)

func init() {
	log.SetSink(ioutil.Discard)
}

type stubDevice struct{}

func (stubDevice) Info() device.Info {
	return device.Info{Name: "stub", Type: device.OtherDevice, Concurrency: 3}
}
func (stubDevice) ConcurrentQueueCount() int { return 0 }
func (stubDevice) QueueCreate(_ *buffers.RenderBuffers) (device.Queue, error) {
	return nil, errors.New("not supported")
}
func (stubDevice) Close() {}

func TestCreatePanicsOnInvalidParams(t *testing.T) {
	specs := []Params{
		{Use: false, Type: TypeBilateral},
		{Use: true, Type: TypeNone},
		{Use: true, Type: TypeAll},
		{Use: true, Type: Type(42)},
	}

	for index, params := range specs {
		func() {
			defer func() {
				if err := recover(); err == nil {
					t.Fatalf("[spec %d] expected Create to panic", index)
				}
			}()
			Create(stubDevice{}, params)
		}()
	}
}

func TestCreateSelectsBackend(t *testing.T) {
	if _, ok := Create(stubDevice{}, DefaultParams(TypeBilateral)).(*bilateral); !ok {
		t.Fatal("expected a bilateral denoiser")
	}
	d := Create(stubDevice{}, DefaultParams(TypeNLM))
	if _, ok := d.(*nlm); !ok {
		t.Fatal("expected an nlm denoiser")
	}
	if d.Params() != DefaultParams(TypeNLM) {
		t.Fatalf("expected denoiser params to match; got %+v", d.Params())
	}
}

func TestParseType(t *testing.T) {
	type spec struct {
		in     string
		exp    Type
		expErr error
	}
	specs := []spec{
		{"none", TypeNone, nil},
		{"bilateral", TypeBilateral, nil},
		{"nlm", TypeNLM, nil},
		{"optix", TypeNone, ErrUnknownType},
	}

	for index, s := range specs {
		got, err := ParseType(s.in)
		if !errors.Is(err, s.expErr) {
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
		}
		if got != s.exp {
			t.Fatalf("[spec %d] expected type %s; got %s", index, s.exp, got)
		}
	}
}

func TestNewBufferParams(t *testing.T) {
	params := buffers.Params{
		Width: 4, Height: 2,
		FullX: 3, FullY: 1,
		FullWidth: 16, FullHeight: 16,
		Passes: buffers.DenoisingPasses,
	}
	bp := NewBufferParams(params)

	// combined (4) + albedo (3) + normal (3) + denoised (3)
	if bp.PassStride != 13 || bp.PassDenoisingOffset != 4 {
		t.Fatalf("unexpected pass layout: %+v", bp)
	}
	if bp.X != 3 || bp.Y != 1 || bp.Width != 4 || bp.Height != 2 {
		t.Fatalf("unexpected region: %+v", bp)
	}
	if got := bp.pixelIndex(3, 1); got != 0 {
		t.Fatalf("expected the region origin to map to index 0; got %d", got)
	}
	if got := bp.pixelIndex(6, 2); got != 7 {
		t.Fatalf("expected the last pixel to map to index 7; got %d", got)
	}
}

// Fill a buffer with numSamples copies of the given per-pixel values.
func makeBuffer(w, h, numSamples int, color, albedo func(x, y int) types.Vec3) *buffers.RenderBuffers {
	rb := buffers.New(buffers.NewParams(w, h, buffers.DenoisingPasses))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pixel := rb.PixelIndex(x, y)
			for s := 0; s < numSamples; s++ {
				rb.Accumulate(pixel, buffers.PassCombined, color(x, y))
				rb.Accumulate(pixel, buffers.PassDenoisingAlbedo, albedo(x, y))
				rb.Accumulate(pixel, buffers.PassDenoisingNormal, types.XYZ(0, 0, 1))
			}
		}
	}
	return rb
}

func TestDenoisePreservesConstantImage(t *testing.T) {
	const numSamples = 4
	constant := func(_, _ int) types.Vec3 { return types.XYZ(0.25, 0.5, 0.75) }

	for _, typ := range []Type{TypeBilateral, TypeNLM} {
		rb := makeBuffer(6, 5, numSamples, constant, constant)
		d := Create(stubDevice{}, DefaultParams(typ))
		if err := d.Denoise(rb, NewBufferParams(rb.Params()), numSamples); err != nil {
			t.Fatalf("[%s] %v", typ, err)
		}

		exp := constant(0, 0).Mul(numSamples)
		for y := 0; y < 5; y++ {
			for x := 0; x < 6; x++ {
				got := rb.Read(rb.PixelIndex(x, y), buffers.PassDenoised)
				if got.Sub(exp).Abs().Max() > 1e-4 {
					t.Fatalf("[%s] expected pixel (%d, %d) to be %v; got %v", typ, x, y, exp, got)
				}
			}
		}
	}
}

func TestDenoiseReducesNoise(t *testing.T) {
	// A checkerboard of +/- noise around 0.5.
	noisy := func(x, y int) types.Vec3 {
		if (x+y)%2 == 0 {
			return types.Splat(0.6)
		}
		return types.Splat(0.4)
	}
	white := func(_, _ int) types.Vec3 { return types.Splat(1) }

	for _, typ := range []Type{TypeBilateral, TypeNLM} {
		rb := makeBuffer(8, 8, 1, noisy, white)
		params := DefaultParams(typ)
		params.SigmaColor = 1
		d := Create(stubDevice{}, params)
		if err := d.Denoise(rb, NewBufferParams(rb.Params()), 1); err != nil {
			t.Fatalf("[%s] %v", typ, err)
		}

		var inErr, outErr float32
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				pixel := rb.PixelIndex(x, y)
				inErr += abs(rb.Read(pixel, buffers.PassCombined)[0] - 0.5)
				outErr += abs(rb.Read(pixel, buffers.PassDenoised)[0] - 0.5)
			}
		}
		if outErr >= inErr/2 {
			t.Fatalf("[%s] expected the filter to at least halve the error; in %f, out %f", typ, inErr, outErr)
		}
	}
}

func TestBilateralPreservesAlbedoEdges(t *testing.T) {
	// The left half is dark and the right half is bright in both the color
	// and the albedo passes.
	split := func(x, _ int) types.Vec3 {
		if x < 4 {
			return types.Splat(0.1)
		}
		return types.Splat(0.9)
	}
	rb := makeBuffer(8, 4, 1, split, split)

	params := DefaultParams(TypeBilateral)
	params.SigmaColor = 0
	params.SigmaAlbedo = 0.05
	d := Create(stubDevice{}, params)
	if err := d.Denoise(rb, NewBufferParams(rb.Params()), 1); err != nil {
		t.Fatal(err)
	}

	for _, x := range []int{3, 4} {
		exp := split(x, 0)
		got := rb.Read(rb.PixelIndex(x, 1), buffers.PassDenoised)
		if got.Sub(exp).Abs().Max() > 1e-3 {
			t.Fatalf("expected edge pixel %d to keep its value %v; got %v", x, exp, got)
		}
	}
}

func TestDenoiseStrength(t *testing.T) {
	noisy := func(x, _ int) types.Vec3 { return types.Splat(float32(x % 2)) }
	white := func(_, _ int) types.Vec3 { return types.Splat(1) }
	rb := makeBuffer(4, 4, 1, noisy, white)

	params := DefaultParams(TypeBilateral)
	params.Strength = 0
	if err := Create(stubDevice{}, params).Denoise(rb, NewBufferParams(rb.Params()), 1); err != nil {
		t.Fatal(err)
	}

	for x := 0; x < 4; x++ {
		pixel := rb.PixelIndex(x, 0)
		if exp, got := rb.Read(pixel, buffers.PassCombined), rb.Read(pixel, buffers.PassDenoised); exp != got {
			t.Fatalf("expected zero strength to copy the input; pixel %d expected %v got %v", x, exp, got)
		}
	}
}

func TestDenoiseErrors(t *testing.T) {
	d := Create(stubDevice{}, DefaultParams(TypeBilateral))

	rb := buffers.New(buffers.NewParams(4, 4, buffers.LightPasses))
	if err := d.Denoise(rb, NewBufferParams(rb.Params()), 1); !errors.Is(err, ErrMissingPasses) {
		t.Fatalf("expected ErrMissingPasses; got %v", err)
	}

	rb = buffers.New(buffers.NewParams(4, 4, buffers.DenoisingPasses))
	if err := d.Denoise(rb, NewBufferParams(rb.Params()), 0); !errors.Is(err, ErrInvalidSamples) {
		t.Fatalf("expected ErrInvalidSamples; got %v", err)
	}

	bp := NewBufferParams(buffers.NewParams(8, 4, buffers.DenoisingPasses))
	if err := d.Denoise(rb, bp, 1); !errors.Is(err, ErrRegionMismatch) {
		t.Fatalf("expected ErrRegionMismatch; got %v", err)
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
