package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/achilleasa/wavefront/buffers"
	"github.com/achilleasa/wavefront/denoiser"
	"github.com/achilleasa/wavefront/renderer"
	"github.com/achilleasa/wavefront/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Number formatting for statistics tables.
var printer = message.NewPrinter(language.English)

// Build render options from the command flags.
func renderOptions(ctx *cli.Context) (renderer.Options, error) {
	opts := renderer.Options{
		FrameW:                ctx.Int("width"),
		FrameH:                ctx.Int("height"),
		SamplesPerPixel:       ctx.Int("spp"),
		SamplesPerPass:        ctx.Int("spp-per-pass"),
		Exposure:              float32(ctx.Float64("exposure")),
		NumBounces:            ctx.Int("num-bounces"),
		MinBouncesForRR:       ctx.Int("rr-bounces"),
		NumQueues:             ctx.Int("queues"),
		PathsPerQueue:         ctx.Int("tile-paths"),
		MegakernelThreshold:   float32(ctx.Float64("megakernel-threshold")),
		TransparentBackground: ctx.Bool("transparent"),
		Seed:                  uint32(ctx.Int("seed")),
	}

	denoiserType, err := denoiser.ParseType(ctx.String("denoiser"))
	if err != nil {
		return opts, err
	}
	opts.Denoiser = denoiser.DefaultParams(denoiserType)

	return opts, nil
}

// Load the preset scene selected by the scene flag.
func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	name := ctx.String("scene")
	if ctx.NArg() == 1 {
		name = ctx.Args().First()
	}
	return scene.Preset(name)
}

// Create a renderer and render a frame. Rendering stops after the current
// sample pass when an interrupt signal is received.
func renderFrame(ctx *cli.Context, opts renderer.Options) (renderer.Renderer, error) {
	sc, err := loadScene(ctx)
	if err != nil {
		return nil, err
	}

	r, err := renderer.NewDefault(sc, opts)
	if err != nil {
		return nil, err
	}

	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("rendering %dx%d frame with %d spp", opts.FrameW, opts.FrameH, opts.SamplesPerPixel)
	if err = r.Render(renderCtx); err != nil {
		r.Close()
		return nil, err
	}

	displayFrameStats(r.Stats())
	return r, nil
}

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	opts, err := renderOptions(ctx)
	if err != nil {
		return err
	}

	r, err := renderFrame(ctx, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	pass := buffers.PassCombined
	if opts.Denoiser.Use {
		pass = buffers.PassDenoised
	}

	imgFile := ctx.String("out")
	rb, numSamples := r.Buffers()
	if err = renderer.SaveImage(imgFile, rb, pass, numSamples, opts.Exposure); err != nil {
		return err
	}
	logger.Noticef("wrote %s pass to %s", pass, imgFile)
	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Queue", "Tiles", "Rounds", "Megakernel tiles", "Kernel calls", "Kernel time", "Render time"})
	for _, stat := range stats.Queues {
		calls := 0
		for _, ks := range stat.Kernels.Kernels {
			calls += ks.Calls
		}
		table.Append([]string{
			fmt.Sprintf("%d", stat.Queue),
			printer.Sprintf("%d", stat.Tiles),
			printer.Sprintf("%d", stat.Rounds),
			printer.Sprintf("%d", stat.MegakernelFallbacks),
			printer.Sprintf("%d", calls),
			stat.Kernels.TotalTime().String(),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics (%d samples in %d passes, denoised in %s)\n%s", stats.NumSamples, len(stats.Passes), stats.DenoiseTime, buf.String())
}
