package main

import (
	"os"

	"github.com/achilleasa/wavefront/cmd"
	"github.com/achilleasa/wavefront/renderer"
	"github.com/achilleasa/wavefront/tracer/cpu"
	"github.com/urfave/cli"
)

// Flags shared by the render sub-commands.
func renderFlags(defaultOut string) []cli.Flag {
	defaults := renderer.DefaultOptions()
	return []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: defaults.FrameW,
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: defaults.FrameH,
			Usage: "frame height",
		},
		cli.IntFlag{
			Name:  "spp",
			Value: defaults.SamplesPerPixel,
			Usage: "samples per pixel",
		},
		cli.IntFlag{
			Name:  "spp-per-pass",
			Value: defaults.SamplesPerPass,
			Usage: "samples rendered between interruption checks (0 renders all samples in one pass)",
		},
		cli.IntFlag{
			Name:  "num-bounces",
			Value: defaults.NumBounces,
			Usage: "number of indirect ray bounces",
		},
		cli.IntFlag{
			Name:  "rr-bounces",
			Value: defaults.MinBouncesForRR,
			Usage: "min number of bounces before applying russian roulette for path elimination; set to 0 to disable RR",
		},
		cli.Float64Flag{
			Name:  "exposure",
			Value: float64(defaults.Exposure),
			Usage: "camera exposure for tone-mapping",
		},
		cli.IntFlag{
			Name:  "queues",
			Value: 1,
			Usage: "number of device queues rendering tiles in parallel",
		},
		cli.IntFlag{
			Name:  "tile-paths",
			Value: cpu.DefaultMaxNumPaths,
			Usage: "path state capacity of each queue; bounds the tile size",
		},
		cli.Float64Flag{
			Name:  "megakernel-threshold",
			Value: float64(defaults.MegakernelThreshold),
			Usage: "fraction of active paths below which a tile is finished by the megakernel; set to 0 to disable",
		},
		cli.StringFlag{
			Name:  "denoiser",
			Value: "none",
			Usage: "post-process denoiser (none, bilateral, nlm)",
		},
		cli.StringFlag{
			Name:  "scene",
			Value: "cornell",
			Usage: "scene preset to render",
		},
		cli.IntFlag{
			Name:  "seed",
			Value: 0,
			Usage: "random number generator seed",
		},
		cli.BoolFlag{
			Name:  "transparent",
			Usage: "render the background as transparent",
		},
		cli.StringFlag{
			Name:  "out, o",
			Value: defaultOut,
			Usage: "image filename for the rendered frame; the extension selects the format (.png, .tiff)",
		},
	}
}

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "wavefront"
	app.Usage = "render scenes using wavefront path tracing"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "list-devices",
			Usage: "list available devices",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "queues",
					Value: 1,
					Usage: "number of device queues",
				},
				cli.IntFlag{
					Name:  "tile-paths",
					Value: cpu.DefaultMaxNumPaths,
					Usage: "path state capacity of each queue",
				},
			},
			Action: cmd.ListDevices,
		},
		{
			Name:      "scene-info",
			Usage:     "display scene preset statistics",
			ArgsUsage: "[preset1 preset2 ...]",
			Action:    cmd.ShowSceneInfo,
		},
		{
			Name:   "render",
			Usage:  "render scene",
			Action: nil,
			Subcommands: []cli.Command{
				{
					Name:  "frame",
					Usage: "render single frame",
					Description: `
Render a single frame of a scene preset. Samples are rendered in progressive
passes; an interrupt signal stops rendering after the current pass.`,
					ArgsUsage: "[preset]",
					Flags:     renderFlags("frame.png"),
					Action:    cmd.RenderFrame,
				},
				{
					Name:  "passes",
					Usage: "render single frame and dump every render pass",
					Description: `
Render a frame with all light and denoising passes enabled and write each pass
to its own image file named after the output file and the pass.`,
					ArgsUsage: "[preset]",
					Flags:     renderFlags("frame.png"),
					Action:    cmd.RenderPasses,
				},
			},
		},
	}

	app.Run(os.Args)
}
