package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/achilleasa/wavefront/buffers"
	"github.com/achilleasa/wavefront/renderer"
	"github.com/urfave/cli"
)

// Render a frame with all passes enabled and dump each pass to its own
// image file.
func RenderPasses(ctx *cli.Context) error {
	setupLogging(ctx)

	opts, err := renderOptions(ctx)
	if err != nil {
		return err
	}
	opts.Passes = buffers.AllPasses
	if !opts.Denoiser.Use {
		opts.Passes &^= buffers.PassDenoised.Flag()
	}

	r, err := renderFrame(ctx, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	outFile := ctx.String("out")
	ext := filepath.Ext(outFile)
	prefix := strings.TrimSuffix(outFile, ext)

	rb, numSamples := r.Buffers()
	for _, pass := range rb.Params().Passes.List() {
		imgFile := fmt.Sprintf("%s-%s%s", prefix, pass, ext)
		if err = renderer.SaveImage(imgFile, rb, pass, numSamples, opts.Exposure); err != nil {
			return err
		}
		logger.Infof("wrote %s pass to %s", pass, imgFile)
	}

	logger.Noticef("wrote %d passes", len(rb.Params().Passes.List()))
	return nil
}
