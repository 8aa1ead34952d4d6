package cmd

import (
	"strings"

	"github.com/achilleasa/wavefront/scene"
	"github.com/urfave/cli"
)

// Display preset scene info. Without arguments, all presets are listed.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	names := []string(ctx.Args())
	if len(names) == 0 {
		names = scene.PresetNames()
		logger.Noticef("available scene presets: %s", strings.Join(names, ", "))
	}

	for _, name := range names {
		sc, err := scene.Preset(name)
		if err != nil {
			return err
		}

		logger.Noticef("scene information for %q:\n%s", name, sc.Stats())
	}

	return nil
}
