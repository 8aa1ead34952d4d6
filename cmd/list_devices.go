package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/wavefront/scene"
	"github.com/achilleasa/wavefront/tracer/cpu"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List available devices.
func ListDevices(ctx *cli.Context) error {
	setupLogging(ctx)

	// Device creation needs a scene; the empty preset is enough to query
	// device capabilities.
	sc, err := scene.Preset("empty")
	if err != nil {
		return err
	}
	dev, err := cpu.NewDevice(cpu.Config{
		Scene:       sc,
		Camera:      sc.Camera,
		NumQueues:   ctx.Int("queues"),
		MaxNumPaths: ctx.Int("tile-paths"),
	})
	if err != nil {
		return err
	}
	defer dev.Close()

	info := dev.Info()
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Device", "Type", "Concurrency", "Queues", "Paths per queue"})
	table.Append([]string{
		info.Name,
		info.Type.String(),
		fmt.Sprintf("%d", info.Concurrency),
		fmt.Sprintf("%d", info.NumQueues),
		printer.Sprintf("%d", info.MaxNumPaths),
	})
	table.Render()

	logger.Noticef("available devices\n%s", buf.String())
	return nil
}
