package main

import (
	"os"

	"pictoria-renderer/internal/config"

	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "pictoria-render"
	app.Usage = "render voxel structure OBJ exports into map images"
	app.Version = "0.1.0"
	app.ArgsUsage = config.Usage
	app.Description = `
Import every structure listed in structure_infos.json into an orthographic
isometric scene and render it. By default each structure is rendered on its
own, together with its volume and occluded faces passes; set the fourth
argument to true to render all structures into a single scene.png instead.`
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, notice, warning or error (-v and -vv take precedence)",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "settings file (JSON, or TOML when it ends in .toml)",
		},
		cli.StringFlag{
			Name:  "finalize",
			Usage: "crop, repair and scale per-structure renders into this directory",
		},
		cli.BoolFlag{
			Name:  "webp",
			Usage: "also write finalized images as lossless WebP",
		},
		cli.BoolFlag{
			Name:  "full-resolution",
			Usage: "renders are full resolution; crop at full opacity",
		},
		cli.IntFlag{
			Name:  "workers, w",
			Usage: "raster and finalize goroutines (default: NumCPU)",
		},
	}
	app.Action = renderStructures

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
