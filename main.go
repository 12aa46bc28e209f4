package main

import (
	"os"
	"strings"

	"github.com/urfave/cli"

	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "weekend"
	app.Usage = "render scenes with a Monte Carlo path tracer"
	app.Version = "0.1.0"
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
			Usage: "log level (debug, info, notice, warning, error); overrides -v and -vv",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a built-in scene or a scene file to an image",
			Description: `
Build the scene, trace every pixel on a pool of workers and write the
tone-mapped result. Flags left unset keep the values the scene was composed
with. The output format follows the file extension (png, jpg, bmp, tif).`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene, s",
					Usage: "built-in scene: " + strings.Join(scene.BuiltinNames(), ", "),
				},
				cli.StringFlag{
					Name:  "file, f",
					Usage: "JSON scene description; takes precedence over --scene",
				},
				cli.IntFlag{
					Name:  "width",
					Usage: "image width in pixels",
				},
				cli.Float64Flag{
					Name:  "aspect",
					Usage: "image aspect ratio (width / height)",
				},
				cli.IntFlag{
					Name:  "spp",
					Usage: "samples per pixel",
				},
				cli.IntFlag{
					Name:  "depth",
					Usage: "maximum number of bounces per path",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "render goroutines (default: number of CPUs)",
				},
				cli.IntFlag{
					Name:  "chunk",
					Usage: "pixels per work item",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 42,
					Usage: "seed for scene generation and sampling",
				},
				cli.StringFlag{
					Name:  "assets",
					Value: ".",
					Usage: "directory that image and mesh paths are relative to",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "output image (default: <scene name>.png)",
				},
			},
			Action: renderScene,
		},
		{
			Name:  "scenes",
			Usage: "list built-in scenes and the scene files found in a directory",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "dir",
					Value: "scenes",
					Usage: "directory to scan for *.json scene files",
				},
			},
			Action: listScenes,
		},
		{
			Name:      "describe",
			Usage:     "print a built-in scene as a JSON description",
			ArgsUsage: "[scene]",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene, s",
					Usage: "built-in scene name",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 42,
					Usage: "seed for randomly placed objects",
				},
			},
			Action: describeScene,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
