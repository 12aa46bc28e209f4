package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-weekend-raytracer/pkg/loaders"
	"github.com/df07/go-weekend-raytracer/pkg/log"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

var logger = log.New("weekend")

func setupLogging(ctx *cli.Context) error {
	if name := ctx.GlobalString("log-level"); name != "" {
		level, err := log.ParseLevel(name)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", name, err)
		}
		log.SetLevel(level)
		return nil
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
	return nil
}

// loadDescription prefers a scene file over a built-in name
func loadDescription(name, file string, seed int64) (*scene.Description, error) {
	switch {
	case file != "":
		return scene.LoadDescription(file)
	case name != "":
		return scene.Builtin(name, seed)
	default:
		return nil, errors.New("no scene selected: use --scene or --file")
	}
}

// overrides holds the render flags the user actually set; zero means keep the scene's value
type overrides struct {
	width           int
	aspectRatio     float64
	samplesPerPixel int
	maxDepth        int
	workers         int
	chunkSize       int
	seed            int64
}

func overridesFromContext(ctx *cli.Context) overrides {
	o := overrides{seed: ctx.Int64("seed")}
	if ctx.IsSet("width") {
		o.width = ctx.Int("width")
	}
	if ctx.IsSet("aspect") {
		o.aspectRatio = ctx.Float64("aspect")
	}
	if ctx.IsSet("spp") {
		o.samplesPerPixel = ctx.Int("spp")
	}
	if ctx.IsSet("depth") {
		o.maxDepth = ctx.Int("depth")
	}
	if ctx.IsSet("workers") {
		o.workers = ctx.Int("workers")
	}
	if ctx.IsSet("chunk") {
		o.chunkSize = ctx.Int("chunk")
	}
	return o
}

func (o overrides) apply(s *scene.Scene) {
	if o.width > 0 || o.aspectRatio > 0 {
		width := s.Config.Width
		if o.width > 0 {
			width = o.width
		}
		s.SetImageSize(width, o.aspectRatio)
	}
	if o.samplesPerPixel > 0 {
		s.Config.SamplesPerPixel = o.samplesPerPixel
	}
	if o.maxDepth > 0 {
		s.Config.MaxDepth = o.maxDepth
	}
	if o.workers > 0 {
		s.Config.NumWorkers = o.workers
	}
	if o.chunkSize > 0 {
		s.Config.ChunkSize = o.chunkSize
	}
	s.Config.Seed = o.seed
}

func outputPath(out string, desc *scene.Description) string {
	if out != "" {
		return out
	}
	if desc.Name != "" {
		return desc.Name + ".png"
	}
	return "render.png"
}

// Render a scene to an image file.
func renderScene(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	seed := ctx.Int64("seed")
	desc, err := loadDescription(ctx.String("scene"), ctx.String("file"), seed)
	if err != nil {
		return err
	}

	s, err := scene.Build(desc, scene.BuildOptions{AssetDir: ctx.String("assets"), Seed: seed})
	if err != nil {
		return fmt.Errorf("building scene: %w", err)
	}
	overridesFromContext(ctx).apply(s)

	var host *renderer.HostInfo
	if info, err := renderer.DescribeHost(); err != nil {
		logger.Warningf("could not describe host: %v", err)
	} else {
		host = &info
		logger.Infof("host: %s", info)
	}

	raytracer := s.NewRaytracer(log.New("renderer"))
	config := raytracer.Config()
	logger.Noticef("rendering %s at %dx%d, %d spp, depth %d on %d workers",
		s.Name, config.Width, config.Height, config.SamplesPerPixel, config.MaxDepth, config.NumWorkers)
	framebuffer, stats := raytracer.Render()
	stats.Host = host
	logger.Noticef("render statistics\n%s", stats.Table())

	img := framebuffer.ToneMap()
	logger.Infof("average luminance %.3f", renderer.AverageLuminance(img))
	return loaders.SaveImage(outputPath(ctx.String("out"), desc), img)
}

// List the built-in scenes and the scene files in a directory.
func listScenes(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	scenes, err := scene.ListScenes(ctx.String("dir"))
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Name", "Title", "Type", "Summary"})
	for _, info := range scenes {
		summary := info.Summary
		switch {
		case info.FilePath != "" && summary != "":
			summary = fmt.Sprintf("%s (%s)", summary, info.FilePath)
		case info.FilePath != "":
			summary = info.FilePath
		}
		table.Append([]string{info.Name, info.Title, info.Type, summary})
	}
	table.Render()
	return nil
}

// Print a built-in scene as JSON.
func describeScene(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	name := ctx.String("scene")
	if name == "" {
		name = ctx.Args().First()
	}
	if name == "" {
		return errors.New("missing scene name")
	}

	desc, err := scene.Builtin(name, ctx.Int64("seed"))
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	_, err = fmt.Fprintln(ctx.App.Writer, string(data))
	return err
}
