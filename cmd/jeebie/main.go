package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"
	"github.com/valerio/jeebie-ppu/jeebie/addr"
	"github.com/valerio/jeebie-ppu/jeebie/debug"
	"github.com/valerio/jeebie-ppu/jeebie/memory"
	"github.com/valerio/jeebie-ppu/jeebie/render"
	"github.com/valerio/jeebie-ppu/jeebie/state"
	"github.com/valerio/jeebie-ppu/jeebie/timing"
	"github.com/valerio/jeebie-ppu/jeebie/video"
)

func main() {
	app := cli.NewApp()
	app.Name = "Jeebie"
	app.Description = "Renders Game Boy frames from a video memory dump through a dot-accurate pixel pipeline"
	app.Usage = "jeebie [options] [memory dump]"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "dump",
			Usage: "Path to a 64 KiB address space dump (VRAM, OAM and I/O registers are used)",
		},
		cli.StringFlag{
			Name:  "bank1",
			Usage: "Path to an 8 KiB dump of VRAM bank 1 (CGB only)",
		},
		cli.StringFlag{
			Name:  "palettes",
			Usage: "Path to a 128 byte dump of BG and OBJ color palette RAM (CGB only)",
		},
		cli.StringFlag{
			Name:  "model",
			Usage: "Hardware model: dmg or cgb",
			Value: "dmg",
		},
		cli.StringFlag{
			Name:  "pattern",
			Usage: "Test pattern to draw when no dump is given: checkerboard, stripes, diagonal or sprites",
			Value: render.PatternSprites.String(),
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run",
			Value: 1,
		},
		cli.IntFlag{
			Name:  "sprite-penalty",
			Usage: "Dots each selected sprite adds to the transfer phase estimate",
			Value: video.DefaultSpritePenalty,
		},
		cli.StringFlag{
			Name:  "png",
			Usage: "Write the last frame as a PNG image",
		},
		cli.StringFlag{
			Name:  "snapshot",
			Usage: "Write the last frame as a text snapshot",
		},
		cli.StringFlag{
			Name:  "layers",
			Usage: "Directory to write full background and window tile map images to",
		},
		cli.StringFlag{
			Name:  "save-state",
			Usage: "Write the video state after the last frame",
		},
		cli.IntFlag{
			Name:  "oam-line",
			Usage: "Print the sprites OAM search selects for this scanline",
			Value: -1,
		},
		cli.BoolFlag{
			Name:  "realtime",
			Usage: "Pace the frame loop at the hardware frame rate",
		},
		cli.BoolFlag{
			Name:  "view",
			Usage: "Show frames in the terminal instead of running a fixed number of frames",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
	app.Action = run

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running jeebie", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	setupLogging(c.Bool("debug"))

	model, err := parseModel(c.String("model"))
	if err != nil {
		return err
	}

	mmu := memory.New()
	if model == video.ModelCGB {
		mmu = memory.NewCGB()
	}

	dumpPath := c.String("dump")
	if dumpPath == "" && c.NArg() > 0 {
		dumpPath = c.Args().First()
	}

	animate := func(int) {}
	if dumpPath != "" {
		if err := loadDumps(mmu, dumpPath, c.String("bank1"), c.String("palettes")); err != nil {
			return err
		}
	} else {
		pattern, err := render.ParsePattern(c.String("pattern"))
		if err != nil {
			return err
		}
		slog.Info("No dump given, drawing test pattern", "pattern", pattern)
		render.LoadTestPattern(mmu, pattern)
		animate = func(frame int) { render.AnimateTestPattern(mmu, pattern, frame) }
	}

	config := video.DefaultConfig(model)
	config.SpritePenalty = c.Int("sprite-penalty")
	config.Logger = slog.Default()
	gpu := video.NewGpu(mmu, config)

	if c.Bool("view") {
		viewer, err := render.NewTerminalViewer(gpu, slog.Default())
		if err != nil {
			return err
		}
		viewer.OnFrame = func(frame uint64) { animate(int(frame)) }
		err = viewer.Run(context.Background())
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	frames := c.Int("frames")
	if frames <= 0 {
		return errors.New("--frames must be a positive number")
	}

	limiter := timing.NewNoOpLimiter()
	if c.Bool("realtime") {
		ticker := timing.NewTickerLimiter()
		defer ticker.Stop()
		limiter = ticker
	}
	runFrames(gpu, frames, limiter, animate)

	if gpu.Frames() == 0 {
		slog.Warn("LCD is off, no frame was presented", "lcdc", fmt.Sprintf("0x%02X", mmu.Read(addr.LCDC)))
	}

	fb := gpu.GetFrameBuffer()
	fmt.Printf("%016x\n", fb.Checksum())

	return writeOutputs(c, gpu, mmu, config)
}

// runFrames produces frames one at a time, waiting on the limiter before each.
func runFrames(gpu *video.GPU, frames int, limiter timing.Limiter, animate func(int)) {
	for i := range frames {
		limiter.WaitForNextFrame()
		animate(i)
		gpu.RunFrame()
		if i%10 == 0 {
			slog.Debug("Frame progress", "completed", i+1, "total", frames, "mode3_dots", gpu.Mode3Dots())
		}
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func parseModel(name string) (video.Model, error) {
	switch name {
	case "dmg", "":
		return video.ModelDMG, nil
	case "cgb":
		return video.ModelCGB, nil
	default:
		return 0, fmt.Errorf("unknown model %q, expected dmg or cgb", name)
	}
}

func loadDumps(mmu *memory.MMU, dumpPath, bank1Path, palettesPath string) error {
	data, err := os.ReadFile(dumpPath)
	if err != nil {
		return fmt.Errorf("failed to read dump: %w", err)
	}
	if err := mmu.LoadDump(data); err != nil {
		return fmt.Errorf("loading %s: %w", dumpPath, err)
	}
	slog.Info("Loaded memory dump", "path", dumpPath, "cgb", mmu.IsCGB())

	if bank1Path != "" {
		data, err := os.ReadFile(bank1Path)
		if err != nil {
			return fmt.Errorf("failed to read VRAM bank 1: %w", err)
		}
		if err := mmu.LoadBank1(data); err != nil {
			return fmt.Errorf("loading %s: %w", bank1Path, err)
		}
	}

	if palettesPath != "" {
		data, err := os.ReadFile(palettesPath)
		if err != nil {
			return fmt.Errorf("failed to read palette RAM: %w", err)
		}
		if err := mmu.LoadPaletteRAM(data); err != nil {
			return fmt.Errorf("loading %s: %w", palettesPath, err)
		}
	}
	return nil
}

func writeOutputs(c *cli.Context, gpu *video.GPU, mmu *memory.MMU, config video.Config) error {
	fb := gpu.GetFrameBuffer()

	if path := c.String("png"); path != "" {
		if err := saveFramePNG(fb.ToSlice(), video.FramebufferWidth, video.FramebufferHeight, path); err != nil {
			return err
		}
		slog.Info("Saved frame image", "path", path)
	}

	if path := c.String("snapshot"); path != "" {
		if err := saveFrameSnapshot(fb, gpu.Frames(), path); err != nil {
			return err
		}
		slog.Info("Saved frame snapshot", "path", path)
	}

	if dir := c.String("layers"); dir != "" {
		layers := video.NewRenderLayers(config)
		layers.Capture(mmu)
		if err := saveLayers(layers, dir); err != nil {
			return err
		}
		slog.Info("Saved tile map layers", "dir", dir)
	}

	if line := c.Int("oam-line"); line >= 0 {
		if line >= video.FramebufferHeight {
			return fmt.Errorf("--oam-line must be below %d", video.FramebufferHeight)
		}
		fmt.Print(debug.ExtractOAMData(mmu, config, line).Report())
	}

	if path := c.String("save-state"); path != "" {
		s := state.New()
		gpu.Save(s)
		if err := os.WriteFile(path, s.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write state: %w", err)
		}
		slog.Info("Saved video state", "path", path, "bytes", len(s.Bytes()))
	}
	return nil
}
