package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/kestrelcore/goadv/goadv"
	"github.com/kestrelcore/goadv/goadv/backend"
	"github.com/kestrelcore/goadv/goadv/backend/headless"
	"github.com/kestrelcore/goadv/goadv/backend/sdl2"
	"github.com/kestrelcore/goadv/goadv/backend/terminal"
)

func main() {
	app := cli.NewApp()
	app.Name = "goadv"
	app.Description = "A Game Boy Advance emulator core"
	app.Usage = "goadv [options] <ROM file>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "bios",
			Usage: "Path to the GBA BIOS image",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Rendering backend: terminal, sdl2",
			Value: "terminal",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a graphical interface",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window pixel scale",
			Value: 3,
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("goadv exited with error", "error", err)
		var exitErr exitCode
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr))
		}
		os.Exit(1)
	}
}

// exitCode lets subcommands request a specific process exit status while
// still returning a normal Go error up through urfave/cli (§6/§7).
type exitCode int

func (e exitCode) Error() string { return "exit" }

func run(c *cli.Context) error {
	romPath := c.Args().Get(0)
	if romPath == "" {
		cli.ShowAppHelp(c)
		return errors.New("no ROM path provided")
	}

	biosPath := c.String("bios")
	if biosPath == "" {
		return exitCode(255) // missing required arg, per §6's -1 convention
	}

	emu, err := goadv.NewWithFiles(biosPath, romPath)
	if err != nil {
		return exitCode(1)
	}

	if c.Bool("headless") {
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("headless mode requires --frames with a positive value")
		}
		return runWithBackend(emu, headless.New(), backend.Config{}, frames)
	}

	scale := c.Int("scale")
	var b backend.Backend
	switch c.String("backend") {
	case "sdl2":
		b = sdl2.New()
	default:
		b = terminal.New()
	}

	return runWithBackend(emu, b, backend.Config{Title: "goadv", Scale: scale}, 0)
}

// runWithBackend drives the emulator through its backend until the backend
// closes (or, if maxFrames is positive, until that many frames complete).
func runWithBackend(emu *goadv.Emulator, b backend.Backend, config backend.Config, maxFrames int) error {
	if err := b.Init(config); err != nil {
		return err
	}
	defer b.Cleanup()

	frame := 0
	for b.Running() {
		emu.RunFrame()

		events, err := b.Update(emu.FrameBuffer())
		if err != nil {
			return err
		}
		for _, ev := range events {
			if ev.Pressed {
				emu.PressKey(ev.Key)
			} else {
				emu.ReleaseKey(ev.Key)
			}
		}

		frame++
		if maxFrames > 0 && frame >= maxFrames {
			break
		}
	}

	return nil
}
