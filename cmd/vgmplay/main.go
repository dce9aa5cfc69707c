package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli"
	"github.com/valerio/go-vgmplay/vgmplay/chip/builtin"
)

func main() {
	app := cli.NewApp()
	app.Name = "vgmplay"
	app.Description = "A VGM player for Mega Drive / Genesis music logs"
	app.Usage = "vgmplay [options] <VGM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "chip",
			Usage: "Sound chip backend (see the chips command)",
			Value: builtin.Default,
		},
		cli.IntFlag{
			Name:  "rate",
			Usage: "Output sample rate in Hz",
			Value: 44100,
		},
		cli.IntFlag{
			Name:  "chunk",
			Usage: "Samples rendered per buffer call",
			Value: 735,
		},
		cli.Float64Flag{
			Name:  "volume",
			Usage: "Master volume (1.0 = 100%)",
			Value: 1.0,
		},
		cli.Float64Flag{
			Name:  "fm-volume",
			Usage: "FM/DAC volume relative to the master volume",
			Value: 1.0,
		},
		cli.Float64Flag{
			Name:  "psg-volume",
			Usage: "PSG volume relative to the master volume",
			Value: 1.0,
		},
		cli.IntFlag{
			Name:  "loops",
			Usage: "Stop after the stream looped N times (0 = loop forever)",
			Value: 0,
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Render without the terminal interface or audio device",
		},
		cli.IntFlag{
			Name:  "chunks",
			Usage: "Number of chunks to render in headless mode (0 = until the stream ends)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "Write the rendered audio to a WAV file (implies --headless)",
		},
		cli.StringSliceFlag{
			Name:  "mute",
			Usage: "Mute a channel at startup, e.g. --mute PSG1 --mute DAC",
		},
		cli.BoolFlag{
			Name:  "trace",
			Usage: "Log every executed command (implies --debug)",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
	app.Action = runPlayer
	app.Commands = []cli.Command{
		{
			Name:      "info",
			Usage:     "Print the header and GD3 tag of a VGM file",
			ArgsUsage: "<VGM file>",
			Action:    runInfo,
		},
		{
			Name:   "chips",
			Usage:  "List the available sound chip backends",
			Action: runChips,
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running player", "error", err)
		os.Exit(1)
	}
}
