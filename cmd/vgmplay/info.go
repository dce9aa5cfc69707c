package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli"
	"github.com/valerio/go-vgmplay/vgmplay/chip/builtin"
	"github.com/valerio/go-vgmplay/vgmplay/loader"
	"github.com/valerio/go-vgmplay/vgmplay/vgm"
)

// vgmSampleRate is the rate every VGM wait is expressed in.
const vgmSampleRate = 44100

func runInfo(c *cli.Context) error {
	if c.NArg() == 0 {
		cli.ShowCommandHelp(c, "info")
		return errors.New("no VGM path provided")
	}
	return printInfo(c.App.Writer, loader.NewOS(), c.Args().First())
}

func runChips(c *cli.Context) error {
	printChips(c.App.Writer)
	return nil
}

// printInfo writes the header fields, length and GD3 tag of path.
func printInfo(w io.Writer, src *loader.Loader, path string) error {
	data, err := src.Load(path)
	if err != nil {
		return err
	}
	s, err := vgm.Parse(data)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	length, lengthErr := vgm.MeasureLength(s)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File:\t%s\n", path)
	fmt.Fprintf(tw, "Version:\t%X.%02X\n", s.Version>>8, s.Version&0xFF)
	fmt.Fprintf(tw, "Data:\t0x%X-0x%X\n", s.DataStart, s.StreamEnd)
	if s.Loops() {
		fmt.Fprintf(tw, "Loop:\t0x%X\n", s.LoopAddress)
	} else {
		fmt.Fprintf(tw, "Loop:\tnone\n")
	}
	fmt.Fprintf(tw, "PSG clock:\t%d Hz\n", s.PSGClock&psgClockMask)
	fmt.Fprintf(tw, "FM clock:\t%d Hz\n", s.FMClock)
	fmt.Fprintf(tw, "Length:\t%s\n", samplesToDuration(length.Total))
	if length.Loop > 0 {
		fmt.Fprintf(tw, "Loop length:\t%s\n", samplesToDuration(length.Loop))
	}
	if lengthErr != nil {
		fmt.Fprintf(tw, "Decode error:\t%v\n", lengthErr)
	}

	if tag := s.Tag; tag != nil {
		for _, field := range []struct{ name, value string }{
			{"Track", tag.Track},
			{"Game", tag.Game},
			{"System", tag.System},
			{"Author", tag.Author},
			{"Date", tag.Date},
			{"Ripped by", tag.RippedBy},
			{"Notes", tag.Notes},
		} {
			if field.value != "" {
				fmt.Fprintf(tw, "%s:\t%s\n", field.name, field.value)
			}
		}
	}
	return tw.Flush()
}

func samplesToDuration(samples uint64) time.Duration {
	d := time.Duration(samples * uint64(time.Second) / vgmSampleRate)
	return d.Round(10 * time.Millisecond)
}

// printChips lists the registered backends, marking the default.
func printChips(w io.Writer) {
	for _, name := range builtin.Registry().Names() {
		if name == builtin.Default {
			fmt.Fprintf(w, "%s (default)\n", name)
			continue
		}
		fmt.Fprintln(w, name)
	}
}
