// Command petsound renders PET CB2 sound tunes to WAV or the audio device.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	petsound "github.com/user-none/go-chip-petsound"
	"github.com/user-none/go-chip-petsound/internal/tune"
	"github.com/user-none/go-chip-petsound/soundchip"
	"github.com/user-none/go-chip-petsound/wavout"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "petsound: %v\n", err)
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func run(args []string, stdout io.Writer, stderr *os.File) error {
	fs := flag.NewFlagSet("petsound", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: petsound [flags] tune.yml")
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "YAML config `file`")
	output := fs.String("o", "", "write WAV to `file`")
	playback := fs.Bool("play", false, "play through the default audio device")
	rate := fs.Int("rate", 0, "host sample rate in Hz")
	cycles := fs.Int("cycles", 0, "machine clock in Hz")
	channels := fs.Int("channels", 0, "output channels (1 or 2)")
	dump := fs.Bool("dump", false, "print chip state after rendering")
	verbose := fs.Bool("v", false, "log every register write")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected one tune file")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	tn, err := tune.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	if tn.SampleRate > 0 {
		cfg.SampleRate = tn.SampleRate
	}
	if tn.CyclesPerSecond > 0 {
		cfg.CyclesPerSecond = tn.CyclesPerSecond
	}

	// flags win over the config file and the tune
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			cfg.Output = *output
		case "play":
			cfg.Play = *playback
		case "rate":
			cfg.SampleRate = *rate
		case "cycles":
			cfg.CyclesPerSecond = *cycles
		case "channels":
			cfg.Channels = *channels
		case "v":
			if *verbose {
				cfg.LogLevel = "debug"
			}
		}
	})
	if err := cfg.validate(); err != nil {
		return err
	}

	level, _ := cfg.level()
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	reg := soundchip.NewRegistry()
	chip := petsound.New(cfg.SampleRate, cfg.CyclesPerSecond)
	base := reg.Register(chip, petsound.NumRegisters)
	if err := reg.Open(cfg.SampleRate, cfg.CyclesPerSecond); err != nil {
		return err
	}

	slog.Info("rendering", "tune", fs.Arg(0), "frames", tn.Frames,
		"sample_rate", cfg.SampleRate, "cycles_per_second", cfg.CyclesPerSecond, "channels", cfg.Channels)

	var progress func(int)
	if isTerminal(stderr) && level > slog.LevelDebug {
		bar := progressbar.NewOptions64(int64(tn.Frames),
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("rendering"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
		progress = func(n int) {
			bar.Add(n)
		}
	}
	pcm := tn.Render(reg, base, cfg.Channels, progress)

	if cfg.Output != "" {
		if err := writeWAV(cfg.Output, pcm, cfg.SampleRate, cfg.Channels); err != nil {
			return err
		}
		slog.Info("wrote audio", "path", cfg.Output, "frames", tn.Frames)
	}

	if *dump {
		fmt.Fprint(stdout, dumpState(chip, newStyles(isTerminal(os.Stdout) && stdout == os.Stdout)))
	}

	if cfg.Play {
		if err := play(pcm, cfg.SampleRate, cfg.Channels); err != nil {
			return err
		}
	}

	if cfg.Output == "" && !cfg.Play && !*dump {
		slog.Warn("nothing to do with rendered audio, use -o, -play or -dump")
	}
	return nil
}

func writeWAV(filename string, pcm []int16, sampleRate int, channels int) error {
	w, err := wavout.Create(filename, sampleRate, channels)
	if err != nil {
		return err
	}
	if err := w.Write(pcm); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
