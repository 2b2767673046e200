package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lumipallolabs/dupedive/internal/config"
	"github.com/lumipallolabs/dupedive/internal/core"
	"github.com/lumipallolabs/dupedive/internal/logging"
	"github.com/lumipallolabs/dupedive/internal/report"
	"github.com/lumipallolabs/dupedive/internal/ui"
	"github.com/urfave/cli/v2"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Enable CPU profiling if CPUPROFILE env var is set
	if cpuProfile := os.Getenv("CPUPROFILE"); cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", cpuProfile)
	}

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "dupedive",
		Usage:     "find and remove duplicate files",
		UsageText: "dupedive [flags] DIRECTORY",
		Version:   version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML config file (default: " + config.DefaultFile() + ")",
			},
			&cli.StringFlag{
				Name:  "algo",
				Usage: "content digest: blake3, sha256, sha1, md5 or xxhash",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "directories walked in parallel",
			},
			&cli.IntFlag{
				Name:  "hash-workers",
				Usage: "files hashed in parallel",
			},
			&cli.StringFlag{
				Name:  "min-size",
				Usage: "ignore files smaller than this (e.g. 4K, 1.5MB)",
			},
			&cli.StringFlag{
				Name:  "max-size",
				Usage: "ignore files larger than this, 0 for no limit",
			},
			&cli.StringFlag{
				Name:  "keep",
				Usage: "copy kept by delete-all: first, oldest, newest or shortest",
			},
			&cli.Float64Flag{
				Name:  "rate",
				Usage: "files opened per second while hashing, 0 for no limit",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "report what would be deleted without removing anything",
			},
			&cli.BoolFlag{
				Name:  "no-tui",
				Usage: "scan, print a summary and exit",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "write a JSON report to `FILE` (- for stdout), implies --no-tui",
			},
			&cli.BoolFlag{
				Name:  "delete-all",
				Usage: "delete all but one copy in every group, implies --no-tui",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		_ = cli.ShowAppHelp(c)
		return fmt.Errorf("expected exactly one DIRECTORY")
	}
	dir := c.Args().First()
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("'%s' is not a valid directory", dir)
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if err := applyFlags(c, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctrl, err := core.NewController(dir, cfg.CoreOptions())
	if err != nil {
		return err
	}
	defer ctrl.Stop()

	if c.Bool("no-tui") || c.Bool("delete-all") || c.IsSet("report") {
		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
		defer stop()

		_, err := report.Run(ctx, ctrl, report.Options{
			Out:          c.App.Writer,
			Progress:     c.App.ErrWriter,
			ShowProgress: true,
			JSONPath:     c.String("report"),
			DeleteAll:    c.Bool("delete-all"),
			Keep:         cfg.KeepPolicy(),
		})
		return err
	}

	logging.Debug.WithField("root", ctrl.Root()).Info("starting TUI")
	p := tea.NewProgram(
		ui.NewApp(ctrl, ui.Options{Version: version, Keep: cfg.KeepPolicy()}),
		tea.WithAltScreen(),
	)
	_, err = p.Run()
	return err
}

// applyFlags overrides cfg with the flags given on the command line
func applyFlags(c *cli.Context, cfg *config.Config) error {
	if c.IsSet("algo") {
		cfg.Algorithm = c.String("algo")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("hash-workers") {
		cfg.HashWorkers = c.Int("hash-workers")
	}
	for name, dst := range map[string]*config.ByteSize{
		"min-size": &cfg.MinSize,
		"max-size": &cfg.MaxSize,
	} {
		if !c.IsSet(name) {
			continue
		}
		v, err := config.ParseByteSize(c.String(name))
		if err != nil {
			return fmt.Errorf("--%s: %w", name, err)
		}
		*dst = v
	}
	if c.IsSet("keep") {
		cfg.Keep = c.String("keep")
	}
	if c.IsSet("rate") {
		cfg.RateLimit = c.Float64("rate")
	}
	if c.IsSet("dry-run") {
		cfg.DryRun = c.Bool("dry-run")
	}
	return nil
}
