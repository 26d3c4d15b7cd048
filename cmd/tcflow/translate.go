package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/boyter/gocodewalker"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jcourt/tcflow"
	"github.com/jcourt/tcflow/reporter"
	"github.com/jcourt/tcflow/stream"
)

// Translate command errors.
var (
	ErrNoEventFiles = errors.New("no .jsonl event files found")
	ErrNoInput      = errors.New("no input files and stdin is a terminal")
)

func translateCommand() *cli.Command {
	return &cli.Command{
		Name:      "translate",
		Aliases:   []string{"tr"},
		Usage:     "Replay recorded event streams as TeamCity service messages",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-name",
				Aliases: []string{"c"},
				Usage:   "run configuration name prefixed to class names",
				Sources: cli.EnvVars("TCFLOW_CONFIG_NAME"),
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "write service messages to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "verbose logging",
			},
		},
		Action: runTranslate,
	}
}

func runTranslate(_ context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.Bool("verbose"))
	if err != nil {
		return err
	}

	defer func() {
		_ = logger.Sync()
	}()

	args := cmd.Args().Slice()

	var files []string

	useStdin := len(args) == 0
	if useStdin {
		if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			return ErrNoInput
		}
	} else {
		files, err = collectEventFiles(args)
		if err != nil {
			return err
		}

		if len(files) == 0 {
			return ErrNoEventFiles
		}
	}

	// Config: flag > .tcflow.yaml > defaults.
	configDir := "."
	if len(files) > 0 {
		configDir = filepath.Dir(files[0])
	}

	cfg, err := tcflow.LoadConfig(configDir)
	if errors.Is(err, tcflow.ErrConfigNotFound) {
		cfg = &tcflow.Config{}
	} else if err != nil {
		return err
	}

	configName := cfg.ConfigName
	if v := cmd.String("config-name"); v != "" {
		configName = v
	}

	outPath := cfg.Out
	if v := cmd.String("out"); v != "" {
		outPath = v
	}

	out := io.Writer(os.Stdout)

	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}

		defer func() {
			_ = f.Close()
		}()

		bw := bufio.NewWriter(f)

		defer func() {
			_ = bw.Flush()
		}()

		out = bw
	}

	stats := reporter.NewStats()
	rep := reporter.NewMulti(
		reporter.NewTeamCity(out, reporter.WithConfigName(configName)),
		stats,
	)

	if useStdin {
		if err := stream.Replay(os.Stdin, rep); err != nil {
			return err
		}
	} else {
		for _, file := range files {
			logger.Debug("replaying event stream", zap.String("file", file))

			if err := replayFile(file, rep); err != nil {
				return fmt.Errorf("replaying %s: %w", file, err)
			}
		}
	}

	logger.Info("run translated",
		zap.Int("cases", stats.Cases),
		zap.Int("failed", stats.Failed),
		zap.Int("ignored", stats.Ignored),
	)

	if !stats.Ok() {
		return cli.Exit("", 1)
	}

	return nil
}

func replayFile(path string, rep reporter.Reporter) error {
	f, err := os.Open(path) //nolint:gosec // G304: file path from user input is expected
	if err != nil {
		return err
	}

	defer func() {
		_ = f.Close()
	}()

	return stream.Replay(f, rep)
}

// collectEventFiles expands args into .jsonl files, walking directories.
func collectEventFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			files = append(files, arg)

			continue
		}

		fileListQueue := make(chan *gocodewalker.File, 100)

		fileWalker := gocodewalker.NewFileWalker(arg, fileListQueue)
		fileWalker.AllowListExtensions = []string{"jsonl"}

		var walkErr error

		fileWalker.SetErrorHandler(func(e error) bool {
			walkErr = e

			return true
		})

		var wg sync.WaitGroup

		wg.Add(1)

		go func() {
			defer wg.Done()

			for f := range fileListQueue {
				files = append(files, f.Location)
			}
		}()

		if err := fileWalker.Start(); err != nil {
			return nil, err
		}

		wg.Wait()

		if walkErr != nil {
			return nil, walkErr
		}
	}

	return files, nil
}

// newLogger builds a stderr logger; stdout carries the wire protocol.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return config.Build()
}
