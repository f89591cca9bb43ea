// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package main implements the wordcheck spell checker CLI and IPC server.
//
// wordcheck loads a length-bucketed dictionary and, for every word it is given,
// either confirms it or lists the closest dictionary words within a small edit
// budget.
//
// # Usage
//
// Check words given as arguments:
//
//	wordcheck teh quick brwn fox
//	❓ teh => the
//	✅ quick
//	❓ brwn => brown
//	✅ fox
//
// Show every suggestion instead of the first ten:
//
//	wordcheck --full teh
//
// Check free text interactively:
//
//	wordcheck repl
//
// Serve msgpack requests on stdin/stdout for editors:
//
//	wordcheck serve
//
// Build a bucketed dictionary from plain word lists:
//
//	wordcheck fix -o words.txt 'lists/**/*.lst'
//
// # Dictionary
//
// The dictionary file lists each word length once, followed by a line with all
// words of that length concatenated in sorted order:
//
//	3
//	foxthe
//	5
//	brownquick
//
// --format wordlist reads one word per line instead. Relative paths are looked
// up next to the executable, in its data/ dir and in the config dir.
//
// # Configuration
//
// Settings are read from config.toml in the user config dir (created with
// defaults when missing) or from --config. Flags override the file. In serve
// mode the file is watched and max_dif, max_limit and max_batch are applied
// without a restart.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordcheck/internal/logger"
	"github.com/urfave/cli/v2"
)

const (
	Version = "0.3.0"
	AppName = "wordcheck"
	gh      = "https://github.com/bastiangx/wordcheck"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func main() {
	cli.VersionPrinter = func(c *cli.Context) {
		banner := logger.Banner(c.App.ErrWriter)
		banner.Print("")
		banner.Print("[ wordcheck ] Fast spelling suggestions")
		banner.Print("", "version", c.App.Version)
		banner.Print("")
		banner.Print("use -h or --help to see available options")
		banner.Print("Github Repo", "gh", gh)
	}

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		var exitErr cli.ExitCoder
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		}
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   AppName,
		Usage:                  "check spelling against a length-bucketed dictionary",
		UsageText:              "wordcheck [options] word...\nwordcheck [options] command [command options]",
		Version:                Version,
		UseShortOptionHandling: true,
		Writer:                 os.Stdout,
		ErrWriter:              os.Stderr,
		Flags:                  globalFlags(),
		Before: func(c *cli.Context) error {
			logger.Setup(os.Stderr, c.Bool("debug"))
			return nil
		},
		Action: func(c *cli.Context) error {
			sigHandler()
			if c.NArg() == 0 {
				return runREPL(c)
			}
			return runCheck(c)
		},
		Commands: []*cli.Command{
			{
				Name:    "repl",
				Aliases: []string{"r"},
				Usage:   "Check free text line by line",
				Action: func(c *cli.Context) error {
					sigHandler()
					return runREPL(c)
				},
			},
			{
				Name:    "serve",
				Aliases: []string{"s"},
				Usage:   "Serve msgpack requests on stdin/stdout",
				Action:  runServe,
			},
			{
				Name:      "fix",
				Usage:     "Build a bucketed dictionary from word lists",
				ArgsUsage: "pattern...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the dictionary to `FILE` instead of stdout",
					},
				},
				Action: runFix,
			},
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "Toggle debug logging",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file `PATH`",
		},
		&cli.StringFlag{
			Name:  "dict",
			Usage: "Dictionary `FILE` (default from config)",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Dictionary format: auto, bucketed or wordlist",
		},
		&cli.IntFlag{
			Name:    "max-dif",
			Aliases: []string{"m"},
			Usage:   "Largest length difference and substitution count allowed",
			Value:   -1,
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Usage:   "Number of suggestions to print (default from config)",
			Value:   -1,
		},
		&cli.BoolFlag{
			Name:    "full",
			Aliases: []string{"f"},
			Usage:   "Print every suggestion",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "Goroutines used per query (0 uses GOMAXPROCS)",
			Value:   -1,
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored output",
		},
	}
}
