package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	wcli "github.com/bastiangx/wordcheck/internal/cli"
	"github.com/bastiangx/wordcheck/internal/logger"
	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/config"
	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/server"
	"github.com/bastiangx/wordcheck/pkg/suggest"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

// session is everything a command needs after flags and config are merged.
type session struct {
	cfg        *config.Config
	configPath string
	loader     *dictionary.RuntimeLoader
	checker    *suggest.Checker
	printer    *wcli.Printer
	limit      int
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(c *cli.Context) (*config.Config, string) {
	cfg, configPath, err := config.LoadConfigWithPriority(c.String("config"))
	if err != nil {
		log.Warnf("Using builtin config: %v", err)
		cfg = config.DefaultConfig()
	}
	if v := c.Int("max-dif"); v >= 0 {
		cfg.Checker.MaxDif = v
	}
	if v := c.Int("workers"); v >= 0 {
		cfg.Checker.Workers = v
	}
	if v := c.String("dict"); v != "" {
		cfg.Dict.Path = v
	}
	if v := c.String("format"); v != "" {
		cfg.Dict.Format = v
	}
	if c.Bool("no-color") {
		cfg.CLI.Color = false
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(configPath))
	return cfg, configPath
}

// openSession loads the config and the dictionary. Load failures are
// reported on stderr and turned into exit code 1.
func openSession(c *cli.Context) (*session, error) {
	cfg, configPath := loadConfig(c)

	format, err := dictionary.ParseFormat(cfg.Dict.Format)
	if err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}

	resolver, err := utils.NewPathResolver()
	if err != nil {
		log.Warnf("Failed to initialize path resolver: %v", err)
	}
	dictPath := cfg.Dict.Path
	if resolver != nil {
		dictPath = resolver.FindDictionary(cfg.Dict.Path)
	}

	start := time.Now()
	loader := dictionary.NewRuntimeLoader(dictPath, format, cfg.Dict.MaxWordLen)
	d, err := loader.Load()
	if err != nil {
		return nil, loadFailure(resolver, cfg.Dict.Path, err)
	}
	elapsed := time.Since(start)

	opts := []suggest.Option{
		suggest.WithMaxDif(cfg.Checker.MaxDif),
		suggest.WithParallelThreshold(cfg.Checker.ParallelThreshold),
		suggest.WithChunkRecords(cfg.Checker.ChunkRecords),
		suggest.WithMaxWordLen(cfg.Dict.MaxWordLen),
	}
	if cfg.Checker.Workers > 0 {
		opts = append(opts, suggest.WithWorkers(cfg.Checker.Workers))
	}

	s := &session{
		cfg:        cfg,
		configPath: configPath,
		loader:     loader,
		checker:    suggest.NewWithDictionary(d, opts...),
		printer:    wcli.NewPrinter(c.App.Writer, cfg.CLI.Color),
		limit:      cfg.CLI.DefaultLimit,
	}
	if v := c.Int("limit"); v >= 0 {
		s.limit = v
	}
	if c.Bool("full") {
		s.limit = 0
	}

	if log.GetLevel() <= log.DebugLevel {
		wcli.NewPrinter(c.App.ErrWriter, cfg.CLI.Color).Stats(dictPath, d.Stats(), elapsed)
	}
	return s, nil
}

// loadFailure prints what went wrong with the dictionary and where it was
// looked for.
func loadFailure(resolver *utils.PathResolver, path string, err error) error {
	log.Errorf("Failed to load dictionary: %v", err)
	if errors.Is(err, fs.ErrNotExist) {
		log.Print("Pass --dict or set dict.path in config.toml")
		log.Print("Did you forget to run the build or install scripts?")
		if resolver != nil {
			log.Debug("Path diagnostics", "info", resolver.DiagnosePathIssues(path))
		}
	}
	return cli.Exit("", 1)
}

// runCheck prints one verdict per argument, in argument order.
func runCheck(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}

	words := c.Args().Slice()
	for _, r := range s.checker.BatchSuggestParallel(words, s.limit) {
		s.printer.Result(r.Word, s.checker.Check(r.Word), r.Suggestions)
	}
	return nil
}

func runREPL(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	log.SetReportTimestamp(false)
	log.Debug("Input info:", "limit", s.limit, "maxDif", s.checker.MaxDif(), "workers", s.checker.Workers())

	inputHandler := wcli.NewInputHandler(s.checker, s.printer, s.limit)
	if err := inputHandler.Start(os.Stdin); err != nil {
		return fmt.Errorf("cli: %w", err)
	}
	return nil
}

func runServe(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	checker := suggest.NewCached(s.checker, s.cfg.Server.CacheSize)
	srv := server.NewServer(checker, s.loader, s.cfg, s.configPath)
	srv.SetVersion(Version)

	showStartupInfo(s.loader.Path(), checker.Dictionary().Words())
	if err := srv.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// showStartupInfo logs basic info about the init process to stderr.
func showStartupInfo(dictPath string, words int) {
	log.Debugf("Version: %s", Version)
	log.Debugf("Process ID: [ %d ]", os.Getpid())
	log.Debugf("dictionary: ( %s, %s words )", dictPath, humanize.Comma(int64(words)))
	log.Debug("status: ready")
}

// runFix merges every word list matching the patterns into one bucketed
// dictionary.
func runFix(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("fix needs at least one word list pattern", 1)
	}

	l := logger.New("fix")

	var words []string
	files := 0
	for _, pattern := range c.Args().Slice() {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return cli.Exit(fmt.Sprintf("bad pattern %q: %v", pattern, err), 1)
		}
		if len(matches) == 0 {
			l.Warnf("No files match %q", pattern)
		}
		for _, path := range matches {
			list, err := readWordList(path)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			l.Debugf("Read %s words from %s", humanize.Comma(int64(len(list))), path)
			words = append(words, list...)
			files++
		}
	}

	d, err := dictionary.FromWords(words)
	if err != nil {
		return cli.Exit(fmt.Sprintf("build dictionary: %v", err), 1)
	}

	var out io.Writer = c.App.Writer
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		defer f.Close()
		out = f
	}
	n, err := d.WriteTo(out)
	if err != nil {
		return cli.Exit(fmt.Sprintf("write dictionary: %v", err), 1)
	}

	l.Printf("%s words from %d files (%s input lines), %s written",
		humanize.Comma(int64(d.Words())), files, humanize.Comma(int64(len(words))), humanize.Bytes(uint64(n)))
	return nil
}

func readWordList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	words, err := dictionary.ReadWordList(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return words, nil
}
