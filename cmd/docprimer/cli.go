package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/docprimer"
	"github.com/fwojciec/docprimer/augment"
	"github.com/fwojciec/docprimer/clean"
	"github.com/fwojciec/docprimer/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Config    docprimer.Config
	Logger    *slog.Logger
	Crawler   *crawl.Crawler
	Cleaner   *clean.Cleaner
	Index     docprimer.IndexBuilder
	Augmenter docprimer.Augmenter
	Responder *augment.Responder
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" default:"docprimer.yaml" help:"Configuration file (YAML)"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Crawl  CrawlCmd  `cmd:"" help:"Crawl documentation sites into the corpus"`
	Clean  CleanCmd  `cmd:"" help:"Normalize every corpus document in place"`
	Index  IndexCmd  `cmd:"" help:"Build the knowledge-base index from the corpus"`
	Ask    AskCmd    `cmd:"" help:"Answer a question, falling back to live search"`
	Search SearchCmd `cmd:"" help:"Gather live search context for a query"`
}

// apply merges command flags into cfg. Zero values keep the file setting.
func (c *CLI) apply(cmd string, cfg *docprimer.Config) {
	switch cmd {
	case "crawl":
		if len(c.Crawl.Seeds) > 0 {
			cfg.Seeds = c.Crawl.Seeds
		}
		if c.Crawl.Scope != "" {
			cfg.ScopePattern = c.Crawl.Scope
		}
		if c.Crawl.Out != "" {
			cfg.CorpusDir = c.Crawl.Out
		}
		if c.Crawl.Concurrency > 0 {
			cfg.Concurrency = c.Crawl.Concurrency
		}
		if c.Crawl.MaxPages > 0 {
			cfg.MaxPages = c.Crawl.MaxPages
		}
		if c.Crawl.Timeout > 0 {
			cfg.FetchTimeout = c.Crawl.Timeout
		}
		cfg.Sitemap = cfg.Sitemap || c.Crawl.Sitemap
	case "clean":
		if c.Clean.Dir != "" {
			cfg.CorpusDir = c.Clean.Dir
		}
		if c.Clean.Workers > 0 {
			cfg.Workers = docprimer.ClampWorkers(c.Clean.Workers)
		}
	case "index":
		if c.Index.Dir != "" {
			cfg.CorpusDir = c.Index.Dir
		}
	case "ask":
		c.Ask.apply(cfg)
	case "search":
		c.Search.apply(cfg)
	}
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Seeds       []string      `arg:"" optional:"" help:"Seed URLs (default: seeds from config)"`
	Scope       string        `short:"s" help:"Regex a discovered URL must match from its start"`
	Out         string        `short:"o" help:"Corpus output directory"`
	Concurrency int           `short:"n" help:"Concurrent fetch limit across all seeds"`
	MaxPages    int           `short:"m" help:"Maximum pages visited per seed"`
	Timeout     time.Duration `help:"Per-page fetch timeout"`
	Sitemap     bool          `help:"Also queue in-scope URLs from each host's sitemap.xml"`
}

// CleanCmd is the "clean" subcommand.
type CleanCmd struct {
	Dir     string `arg:"" optional:"" help:"Corpus directory (default: corpus_dir from config)"`
	Workers int    `short:"w" help:"Worker pool size"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Dir string `arg:"" optional:"" help:"Corpus directory (default: corpus_dir from config)"`
}

// SearchFlags are the live search settings shared by ask and search.
type SearchFlags struct {
	Site   string `help:"Documentation domain used to scope the search"`
	TopN   int    `name:"top" help:"Number of search results to fetch"`
	Budget int    `help:"Maximum context length in characters"`
}

func (f *SearchFlags) apply(cfg *docprimer.Config) {
	if f.Site != "" {
		cfg.Site = f.Site
	}
	if f.TopN > 0 {
		cfg.TopN = f.TopN
	}
	if f.Budget > 0 {
		cfg.Budget = f.Budget
	}
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask about the documentation"`

	SearchFlags `embed:""`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string `arg:"" help:"Search query"`

	SearchFlags `embed:""`
}
