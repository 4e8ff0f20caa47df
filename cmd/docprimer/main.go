package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docprimer"
	"github.com/fwojciec/docprimer/augment"
	"github.com/fwojciec/docprimer/clean"
	"github.com/fwojciec/docprimer/crawl"
	"github.com/fwojciec/docprimer/fs"
	"github.com/fwojciec/docprimer/gemini"
	"github.com/fwojciec/docprimer/goquery"
	"github.com/fwojciec/docprimer/htmltomarkdown"
	dphttp "github.com/fwojciec/docprimer/http"
	"github.com/fwojciec/docprimer/readability"
	"github.com/fwojciec/docprimer/rod"
	dpslog "github.com/fwojciec/docprimer/slog"
	"github.com/fwojciec/docprimer/sqlite"
	"github.com/fwojciec/docprimer/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// EnvFile is read for variables not set in the environment.
	// A missing file is ignored. Set before calling Run().
	EnvFile string

	// Getenv looks up environment variables. Set before calling Run().
	Getenv func(string) string

	// SQLite database opened for the index and ask commands.
	DB *sqlite.DB

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		EnvFile: ".env",
		Getenv:  os.Getenv,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var first error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	m.closers = nil
	return first
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docprimer"),
		kong.Description("Crawl documentation into a corpus, clean it, index it and answer questions with live search fallback."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docprimer --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg, err := LoadConfig(cli.Config)
	if err != nil {
		return err
	}
	cli.apply(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", docprimer.ErrorMessage(err))
		return err
	}

	env, err := ReadEnv(m.EnvFile, m.Getenv)
	if err != nil {
		return err
	}

	logger := NewLogger(stderr, cli.Verbose)
	deps.Config = cfg
	deps.Logger = logger
	defer m.Close()

	switch cmd {
	case "crawl":
		if err := m.wireCrawl(deps); err != nil {
			return err
		}
	case "clean":
		deps.Cleaner = &clean.Cleaner{
			Normalizer: goquery.NewNormalizer(),
			Workers:    cfg.Workers,
			Logger:     logger,
		}
	case "index":
		idx, err := m.openIndex(cfg.IndexDir)
		if err != nil {
			return err
		}
		deps.Index = idx
	case "search":
		aug, err := m.newAugmenter(cfg, logger)
		if err != nil {
			return err
		}
		deps.Augmenter = aug
	case "ask":
		if err := m.wireAsk(deps, env); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

func (m *Main) wireCrawl(deps *Dependencies) error {
	cfg := deps.Config
	scope, err := crawlScope(cfg)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docprimer.ErrorMessage(err))
		return err
	}

	fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(cfg.FetchTimeout))
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	m.closers = append(m.closers, fetcher)

	var sitemaps docprimer.SitemapService
	if cfg.Sitemap {
		sitemaps = dpslog.NewLoggingSitemapService(dphttp.NewSitemapService(nil), deps.Logger)
	}

	deps.Crawler = &crawl.Crawler{
		Fetcher:     dpslog.NewLoggingFetcher(fetcher, deps.Logger),
		Links:       goquery.NewAnchorExtractor(),
		Writer:      fs.NewCorpus(cfg.CorpusDir),
		Scope:       scope,
		Sitemaps:    sitemaps,
		Concurrency: cfg.Concurrency,
		MaxPages:    cfg.MaxPages,
		Logger:      deps.Logger,
	}
	return nil
}

func (m *Main) wireAsk(deps *Dependencies, env map[string]string) error {
	cfg := deps.Config

	apiKey := env["GEMINI_API_KEY"]
	if apiKey == "" {
		fmt.Fprintln(deps.Stderr, "GEMINI_API_KEY not set in the environment or .env file. Get an API key at https://aistudio.google.com/apikey")
		return docprimer.Errorf(docprimer.EINVALID, "GEMINI_API_KEY not set")
	}

	idx, err := m.openIndex(cfg.IndexDir)
	if err != nil {
		return err
	}

	client, err := genai.NewClient(deps.Ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	aug, err := m.newAugmenter(cfg, deps.Logger)
	if err != nil {
		return err
	}

	answerer := gemini.NewAnswerer(client, idx,
		gemini.WithModel(cfg.Model),
		gemini.WithSystemPrompt(cfg.SystemPrompt),
		gemini.WithRetrieveLimit(cfg.Retrieve),
	)
	deps.Responder = &augment.Responder{
		Answerer:  dpslog.NewLoggingAnswerer(answerer, deps.Logger),
		Augmenter: aug,
		Detector:  augment.NewPhraseDetector(cfg.MissPhrases...),
		Notify: func(msg string) {
			fmt.Fprintln(deps.Stderr, msg)
		},
	}
	return nil
}

// openIndex opens the index database inside dir, creating dir if needed.
func (m *Main) openIndex(dir string) (*sqlite.Index, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}
	m.DB = sqlite.NewDB(filepath.Join(dir, sqlite.DBName))
	if err := m.DB.Open(); err != nil {
		return nil, fmt.Errorf("failed to open index at %q: %w", m.DB.Path(), err)
	}
	m.closers = append(m.closers, m.DB)
	return sqlite.NewIndex(m.DB), nil
}

// newAugmenter wires the live search pipeline from configuration.
func (m *Main) newAugmenter(cfg docprimer.Config, logger *slog.Logger) (*augment.Augmenter, error) {
	client := &http.Client{Timeout: cfg.FetchTimeout}
	fetcher := dphttp.NewFetcher(dphttp.WithTimeout(cfg.FetchTimeout))
	m.closers = append(m.closers, fetcher)

	aug := &augment.Augmenter{
		Searcher:   dpslog.NewLoggingSearcher(goquery.NewDuckDuckGo(client), logger),
		Fetcher:    dpslog.NewLoggingFetcher(fetcher, logger),
		Converter:  htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(cfg.Site)),
		Normalizer: goquery.NewNormalizer(),
		Corpus:     fs.NewCorpus(cfg.CorpusDir),
		Site:       cfg.Site,
		TopN:       cfg.TopN,
		Budget:     cfg.Budget,
		Logger:     logger,
	}

	siteURL := siteURL(cfg.Site)
	switch cfg.Extractor {
	case "trafilatura":
		ext, err := trafilatura.NewExtractor(siteURL)
		if err != nil {
			return nil, err
		}
		aug.Extractor = ext
	case "readability":
		ext, err := readability.NewExtractor(siteURL)
		if err != nil {
			return nil, err
		}
		aug.Extractor = ext
	}
	return aug, nil
}

// NewLogger returns a text logger writing to w. Verbose enables debug output.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func siteURL(site string) string {
	if site == "" || strings.Contains(site, "://") {
		return site
	}
	return "https://" + site
}
