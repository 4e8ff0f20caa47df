package docprimer

import (
	"runtime"
	"time"
)

// Default configuration values.
const (
	DefaultCorpusDir    = "markdown"
	DefaultIndexDir     = "DocsIndex"
	DefaultConcurrency  = 4
	DefaultTopN         = 2
	DefaultBudget       = 10000
	DefaultFetchTimeout = 10 * time.Second
	DefaultModel        = "gemini-2.5-flash"
	DefaultExtractor    = "none"
	DefaultRetrieve     = 7
)

// DefaultSystemPrompt instructs the answer model.
const DefaultSystemPrompt = "You are an expert on the documentation provided. " +
	"Answer technical questions accurately based only on that documentation. " +
	"Always provide detailed, step-wise information in your responses. " +
	"Do not ask the user to check the website for more details; include all necessary information in your response. " +
	"If the documentation does not cover the question, reply that the documents provided do not contain information about it."

// DefaultMissPhrases are the answer fragments that mark a knowledge-base miss.
var DefaultMissPhrases = []string{
	"The documents provided do not contain information",
	"The index provided does not contain information",
}

// Config holds the settings shared by the pipeline components. It is built
// once at startup and passed to constructors explicitly.
type Config struct {
	// Site is the documentation domain used to scope live searches.
	Site string `yaml:"site"`

	// Seeds are the crawl start URLs.
	Seeds []string `yaml:"seeds"`

	// ScopePattern is the domain+path-prefix regex for discovered links.
	ScopePattern string `yaml:"scope"`

	CorpusDir string `yaml:"corpus_dir"`
	IndexDir  string `yaml:"index_dir"`

	// Concurrency caps concurrent page fetches across all seeds.
	Concurrency int `yaml:"concurrency"`

	// Workers sizes the batch cleaner pool. Zero means DefaultWorkers().
	Workers int `yaml:"workers"`

	// MaxPages limits pages visited per seed. Zero means unlimited.
	MaxPages int `yaml:"max_pages"`

	// Sitemap adds in-scope sitemap URLs to the crawl seeds.
	Sitemap bool `yaml:"sitemap"`

	TopN         int           `yaml:"top_n"`
	Budget       int           `yaml:"budget"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	Model        string   `yaml:"model"`
	SystemPrompt string   `yaml:"system_prompt"`
	Retrieve     int      `yaml:"retrieve"`
	MissPhrases  []string `yaml:"miss_phrases"`

	// Extractor selects main-content extraction for search results:
	// "none", "trafilatura" or "readability".
	Extractor string `yaml:"extractor"`
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() Config {
	return Config{
		CorpusDir:    DefaultCorpusDir,
		IndexDir:     DefaultIndexDir,
		Concurrency:  DefaultConcurrency,
		Workers:      DefaultWorkers(),
		TopN:         DefaultTopN,
		Budget:       DefaultBudget,
		FetchTimeout: DefaultFetchTimeout,
		Model:        DefaultModel,
		SystemPrompt: DefaultSystemPrompt,
		Retrieve:     DefaultRetrieve,
		MissPhrases:  append([]string(nil), DefaultMissPhrases...),
		Extractor:    DefaultExtractor,
	}
}

// Validate returns an error if the configuration cannot drive a pipeline.
func (c *Config) Validate() error {
	if c.CorpusDir == "" {
		return Errorf(EINVALID, "corpus directory required")
	}
	if c.Concurrency < 0 || c.Workers < 0 || c.TopN < 0 || c.Budget < 0 {
		return Errorf(EINVALID, "concurrency, workers, top_n and budget must not be negative")
	}
	switch c.Extractor {
	case "", "none", "trafilatura", "readability":
	default:
		return Errorf(EINVALID, "unknown extractor %q", c.Extractor)
	}
	return nil
}

// DefaultWorkers returns the default batch cleaner pool size: the number of
// CPUs less a small reserve for the rest of the process, never below 1.
func DefaultWorkers() int {
	return ClampWorkers(runtime.NumCPU() - 2)
}

// ClampWorkers clamps a requested pool size to at least 1.
func ClampWorkers(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
