package main

import (
	"fmt"

	"github.com/fwojciec/docprimer/crawl"
)

// maxURLWidth bounds URLs in progress lines.
const maxURLWidth = 72

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	deps.Crawler.Progress = func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressWritten:
			fmt.Fprintf(deps.Stdout, "  saved %s -> %s\n", crawl.TruncateURL(event.URL, maxURLWidth), event.Path)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", crawl.TruncateURL(event.URL, maxURLWidth), event.Err)
		}
	}

	result, err := deps.Crawler.Crawl(deps.Ctx, deps.Config.Seeds)
	if result != nil {
		fmt.Fprintf(deps.Stdout, "Visited %d pages: %d saved (%s), %d failed\n",
			result.Visited, result.Written, crawl.FormatBytes(result.Bytes), result.Failed)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %v\n", err)
		return err
	}
	return nil
}
