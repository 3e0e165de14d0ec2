// trendwords - one-shot batch word-count report over popular Reddit content.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/matiasleandrokruk/trendwords/internal/domain/trend"
	"github.com/matiasleandrokruk/trendwords/internal/infra/config"
	"github.com/matiasleandrokruk/trendwords/internal/infra/reddit"
	"github.com/matiasleandrokruk/trendwords/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("trendwords", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}

	if *showHelp {
		printHelp(out)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(errOut, "trendwords: %v\n", err) //nolint:errcheck
		return 1
	}

	// Remaining arguments are subreddit names; none means the report covers
	// whatever is currently trending.
	topics := trend.ToTopics(fs.Args())

	client := reddit.NewClient(cfg.RedditBaseURL, cfg.UserAgent, cfg.RequestsPerSecond)
	runner := trend.NewBatchRunner(client, cfg.Pipeline())
	sink := trend.NewJSONReportWriter(out)

	if err := runner.RunTo(context.Background(), topics, sink); err != nil {
		fmt.Fprintf(errOut, "trendwords: %v\n", err) //nolint:errcheck
		return 1
	}
	return 0
}

func printHelp(out io.Writer) {
	helpText := `trendwords - per-subreddit word counts from popular Reddit content

Usage:
  trendwords [options] [subreddit ...]

With no subreddits, the report covers the currently trending subreddits.

Options:
  --version    Show version information
  --help       Show this help message

Examples:
  trendwords golang rust
  trendwords`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
