// Package main provides a CLI command that resolves OGP metadata for URLs.
// Usage: bento-navi-ogp [--parallel N] [--timeout D] [--output json] URL...
// URLs are read from stdin, one per line, when none are given as arguments.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"bento-navi/internal/domain/entity"
	"bento-navi/internal/infra/ogpparser"
	"bento-navi/internal/infra/proxy"
	"bento-navi/internal/observability/logging"
	ogpUC "bento-navi/internal/usecase/ogp"
)

// ResultOutput is one line of JSON output.
type ResultOutput struct {
	URL    string            `json:"url"`
	Result *entity.OgpResult `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

func main() {
	var (
		parallel     int
		timeout      time.Duration
		outputFormat string
	)

	flag.IntVar(&parallel, "parallel", 4, "Number of URLs resolved concurrently")
	flag.DurationVar(&timeout, "timeout", 0, "Per-proxy attempt timeout (default: OGP_PROXY_TIMEOUT)")
	flag.StringVar(&outputFormat, "output", "json", "Output format: text or json")
	flag.Parse()

	logger := logging.New(os.Stderr, logging.FormatText, logging.ParseLevel(os.Getenv("LOG_LEVEL")))
	slog.SetDefault(logger)

	urls := flag.Args()
	if len(urls) == 0 {
		var err error
		urls, err = readURLs(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to read URLs from stdin: %v\n", err)
			os.Exit(1)
		}
	}
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "Error: At least one URL is required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage: bento-navi-ogp [--parallel N] [--timeout D] [--output json] URL...")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Examples:")
		fmt.Fprintln(os.Stderr, "  bento-navi-ogp https://example.com/")
		fmt.Fprintln(os.Stderr, "  cat urls.txt | bento-navi-ogp --parallel 8 --output text")
		os.Exit(1)
	}

	proxyCfg, err := proxy.LoadConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Invalid proxy configuration: %v\n", err)
		os.Exit(1)
	}
	if timeout > 0 {
		proxyCfg.Timeout = timeout
	}
	if parallel < 1 {
		parallel = 1
	}

	svc := ogpUC.NewService(proxy.AsProxies(proxy.NewClients(proxyCfg)), ogpparser.New(),
		ogpUC.Config{AttemptTimeout: proxyCfg.Timeout})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Debug("resolving urls",
		slog.Int("count", len(urls)),
		slog.Int("parallel", parallel),
		slog.Duration("attempt_timeout", proxyCfg.Timeout))

	results := resolveAll(ctx, svc, urls, parallel)

	if outputFormat == "text" {
		outputText(os.Stdout, results)
	} else if err := outputJSON(os.Stdout, results); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to encode JSON: %v\n", err)
		os.Exit(1)
	}
}

// resolver is the part of the OGP service the CLI uses.
type resolver interface {
	Resolve(ctx context.Context, targetURL string) entity.OgpResult
}

// resolveAll resolves every URL with at most parallel lookups in flight.
// Results keep the input order. Invalid URLs are reported, not resolved.
func resolveAll(ctx context.Context, svc resolver, urls []string, parallel int) []ResultOutput {
	results := make([]ResultOutput, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, u := range urls {
		results[i].URL = u
		if err := entity.ValidateURL(u); err != nil {
			results[i].Error = err.Error()
			continue
		}
		g.Go(func() error {
			res := svc.Resolve(gctx, u)
			results[i].Result = &res
			return nil
		})
	}
	_ = g.Wait() // workers never return an error

	return results
}

// readURLs reads one URL per line, skipping blanks and # comments.
func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, sc.Err()
}

// outputText prints results in human-readable format.
func outputText(w io.Writer, results []ResultOutput) {
	for _, r := range results {
		fmt.Fprintln(w, r.URL)
		if r.Error != "" {
			fmt.Fprintf(w, "   Error: %s\n\n", r.Error)
			continue
		}
		fmt.Fprintf(w, "   Title: %s\n", r.Result.Title)
		if r.Result.Description != "" {
			fmt.Fprintf(w, "   Description: %s\n", r.Result.Description)
		}
		if r.Result.Image != "" {
			fmt.Fprintf(w, "   Image: %s\n", r.Result.Image)
		}
		fmt.Fprintln(w)
	}
}

// outputJSON prints one JSON object per line.
func outputJSON(w io.Writer, results []ResultOutput) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
