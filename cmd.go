package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lukemcguire/docscrawl/crawler"
	"github.com/lukemcguire/docscrawl/result"
	"github.com/lukemcguire/docscrawl/tui"
)

// eventBuffer is the capacity of the channel between the crawl and its view.
const eventBuffer = 100

var (
	// errNoPages is returned when a crawl finishes without a single page.
	errNoPages = errors.New("crawl produced no pages")

	// errInterrupted is returned when the crawl was stopped by the user or a
	// signal. The partial report is still written.
	errInterrupted = errors.New("crawl interrupted")
)

// version is set at build time with -ldflags "-X main.version=...".
var version = ""

// NewRootCmd creates the docscrawl command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docscrawl <url>",
		Short: "Polite crawler for documentation sites",
		Long: `docscrawl crawls a documentation site from a start URL.

It honours robots.txt, stays on the start host and below the start path,
waits the declared Crawl-delay between requests and reports every HTML
page it fetched.

Examples:
  # Crawl everything below /docs with the progress view
  docscrawl https://example.com/docs

  # Only the start page and its direct children, as JSON
  docscrawl --max-depth 1 --no-tui --format json https://example.com/docs

Configuration file ($XDG_CONFIG_HOME/docscrawl/config.yaml) example:
  max_depth: 3
  delay: 250ms
  timeout: 15s
  format: markdown
  output: docs-report.md`,
		Version:       getVersion(),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}

	cmd.Flags().IntP("max-depth", "d", -1,
		"Maximum path depth below the start URL (negative for unbounded)")
	cmd.Flags().StringP("user-agent", "u", crawler.DefaultUserAgent,
		"User-Agent header; its first token selects the robots.txt group")
	cmd.Flags().DurationP("timeout", "t", crawler.DefaultRequestTimeout,
		"Timeout for each page request")
	cmd.Flags().Duration("delay", crawler.DefaultDelay,
		"Delay between requests when robots.txt declares no Crawl-delay")
	cmd.Flags().StringP("format", "f", formatText,
		"Report format: text, json, csv or markdown")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to this file instead of stdout")
	cmd.Flags().Bool("no-tui", false,
		"Print progress lines to stderr instead of the interactive view")
	cmd.Flags().Bool("bloom", false,
		"Track visited paths in a disk-backed bloom filter for very large sites")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: $XDG_CONFIG_HOME/docscrawl/config.yaml)")
	cmd.Flags().BoolP("verbose", "v", false,
		"Enable debug logging on stderr (progress view disables logging)")

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runRootCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg, cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// buildConfig layers defaults, the config file and explicitly set flags.
func buildConfig(cmd *cobra.Command, args []string) (Config, error) {
	cfg := NewConfig()
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return cfg, err
	}
	path, err := FindConfigFile(configPath)
	if err != nil {
		return cfg, err
	}
	if path != "" {
		fc, err := LoadConfigFile(path)
		if err != nil {
			return cfg, err
		}
		cfg.Apply(fc)
	}

	if flags.Changed("max-depth") {
		if cfg.MaxDepth, err = flags.GetInt("max-depth"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("delay") {
		if cfg.Delay, err = flags.GetDuration("delay"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("output") {
		if cfg.Output, err = flags.GetString("output"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("no-tui") {
		if cfg.NoTUI, err = flags.GetBool("no-tui"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("bloom") {
		if cfg.Bloom, err = flags.GetBool("bloom"); err != nil {
			return cfg, err
		}
	}
	if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
		return cfg, err
	}

	if len(args) > 0 {
		cfg.StartURL = args[0]
	}
	return cfg, nil
}

// setupLogger creates a structured logger on w. The progress view owns the
// terminal, so logging is discarded unless --no-tui is set.
func setupLogger(cfg Config, w io.Writer) *slog.Logger {
	if !cfg.NoTUI {
		return slog.New(slog.DiscardHandler)
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// runCrawl crawls cfg.StartURL, shows progress and writes the report.
func runCrawl(ctx context.Context, cfg Config, logger *slog.Logger, stdout, stderr io.Writer) error {
	opts := []crawler.Option{
		crawler.WithMaxDepth(cfg.MaxDepth),
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithRequestTimeout(cfg.Timeout),
		crawler.WithDefaultDelay(cfg.Delay),
		crawler.WithLogger(logger),
	}
	if cfg.Bloom {
		tracker, err := crawler.NewVisitedTracker(0, 0)
		if err != nil {
			return fmt.Errorf("create visited tracker: %w", err)
		}
		defer func() {
			if closeErr := tracker.Close(); closeErr != nil {
				logger.Warn("close visited tracker", "error", closeErr)
			}
		}()
		opts = append(opts, crawler.WithVisitedSet(tracker))
	}

	c, err := crawler.New(cfg.StartURL, opts...)
	if err != nil {
		return err
	}

	crawlCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan crawler.StreamEvent, eventBuffer)
	res := &result.Result{}
	quit := false

	g, groupCtx := errgroup.WithContext(crawlCtx)
	if cfg.NoTUI {
		g.Go(func() error { return pump(groupCtx, c, events, res) })
		g.Go(func() error {
			for evt := range events {
				if evt.Kind == crawler.EventMessage {
					_, _ = fmt.Fprintln(stderr, evt.Text)
				}
			}
			return nil
		})
	} else {
		program := tea.NewProgram(tui.NewModel(cancel, events), tea.WithOutput(stderr))
		g.Go(func() error {
			err := pump(groupCtx, c, events, res)
			program.Send(tui.CrawlDoneMsg{Result: res})
			return err
		})
		g.Go(func() error {
			defer cancel()
			finalModel, err := program.Run()
			if err != nil {
				return fmt.Errorf("run progress view: %w", err)
			}
			quit = viewInterrupted(finalModel)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := writeReport(cfg, res, stdout); err != nil {
		return err
	}
	if quit || ctx.Err() != nil {
		return errInterrupted
	}
	if len(res.Pages) == 0 {
		return errNoPages
	}
	return nil
}

// viewInterrupted reports whether the user quit the progress view before the
// crawl finished.
func viewInterrupted(final tea.Model) bool {
	m, ok := final.(tui.Model)
	return ok && m.Interrupted()
}

// pump drains the crawl into events and collects the pages into res. It
// closes events when the crawl ends and fills res.Stats before returning.
func pump(ctx context.Context, c *crawler.Crawler, events chan<- crawler.StreamEvent, res *result.Result) error {
	defer close(events)
	defer func() { res.Stats = c.Stats() }()

	for evt := range c.Start(ctx) {
		if evt.Kind == crawler.EventResult && evt.Page != nil {
			res.Pages = append(res.Pages, *evt.Page)
		}
		select {
		case events <- evt:
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

// writeReport renders res in cfg.Format. The progress view already shows a
// text summary, so text on stdout is only written without it.
func writeReport(cfg Config, res *result.Result, stdout io.Writer) error {
	if cfg.Format == formatText && cfg.Output == "" && !cfg.NoTUI {
		return nil
	}

	w := stdout
	if cfg.Output != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o750); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	switch cfg.Format {
	case formatJSON:
		return result.WriteJSON(w, res.Pages)
	case formatCSV:
		return result.WriteCSV(w, res.Pages)
	case formatMarkdown:
		return result.WriteMarkdown(w, res)
	default:
		result.PrintResults(w, res)
		return nil
	}
}

// getVersion returns the build version, falling back to module build info.
func getVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}
