// -- cmd/observe.go --
package cmd

import (
	"context"
	"fmt"
	"os"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/veilcroft/pagelens/api/schemas"
	"github.com/veilcroft/pagelens/internal/browser"
	"github.com/veilcroft/pagelens/internal/observability"
	"github.com/veilcroft/pagelens/internal/semantics"
	"github.com/veilcroft/pagelens/internal/semantics/htmlproj"
)

var (
	observeURLs    []string
	observeFile    string
	observeMarkup  bool
	observeWorkers int
)

var observeCmd = &cobra.Command{
	Use:   "observe",
	Short: "Run one simplification invocation and print the semantic view.",
	Long: `Observe projects a page into the engine's render-tree model, runs one
simplification invocation, and prints the resulting PageView.

Live pages (--url) go through a headless browser; a local document (--file)
is projected statically from its markup. Distinct URLs are observed
concurrently; invocations against any single page are always serialized.`,
	RunE: runObserve,
}

func init() {
	observeCmd.Flags().StringSliceVarP(&observeURLs, "url", "u", nil, "URL to observe (repeatable)")
	observeCmd.Flags().StringVarP(&observeFile, "file", "f", "", "local HTML file to observe statically")
	observeCmd.Flags().BoolVar(&observeMarkup, "markup", false, "print only the simplified markup")
	observeCmd.Flags().IntVar(&observeWorkers, "workers", 4, "max concurrent pages when observing multiple URLs")
	rootCmd.AddCommand(observeCmd)
}

func runObserve(cmd *cobra.Command, args []string) error {
	logger := observability.GetLogger()

	if observeFile == "" && len(observeURLs) == 0 {
		return fmt.Errorf("nothing to observe: provide --url or --file")
	}
	if observeFile != "" && len(observeURLs) > 0 {
		return fmt.Errorf("--url and --file are mutually exclusive")
	}

	if observeFile != "" {
		view, err := observeStatic(observeFile, logger)
		if err != nil {
			return err
		}
		return printView(cmd, observeFile, view)
	}

	return observeLive(cmd.Context(), cmd, logger)
}

// observeStatic projects a local document without a browser.
func observeStatic(path string, logger *zap.Logger) (*schemas.PageView, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	root, err := htmlproj.Project(string(src), htmlproj.Options{
		ViewportWidth:  float64(cfg.Browser.ViewportWidth),
		ViewportHeight: float64(cfg.Browser.ViewportHeight),
	})
	if err != nil {
		return nil, fmt.Errorf("projecting %s: %w", path, err)
	}

	engine := semantics.NewEngine(semantics.Config{
		OpacityEpsilon:             cfg.Engine.OpacityEpsilon,
		LabelMaxLen:                cfg.Engine.LabelMaxLen,
		DynamicContainerVocabulary: cfg.Engine.DynamicContainerClasses,
		MaxNodes:                   cfg.Engine.MaxNodes,
	}, logger)

	result, err := engine.Observe(root, nil)
	if err != nil {
		return nil, err
	}
	return &result.View, nil
}

// observeLive fans the URLs out over browser sessions, one tab per page.
func observeLive(ctx context.Context, cmd *cobra.Command, logger *zap.Logger) error {
	manager := browser.NewManager(ctx, &cfg, logger)
	defer manager.Shutdown()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(observeWorkers)

	var outMu sync.Mutex
	for _, url := range observeURLs {
		g.Go(func() error {
			session, err := manager.NewSession(gctx)
			if err != nil {
				return err
			}
			defer session.Close()

			if err := session.Navigate(gctx, url); err != nil {
				return err
			}
			view, err := session.Observe(gctx)
			if err != nil {
				return fmt.Errorf("observing %s: %w", url, err)
			}

			outMu.Lock()
			defer outMu.Unlock()
			return printView(cmd, url, view)
		})
	}
	return g.Wait()
}

func printView(cmd *cobra.Command, source string, view *schemas.PageView) error {
	if observeMarkup {
		fmt.Fprintln(cmd.OutOrStdout(), view.Markup)
		return nil
	}

	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(struct {
		Source string           `json:"source"`
		View   *schemas.PageView `json:"view"`
	}{Source: source, View: view}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding view: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
