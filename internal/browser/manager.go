// internal/browser/manager.go
package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/veilcroft/pagelens/internal/config"
	"github.com/veilcroft/pagelens/internal/semantics"
)

// Manager owns the browser process (via a shared exec allocator) and creates
// tab sessions. Sessions are independent pages and may observe concurrently;
// serialization of invocations against any single page is each Session's job.
type Manager struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	cfg         *config.Config
	engine      *semantics.Engine
	logger      *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	wg       sync.WaitGroup
	closed   bool
}

// NewManager creates the allocator context and the shared engine. The browser
// process itself starts lazily with the first session.
func NewManager(ctx context.Context, cfg *config.Config, logger *zap.Logger) *Manager {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, execOptions(cfg.Browser)...)

	engineCfg := semantics.Config{
		OpacityEpsilon:             cfg.Engine.OpacityEpsilon,
		LabelMaxLen:                cfg.Engine.LabelMaxLen,
		DynamicContainerVocabulary: cfg.Engine.DynamicContainerClasses,
		MaxNodes:                   cfg.Engine.MaxNodes,
	}

	return &Manager{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		cfg:         cfg,
		engine:      semantics.NewEngine(engineCfg, logger),
		logger:      logger.Named("browser_manager"),
		sessions:    make(map[string]*Session),
	}
}

// execOptions translates the browser config into chromedp allocator options.
func execOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(cfg.ViewportWidth, cfg.ViewportHeight),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	for _, arg := range cfg.Args {
		if !strings.HasPrefix(arg, "--") {
			arg = "--" + arg
		}
		if key, value, found := strings.Cut(arg, "="); found {
			opts = append(opts, chromedp.Flag(strings.TrimPrefix(key, "--"), value))
		} else {
			opts = append(opts, chromedp.Flag(strings.TrimPrefix(arg, "--"), true))
		}
	}
	return opts
}

// NewSession opens a new tab and returns its session.
func (m *Manager) NewSession(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, fmt.Errorf("browser manager is shut down")
	}
	m.mu.Unlock()

	tabCtx, tabCancel := chromedp.NewContext(m.allocCtx)

	// Force target creation so failures surface here, not on first use.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		return nil, fmt.Errorf("starting browser tab: %w", err)
	}

	s, err := newSession(tabCtx, tabCancel, m.cfg, m.engine, m.logger)
	if err != nil {
		tabCancel()
		return nil, err
	}

	if err := s.instrument(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("instrumenting session: %w", err)
	}

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	m.wg.Add(1)

	s.onClose = func() {
		m.mu.Lock()
		delete(m.sessions, s.ID())
		m.mu.Unlock()
		m.wg.Done()
	}

	m.logger.Info("Session created.", zap.String("session_id", s.ID()))
	return s, nil
}

// Shutdown closes every open session and tears down the browser process.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	open := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.Unlock()

	for _, s := range open {
		s.Close()
	}
	m.wg.Wait()
	m.allocCancel()
	m.logger.Info("Browser manager shut down.")
}
