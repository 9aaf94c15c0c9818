// internal/browser/session.go
package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/veilcroft/pagelens/api/schemas"
	"github.com/veilcroft/pagelens/internal/config"
	"github.com/veilcroft/pagelens/internal/semantics"
)

// Session is one browser tab. Every operation that touches the page takes the
// session mutex: invocations and actions against a single page must be
// serialized because the bookkeeping markers and id assignments are
// invocation-scoped state.
type Session struct {
	id      string
	ctx     context.Context
	cancel  context.CancelFunc
	cfg     *config.Config
	engine  *semantics.Engine
	logger  *zap.Logger
	onClose func()

	mu         sync.Mutex
	closed     bool
	lastToasts []string
}

func newSession(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, engine *semantics.Engine, logger *zap.Logger) (*Session, error) {
	id := uuid.New().String()
	return &Session{
		id:     id,
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
		engine: engine,
		logger: logger.Named("session").With(zap.String("session_id", id)),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Close tears down the tab. Safe to call twice.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	if s.onClose != nil {
		s.onClose()
	}
	s.logger.Info("Session closed.")
}

// run executes chromedp actions against this session's tab, bounded by the
// caller's context.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := mergeContext(s.ctx, ctx)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// mergeContext bounds the session context by the caller's deadline and
// cancellation.
func mergeContext(sessionCtx, callerCtx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(sessionCtx)
	stop := context.AfterFunc(callerCtx, cancel)
	return ctx, func() { stop(); cancel() }
}

// Navigate loads a URL and waits for the page to settle.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	navCtx, cancel := context.WithTimeout(ctx, s.cfg.Browser.NavigationTimeout)
	defer cancel()

	if err := s.run(navCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	s.waitStable(navCtx)
	s.logger.Info("Navigated.", zap.String("url", url))
	return nil
}

// Back, Forward and Refresh mirror the browser history controls, settling the
// page afterwards.
func (s *Session) Back(ctx context.Context) error {
	return s.historyAction(ctx, chromedp.NavigateBack())
}

func (s *Session) Forward(ctx context.Context) error {
	return s.historyAction(ctx, chromedp.NavigateForward())
}

func (s *Session) Refresh(ctx context.Context) error {
	return s.historyAction(ctx, chromedp.Reload())
}

func (s *Session) historyAction(ctx context.Context, action chromedp.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.run(ctx, action); err != nil {
		return err
	}
	s.waitStable(ctx)
	return nil
}

// selectorFor resolves a semantic id to its bound live element.
func selectorFor(semanticID string) string {
	return fmt.Sprintf(`[%s=%q]`, semantics.SemanticIDAttr, semanticID)
}

// Click clicks the element bound to a semantic id from the latest view.
func (s *Session) Click(ctx context.Context, semanticID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := selectorFor(semanticID)
	if err := s.run(ctx,
		chromedp.ScrollIntoView(sel, chromedp.ByQuery),
		chromedp.Click(sel, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("clicking %q: %w", semanticID, err)
	}
	s.waitStable(ctx)
	s.logger.Info("Clicked element.", zap.String("semantic_id", semanticID))
	return nil
}

// Type clears the control bound to a semantic id and types text into it,
// optionally pressing Enter.
func (s *Session) Type(ctx context.Context, semanticID, text string, pressEnter bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := selectorFor(semanticID)
	actions := []chromedp.Action{
		chromedp.ScrollIntoView(sel, chromedp.ByQuery),
		chromedp.Clear(sel, chromedp.ByQuery),
		chromedp.SendKeys(sel, text, chromedp.ByQuery),
	}
	if pressEnter {
		actions = append(actions, chromedp.SendKeys(sel, "\r", chromedp.ByQuery))
	}
	if err := s.run(ctx, actions...); err != nil {
		return fmt.Errorf("typing into %q: %w", semanticID, err)
	}
	s.waitStable(ctx)
	s.logger.Info("Typed into element.", zap.String("semantic_id", semanticID))
	return nil
}

// SelectOption picks an option on the select bound to a semantic id. The
// value may be an option value or an option's own semantic id suffix.
func (s *Session) SelectOption(ctx context.Context, semanticID, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := selectorFor(semanticID)
	if err := s.run(ctx,
		chromedp.ScrollIntoView(sel, chromedp.ByQuery),
		chromedp.SetValue(sel, value, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("selecting %q on %q: %w", value, semanticID, err)
	}
	s.waitStable(ctx)
	s.logger.Info("Selected option.", zap.String("semantic_id", semanticID), zap.String("value", value))
	return nil
}

// Clear empties the control bound to a semantic id.
func (s *Session) Clear(ctx context.Context, semanticID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := selectorFor(semanticID)
	if err := s.run(ctx, chromedp.Clear(sel, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("clearing %q: %w", semanticID, err)
	}
	return nil
}

// Hover moves the pointer over the element bound to a semantic id and plants
// the hover bookkeeping marker so the next invocation can propagate
// hoverability through that subtree. Previous hover markers are lifted: the
// page tracks at most one hover region at a time.
func (s *Session) Hover(ctx context.Context, semanticID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := selectorFor(semanticID)
	script := fmt.Sprintf(`(() => {
		for (const el of document.querySelectorAll('[%s]')) {
			el.removeAttribute('%s');
		}
		const target = document.querySelector(%q);
		if (!target) return false;
		target.setAttribute('%s', '1');
		target.dispatchEvent(new MouseEvent('mouseover', {bubbles: true}));
		target.dispatchEvent(new MouseEvent('mouseenter'));
		return true;
	})()`, semantics.HoverMarkAttr, semantics.HoverMarkAttr, sel, semantics.HoverMarkAttr)

	var ok bool
	if err := s.run(ctx, chromedp.Evaluate(script, &ok)); err != nil {
		return fmt.Errorf("hovering %q: %w", semanticID, err)
	}
	if !ok {
		return fmt.Errorf("hovering %q: element not found", semanticID)
	}
	s.waitStable(ctx)
	s.logger.Info("Hovered element.", zap.String("semantic_id", semanticID))
	return nil
}

// KeyPress sends a key, optionally focused on a bound element first.
func (s *Session) KeyPress(ctx context.Context, key, semanticID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if semanticID != "" {
		sel := selectorFor(semanticID)
		if err := s.run(ctx,
			chromedp.Focus(sel, chromedp.ByQuery),
			chromedp.SendKeys(sel, key, chromedp.ByQuery),
		); err != nil {
			return fmt.Errorf("pressing %q on %q: %w", key, semanticID, err)
		}
	} else if err := s.run(ctx, chromedp.KeyEvent(key)); err != nil {
		return fmt.Errorf("pressing %q: %w", key, err)
	}
	s.waitStable(ctx)
	return nil
}

// Scroll scrolls the page by a number of viewport-relative steps.
func (s *Session) Scroll(ctx context.Context, direction string, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var dx, dy int
	switch strings.ToLower(direction) {
	case "up":
		dy = -300
	case "down":
		dy = 300
	case "left":
		dx = -300
	case "right":
		dx = 300
	default:
		return fmt.Errorf("invalid scroll direction %q", direction)
	}
	script := fmt.Sprintf("window.scrollBy(%d, %d)", dx*amount, dy*amount)
	if err := s.run(ctx, chromedp.Evaluate(script, nil)); err != nil {
		return fmt.Errorf("scrolling %s: %w", direction, err)
	}
	return nil
}

// Observe runs one simplification invocation against the current page. See
// project.go for the projection pipeline.
func (s *Session) Observe(ctx context.Context) (*schemas.PageView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obsCtx, cancel := context.WithTimeout(ctx, s.cfg.Browser.ObserveTimeout)
	defer cancel()

	s.waitStable(obsCtx)
	return s.observeLocked(obsCtx)
}

// waitStable approximates a network-idle wait: the instrumented request
// counter must stay quiet for the configured window. Timeouts degrade to a
// best-effort view, matching how the page may simply never go idle.
func (s *Session) waitStable(ctx context.Context) {
	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.Browser.NetworkIdleWait)
	defer cancel()

	if err := s.run(waitCtx, chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		s.logger.Debug("Body wait failed during stabilization.", zap.Error(err))
		return
	}

	window := s.cfg.Browser.NetworkIdleWindow
	if window <= 0 {
		return
	}

	// Poll at most every 100ms; a limiter keeps the CDP channel quiet.
	limiter := rate.NewLimiter(rate.Every(100*time.Millisecond), 1)
	probe := fmt.Sprintf(`(() => {
		const net = window.__pagelensNet;
		if (!net) return true;
		return net.active === 0 && (Date.now() - net.last) >= %d;
	})()`, window.Milliseconds())

	for {
		if err := limiter.Wait(waitCtx); err != nil {
			s.logger.Debug("Network idle wait timed out.", zap.Error(err))
			return
		}
		var idle bool
		if err := s.run(waitCtx, chromedp.Evaluate(probe, &idle)); err != nil {
			s.logger.Debug("Network idle probe failed.", zap.Error(err))
			return
		}
		if idle {
			return
		}
	}
}
