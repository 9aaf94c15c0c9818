// internal/browser/hooks.go
package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/veilcroft/pagelens/api/schemas"
	"github.com/veilcroft/pagelens/internal/semantics"
)

// toastProbeScript gathers visible feedback text from dynamic containers and
// cart badges. Kept deliberately loose: it is a heuristic summary, not part
// of the tree contract.
const toastProbeScript = `(() => {
	const selectors = [
		'[class*="toast"]', '[class*="snackbar"]', '[class*="alert"]',
		'[class*="notification"]', '[role="alert"]', '[role="status"]',
		'[class*="cart-count"]', '[class*="cart-badge"]',
	];
	const messages = [];
	const seen = new Set();
	for (const el of document.querySelectorAll(selectors.join(','))) {
		const text = (el.innerText || '').trim();
		if (text && !seen.has(text)) {
			seen.add(text);
			messages.push(text);
		}
	}
	return messages;
})()`

// toastHook builds the optional metadata hook for one invocation. The changed
// flag compares against the previous invocation's messages so the consumer
// can tell a fresh confirmation from a stale banner. Failures inside the hook
// surface as errors and the engine degrades them to an empty summary.
func (s *Session) toastHook(ctx context.Context) semantics.ToastHook {
	return func() (schemas.ToastSummary, error) {
		var messages []string
		if err := s.run(ctx, chromedp.Evaluate(toastProbeScript, &messages)); err != nil {
			return schemas.ToastSummary{}, fmt.Errorf("probing toast containers: %w", err)
		}
		return s.diffToasts(messages), nil
	}
}

// diffToasts folds new probe results against the previous invocation's.
// Callers hold the session mutex.
func (s *Session) diffToasts(messages []string) schemas.ToastSummary {
	changed := len(messages) != len(s.lastToasts)
	if !changed {
		for i := range messages {
			if messages[i] != s.lastToasts[i] {
				changed = true
				break
			}
		}
	}
	s.lastToasts = messages

	return schemas.ToastSummary{
		Count:    len(messages),
		Messages: messages,
		Changed:  changed,
	}
}
