// internal/semantics/metadata.go
package semantics

import (
	"go.uber.org/zap"

	"github.com/veilcroft/pagelens/api/schemas"
)

// ToastHook supplies transient feedback text (toast/cart banners) from the
// host. It is optional; the extractor treats a nil hook and a failing hook
// the same way: no data, not an error.
type ToastHook func() (schemas.ToastSummary, error)

// Metadata is the flat summary extracted from a finished simplified tree.
type Metadata struct {
	ClickableIDs []string
	HoverableIDs []string
	Inputs       []InputState
	Selects      []SelectState
}

// ExtractMetadata walks the finished tree once, in document order, and
// collects the actionable id lists and control snapshots. Operating on the
// finished tree (not the source) means pruned nodes can never contribute
// stale ids.
func ExtractMetadata(root *SimplifiedNode) Metadata {
	var md Metadata
	if root == nil {
		return md
	}

	stack := []*SimplifiedNode{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if ann := n.Annotation; ann.Live() {
			if ann.Clickable && !ann.Disabled {
				md.ClickableIDs = append(md.ClickableIDs, ann.SemanticID)
			}
			if ann.Hoverable {
				md.HoverableIDs = append(md.HoverableIDs, ann.SemanticID)
			}
		}
		if n.Input != nil {
			md.Inputs = append(md.Inputs, *n.Input)
		}
		if n.Select != nil {
			md.Selects = append(md.Selects, *n.Select)
		}

		// Push children reversed so document order pops first.
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return md
}

// extractToast runs the optional hook, degrading to the zero summary on any
// failure so the rest of extraction is never aborted by feedback plumbing.
func extractToast(hook ToastHook, log *zap.Logger) schemas.ToastSummary {
	if hook == nil {
		return schemas.ToastSummary{}
	}
	summary, err := hook()
	if err != nil {
		log.Warn("Toast hook failed; returning empty summary.", zap.Error(err))
		return schemas.ToastSummary{}
	}
	return summary
}
