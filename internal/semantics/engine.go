// internal/semantics/engine.go
package semantics

import (
	"errors"

	"go.uber.org/zap"

	"github.com/veilcroft/pagelens/api/schemas"
)

// ErrNoRoot is returned when the host hands the engine no tree at all. It is
// the one fatal precondition failure: everything downstream would otherwise
// report a partial, inconsistent view.
var ErrNoRoot = errors.New("semantics: missing root node")

// Engine turns one render-tree projection into a PageView. It is stateless
// across invocations; all mutable bookkeeping lives in the per-invocation
// context, so a single Engine may serve many pages as long as the host
// serializes invocations against any one page.
type Engine struct {
	cfg Config
	log *zap.Logger
}

// NewEngine builds an engine with the given knobs. A nil logger is replaced
// with a nop logger.
func NewEngine(cfg Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{cfg: cfg.normalized(), log: log.Named("semantics")}
}

// Result is one invocation's output: the serialized view, the finished tree,
// and the id→element binding map the host uses to write bookkeeping markers
// back onto the live page and to resolve the next action.
type Result struct {
	View     schemas.PageView
	Tree     *SimplifiedNode
	Bindings map[string]*RenderNode
}

// Observe runs one full invocation: simplify, flatten, extract. Synchronous
// and run-to-completion; the only cancellation boundary is whatever timeout
// the host wraps around the call.
func (e *Engine) Observe(root *RenderNode, hook ToastHook) (*Result, error) {
	if root == nil {
		return nil, ErrNoRoot
	}

	inv := &invocation{
		cfg:      e.cfg,
		reg:      NewRegistry(),
		bindings: make(map[string]*RenderNode),
		log:      e.log,
	}

	tree := inv.simplify(root)

	markup, err := Serialize(tree)
	if err != nil {
		return nil, err
	}

	md := ExtractMetadata(tree)

	view := schemas.PageView{
		Markup:       markup,
		ClickableIDs: md.ClickableIDs,
		HoverableIDs: md.HoverableIDs,
		Toast:        extractToast(hook, e.log),
	}
	for _, in := range md.Inputs {
		view.Inputs = append(view.Inputs, schemas.InputSnapshot{
			ID:             in.ID,
			Value:          in.Value,
			Disabled:       in.Disabled,
			Editable:       in.Editable,
			Focused:        in.Focused,
			SelectionStart: in.SelectionStart,
			SelectionEnd:   in.SelectionEnd,
		})
	}
	for _, sel := range md.Selects {
		snap := schemas.SelectSnapshot{
			ID:            sel.ID,
			Value:         sel.Value,
			Disabled:      sel.Disabled,
			Focused:       sel.Focused,
			SelectedIndex: sel.SelectedIndex,
			Multiple:      sel.Multiple,
		}
		for _, opt := range sel.Options {
			snap.Options = append(snap.Options, schemas.OptionSnapshot{
				ID:       opt.ID,
				Label:    opt.Label,
				Value:    opt.Value,
				Selected: opt.Selected,
			})
		}
		view.Selects = append(view.Selects, snap)
	}

	e.log.Debug("Invocation complete.",
		zap.Int("nodes_seen", inv.nodes),
		zap.Int("ids_assigned", inv.reg.Len()),
		zap.Int("clickable", len(view.ClickableIDs)),
		zap.Int("inputs", len(view.Inputs)),
		zap.Int("selects", len(view.Selects)))

	return &Result{View: view, Tree: tree, Bindings: inv.bindings}, nil
}
