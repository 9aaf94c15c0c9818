// internal/browser/project.go
package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/veilcroft/pagelens/api/schemas"
	"github.com/veilcroft/pagelens/internal/semantics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// networkTrackerScript instruments fetch and XMLHttpRequest so waitStable can
// detect quiescence after interactions, where lifecycle events no longer fire.
const networkTrackerScript = `(() => {
	if (window.__pagelensNet) return;
	const net = { active: 0, last: Date.now() };
	window.__pagelensNet = net;
	const settle = () => { net.active = Math.max(0, net.active - 1); net.last = Date.now(); };

	const origFetch = window.fetch;
	if (origFetch) {
		window.fetch = function(...args) {
			net.active++;
			return origFetch.apply(this, args).then(
				r => { settle(); return r; },
				e => { settle(); throw e; });
		};
	}

	const origSend = XMLHttpRequest.prototype.send;
	XMLHttpRequest.prototype.send = function(...args) {
		net.active++;
		this.addEventListener('loadend', settle, { once: true });
		return origSend.apply(this, args);
	};
})()`

// clearBookkeepingScript removes the id binding and index markers left by the
// previous invocation. Hover markers stay: they are the hover collaborator's
// state and carry continuity across invocations.
const clearBookkeepingScript = `(() => {
	for (const el of document.querySelectorAll('[parser-semantic-id]')) {
		el.removeAttribute('parser-semantic-id');
	}
	for (const el of document.querySelectorAll('[data-pagelens-ref]')) {
		el.removeAttribute('data-pagelens-ref');
	}
})()`

// snapshotScript projects the live DOM into the engine's render-tree JSON.
// Each element is stamped with a ref index so assigned ids can be written
// back afterwards. Style or geometry probes that throw mark the node
// unreadable instead of aborting the snapshot.
const snapshotScript = `(() => {
	let nextRef = 0;

	const scrollableAncestor = (el) => {
		for (let p = el.parentElement; p; p = p.parentElement) {
			const st = getComputedStyle(p);
			if ((st.overflowY === 'auto' || st.overflowY === 'scroll') &&
				p.scrollHeight > p.clientHeight) {
				return true;
			}
		}
		return false;
	};

	const controlState = (el) => {
		const tag = el.tagName.toLowerCase();
		const editable = el.isContentEditable;
		if (tag !== 'input' && tag !== 'textarea' && tag !== 'select' && !editable) {
			return undefined;
		}
		const state = {
			value: editable ? (el.innerText || '') : (el.value ?? ''),
			focused: document.activeElement === el,
			selectionStart: 0,
			selectionEnd: 0,
			selectedIndex: 0,
			multiple: false,
		};
		try {
			if (el.selectionStart !== null && el.selectionStart !== undefined) {
				state.selectionStart = el.selectionStart;
				state.selectionEnd = el.selectionEnd;
			}
		} catch (e) { /* type=number etc. throw on selection access */ }
		if (tag === 'select') {
			state.selectedIndex = el.selectedIndex;
			state.multiple = el.multiple;
			state.options = Array.from(el.options).map(o => ({
				label: o.label || o.text,
				value: o.value,
				selected: o.selected,
			}));
		}
		return state;
	};

	const project = (el) => {
		const ref = nextRef++;
		el.setAttribute('data-pagelens-ref', String(ref));

		const node = {
			tag: el.tagName.toLowerCase(),
			attrs: {},
			classes: Array.from(el.classList),
			style: {},
			geom: {},
			children: [],
			text: [],
			ref: ref,
		};
		for (const attr of el.attributes) {
			node.attrs[attr.name] = attr.value;
		}

		try {
			const st = getComputedStyle(el);
			node.style = {
				display: st.display,
				visibility: st.visibility,
				opacity: parseFloat(st.opacity),
				pointerEvents: st.pointerEvents,
				cursor: st.cursor,
				textDecoration: st.textDecorationLine,
			};
			const rect = el.getBoundingClientRect();
			node.geom = {
				x: rect.x,
				y: rect.y,
				width: rect.width,
				height: rect.height,
				intrinsicWidth: el.offsetWidth || rect.width,
				intrinsicHeight: el.offsetHeight || rect.height,
				scrollX: window.scrollX,
				scrollY: window.scrollY,
				viewportWidth: window.innerWidth,
				viewportHeight: window.innerHeight,
				docScrollHeight: document.documentElement.scrollHeight,
				scrollableAncestor: scrollableAncestor(el),
			};
		} catch (e) {
			node.style = { unreadable: true };
		}

		const control = controlState(el);
		if (control) node.control = control;

		for (const child of el.childNodes) {
			if (child.nodeType === Node.ELEMENT_NODE) {
				node.children.push(project(child));
			} else if (child.nodeType === Node.TEXT_NODE && child.textContent.trim()) {
				node.text.push(child.textContent);
			}
		}
		return node;
	};

	return JSON.stringify(project(document.documentElement));
})()`

// instrument injects the network tracker into every new document of the tab.
func (s *Session) instrument(ctx context.Context) error {
	return s.run(ctx, chromedp.ActionFunc(func(c context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(networkTrackerScript).Do(c)
		return err
	}), chromedp.Evaluate(networkTrackerScript, nil))
}

// observeLocked is the invocation body: clear stale bookkeeping, project the
// tree, run the engine, write the new id bindings back onto the page.
// Callers hold the session mutex.
func (s *Session) observeLocked(ctx context.Context) (*schemas.PageView, error) {
	if err := s.run(ctx, chromedp.Evaluate(clearBookkeepingScript, nil)); err != nil {
		return nil, fmt.Errorf("clearing bookkeeping markers: %w", err)
	}

	var raw string
	if err := s.run(ctx, chromedp.Evaluate(snapshotScript, &raw)); err != nil {
		return nil, fmt.Errorf("projecting render tree: %w", err)
	}

	var root semantics.RenderNode
	if err := json.UnmarshalFromString(raw, &root); err != nil {
		return nil, fmt.Errorf("decoding render tree: %w", err)
	}

	result, err := s.engine.Observe(&root, s.toastHook(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.bindIDs(ctx, result.Bindings); err != nil {
		// The view is still coherent; only the next action resolution is at
		// risk, so report it rather than discard the invocation.
		s.logger.Warn("Failed to write id bindings onto the page.", zap.Error(err))
	}

	return &result.View, nil
}

// bindIDs stamps every assigned semantic id onto its live element so the next
// action instruction resolves by attribute selector.
func (s *Session) bindIDs(ctx context.Context, bindings map[string]*semantics.RenderNode) error {
	if len(bindings) == 0 {
		return nil
	}
	refs := make(map[string]int, len(bindings))
	for id, node := range bindings {
		refs[id] = node.Ref
	}
	payload, err := json.MarshalToString(refs)
	if err != nil {
		return fmt.Errorf("encoding id bindings: %w", err)
	}

	script := fmt.Sprintf(`((bindings) => {
		for (const [id, ref] of Object.entries(bindings)) {
			const el = document.querySelector('[data-pagelens-ref="' + ref + '"]');
			if (el) el.setAttribute('%s', id);
		}
	})(%s)`, semantics.SemanticIDAttr, payload)

	return s.run(ctx, chromedp.Evaluate(script, nil))
}
