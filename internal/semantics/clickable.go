// internal/semantics/clickable.go
package semantics

import "strings"

// Affordance markers beyond native tags: inline handlers and the dismiss
// attributes that framework close buttons carry.
var dismissAttrs = []string{
	"data-dismiss",
	"data-bs-dismiss",
	"data-close",
	"data-micromodal-close",
}

// Clickability is the decision for one node given its ancestor state.
type Clickability struct {
	// Clickable is the final decision: independently actionable.
	Clickable bool
	// Force marks native buttons and navigating anchors, which stay
	// actionable even inside an already-clickable ancestor.
	Force bool
	// Disabled mirrors the disabled/aria-disabled attribute state.
	Disabled bool
}

// hasNavigationTarget reports whether an anchor actually goes somewhere.
func hasNavigationTarget(n *RenderNode) bool {
	if n.Tag != "a" {
		return false
	}
	href, ok := n.Attr("href")
	if !ok {
		return false
	}
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return false
	}
	return !strings.HasPrefix(strings.ToLower(href), "javascript:void")
}

func isDisabled(n *RenderNode) bool {
	if n.HasAttr("disabled") {
		return true
	}
	if v, ok := n.Attr("aria-disabled"); ok && strings.EqualFold(v, "true") {
		return true
	}
	return false
}

// probablyClickable is the raw affordance test, before ancestor suppression.
func probablyClickable(n *RenderNode) bool {
	if isNativeActionableTag(n.Tag) {
		return true
	}
	if hasNavigationTarget(n) {
		return true
	}
	if n.HasAttr("onclick") {
		return true
	}
	for _, attr := range dismissAttrs {
		if n.HasAttr(attr) {
			return true
		}
	}
	if role, ok := n.Attr("role"); ok {
		if _, actionable := actionableRoles[strings.ToLower(role)]; actionable {
			return true
		}
	}
	if n.Style.Cursor == "pointer" {
		return true
	}
	// A sole pointer-cursor child usually means the parent is the real
	// click target and the child just restyles it.
	for _, child := range n.Children {
		if child.Style.Cursor == "pointer" {
			return true
		}
	}
	return false
}

// Classify decides whether a node is independently actionable.
//
// Nested affordances are suppressed: once an ancestor in the subtree is
// clickable, descendants fold into that single action. Force-clickable nodes
// (enabled native buttons, navigating anchors) break the suppression so a
// "remove" button inside an already-clickable card keeps its own action.
func Classify(n *RenderNode, parentClickable bool) Clickability {
	disabled := isDisabled(n)
	force := (n.Tag == "button" && !disabled) || hasNavigationTarget(n)
	clickable := (!parentClickable && !disabled && probablyClickable(n)) || force
	return Clickability{Clickable: clickable, Force: force, Disabled: disabled}
}
