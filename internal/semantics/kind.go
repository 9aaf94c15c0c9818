// internal/semantics/kind.go
package semantics

import "strings"

// nodeKind is the once-per-node normalization of tag dispatch, used by the
// traversal to gate whole subtrees before the finer-grained predicates run.
type nodeKind int

const (
	kindGeneric nodeKind = iota
	// kindBlocked tags never appear in output (scripts, styles, metadata).
	kindBlocked
	// kindStructural tags anchor the document shape and are exempt from
	// same-tag collapsing.
	kindStructural
	// kindFormControl tags are preserved even when empty.
	kindFormControl
	// kindNativeActionable tags are actionable by construction.
	kindNativeActionable
	// kindWrapper tags are generic containers eligible for chain collapsing.
	kindWrapper
)

var blockedTags = map[string]struct{}{
	"script":   {},
	"style":    {},
	"link":     {},
	"meta":     {},
	"noscript": {},
	"template": {},
	"iframe":   {},
}

// preserveTags never prune for emptiness: controls carry state even when they
// carry no text, and head/title/form frame the document.
var preserveTags = map[string]struct{}{
	"input":    {},
	"select":   {},
	"option":   {},
	"textarea": {},
	"button":   {},
	"img":      {},
	"head":     {},
	"title":    {},
	"form":     {},
}

var structuralTags = map[string]struct{}{
	"html":  {},
	"body":  {},
	"head":  {},
	"form":  {},
	"table": {},
	"thead": {},
	"tbody": {},
	"tr":    {},
	"ul":    {},
	"ol":    {},
}

var nativeActionableTags = map[string]struct{}{
	"button":  {},
	"select":  {},
	"summary": {},
	"area":    {},
	"input":   {},
}

var wrapperTags = map[string]struct{}{
	"div":  {},
	"span": {},
}

var textEntryInputTypes = map[string]struct{}{
	"":         {}, // missing type defaults to text
	"text":     {},
	"search":   {},
	"email":    {},
	"url":      {},
	"tel":      {},
	"password": {},
	"number":   {},
}

var actionableRoles = map[string]struct{}{
	"button":   {},
	"link":     {},
	"menuitem": {},
	"tab":      {},
	"checkbox": {},
	"radio":    {},
	"switch":   {},
	"option":   {},
	"combobox": {},
}

// DefaultDynamicContainerVocabulary matches class tokens of transient
// feedback UI (toasts, modals, banners). Such containers are frequently
// hidden at first paint and revealed by script moments later; excluding them
// makes the downstream agent repeat an already-successful action because it
// never sees the confirmation.
var DefaultDynamicContainerVocabulary = []string{
	"overlay",
	"dialog",
	"modal",
	"toast",
	"alert",
	"notification",
	"snackbar",
	"mask",
	"message",
	"popup",
}

func isBlockedTag(tag string) bool {
	_, ok := blockedTags[tag]
	return ok
}

func isPreservedTag(tag string) bool {
	_, ok := preserveTags[tag]
	return ok
}

func isStructuralTag(tag string) bool {
	_, ok := structuralTags[tag]
	return ok
}

func isNativeActionableTag(tag string) bool {
	_, ok := nativeActionableTags[tag]
	return ok
}

func isWrapperTag(tag string) bool {
	_, ok := wrapperTags[tag]
	return ok
}

// isTextEntry reports whether the node is a text-entry control: a text-like
// input, a textarea, or a contenteditable host.
func isTextEntry(n *RenderNode) bool {
	switch n.Tag {
	case "textarea":
		return true
	case "input":
		t, _ := n.Attr("type")
		_, ok := textEntryInputTypes[strings.ToLower(t)]
		return ok
	}
	if v, ok := n.Attr("contenteditable"); ok && !strings.EqualFold(v, "false") {
		return true
	}
	return false
}

// matchesDynamicContainer reports whether any class token contains one of the
// configured dynamic-container patterns. Substring matching is deliberate:
// sites write "toast-container", "modal__backdrop", "alert-success".
func matchesDynamicContainer(classes []string, vocabulary []string) bool {
	for _, cls := range classes {
		lc := strings.ToLower(cls)
		for _, pat := range vocabulary {
			if strings.Contains(lc, pat) {
				return true
			}
		}
	}
	return false
}

// kindOf normalizes a render node into its dispatch kind. Dynamic containers
// are not a kind of their own: the class vocabulary is configurable, so the
// classifiers consult matchesDynamicContainer directly.
func kindOf(n *RenderNode) nodeKind {
	switch {
	case isBlockedTag(n.Tag):
		return kindBlocked
	case isNativeActionableTag(n.Tag):
		return kindNativeActionable
	case isPreservedTag(n.Tag):
		return kindFormControl
	case isStructuralTag(n.Tag):
		return kindStructural
	case isWrapperTag(n.Tag):
		return kindWrapper
	}
	return kindGeneric
}
