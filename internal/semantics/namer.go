// internal/semantics/namer.go
package semantics

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Registry is the invocation-scoped set of assigned semantic ids. It is
// created when an invocation starts and discarded with it; ids never leak
// across invocations, which is what makes naming a pure function of the
// current tree shape.
type Registry struct {
	used map[string]struct{}
}

// NewRegistry returns an empty id registry.
func NewRegistry() *Registry {
	return &Registry{used: make(map[string]struct{})}
}

// Claim returns base verbatim if unused, otherwise base with the smallest
// unused positive integer suffix appended. The returned id is recorded.
func (r *Registry) Claim(base string) string {
	if _, taken := r.used[base]; !taken {
		r.used[base] = struct{}{}
		return base
	}
	for n := 1; ; n++ {
		candidate := base + strconv.Itoa(n)
		if _, taken := r.used[candidate]; !taken {
			r.used[candidate] = struct{}{}
			return candidate
		}
	}
}

// Has reports whether an id has been assigned in this invocation.
func (r *Registry) Has(id string) bool {
	_, ok := r.used[id]
	return ok
}

// Len returns the number of assigned ids.
func (r *Registry) Len() int { return len(r.used) }

// Slug normalizes a label into an id segment: lower-case, word characters
// only, whitespace runs collapsed to single underscores, truncated to maxLen.
func Slug(label string, maxLen int) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(label) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
		if maxLen > 0 && b.Len() >= maxLen {
			break
		}
	}
	s := b.String()
	if maxLen > 0 && len(s) > maxLen {
		// Cut on a rune boundary so the id stays valid UTF-8.
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return strings.Trim(s, "_")
}

// DeriveLabel picks the naming label for a node: visible inner text first,
// then the title attribute, then the placeholder, then the tag name.
func (c Config) DeriveLabel(n *RenderNode) string {
	// A select's descendant text is its option list, not a label.
	if n.Tag != "select" {
		if txt := n.InnerText(c.LabelMaxLen * 4); txt != "" {
			return txt
		}
	}
	if title, ok := n.Attr("title"); ok && strings.TrimSpace(title) != "" {
		return title
	}
	if ph, ok := n.Attr("placeholder"); ok && strings.TrimSpace(ph) != "" {
		return ph
	}
	return n.Tag
}

// Name derives and claims a semantic id for a node. parentPath is the id of
// the nearest actionable ancestor ("" at top level); the hierarchical
// candidate keeps identical labels under different ancestors from colliding
// gratuitously.
func (c Config) Name(reg *Registry, n *RenderNode, parentPath string) string {
	label := Slug(c.DeriveLabel(n), c.LabelMaxLen)
	if label == "" {
		label = Slug(n.Tag, c.LabelMaxLen)
	}
	if label == "" {
		label = "node"
	}
	if parentPath != "" {
		label = parentPath + "." + label
	}
	return reg.Claim(label)
}
