// internal/semantics/simplified.go
package semantics

import "strings"

// Annotation marks a simplified node as interactive. A zero Annotation means
// the node is plain content.
type Annotation struct {
	SemanticID string
	Clickable  bool
	Hoverable  bool
	Disabled   bool
}

// Live reports whether the annotation binds an id the host can act on.
func (a Annotation) Live() bool { return a.SemanticID != "" }

// SimplifiedNode is one node of the pruned, annotated output tree. Element
// nodes carry a tag; text nodes carry Text and an empty tag. The tree is
// built, returned and discarded per invocation.
type SimplifiedNode struct {
	Tag      string
	Attrs    []Attribute
	Children []*SimplifiedNode
	Text     string

	Annotation Annotation

	// Input and Select hold the typed control snapshot gathered during the
	// walk; the metadata extractor collects them in document order.
	Input  *InputState
	Select *SelectState
}

// Attribute is one filtered output attribute. A slice keeps serialization
// order deterministic (insertion order, allow-list first).
type Attribute struct {
	Key string
	Val string
}

// InputState is the pre-schema snapshot of a text-entry control.
type InputState struct {
	ID             string
	Value          string
	Disabled       bool
	Editable       bool
	Focused        bool
	SelectionStart int
	SelectionEnd   int
}

// SelectState is the pre-schema snapshot of a select control.
type SelectState struct {
	ID            string
	Value         string
	Disabled      bool
	Focused       bool
	SelectedIndex int
	Multiple      bool
	Options       []OptionState
}

// OptionState is one option of a select, carrying its own semantic id.
type OptionState struct {
	ID       string
	Label    string
	Value    string
	Selected bool
}

// IsText reports whether the node is a text run rather than an element.
func (s *SimplifiedNode) IsText() bool { return s.Tag == "" }

// Attr returns the value of an output attribute, or "".
func (s *SimplifiedNode) Attr(key string) string {
	for _, a := range s.Attrs {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// setAttr inserts or replaces an output attribute.
func (s *SimplifiedNode) setAttr(key, val string) {
	for i := range s.Attrs {
		if s.Attrs[i].Key == key {
			s.Attrs[i].Val = val
			return
		}
	}
	s.Attrs = append(s.Attrs, Attribute{Key: key, Val: val})
}

// Empty implements the emptiness classifier: true means the node carries no
// information and may be pruned.
//
// Preserved tags, dynamic containers and nodes with a live interactive
// annotation are never empty; those rules dominate pruning so an actionable
// node can never be dropped for carrying no text. Otherwise a node is empty
// iff no descendant text run holds non-whitespace content and every
// descendant element is itself empty. The check short-circuits on the first
// informative descendant.
//
// Callers evaluate this on the post-recursion clone: a visible node that
// loses all content once its children are pruned becomes prunable itself.
func (c Config) Empty(s *SimplifiedNode) bool {
	if s == nil {
		return true
	}
	if s.IsText() {
		return strings.TrimSpace(s.Text) == ""
	}
	if isPreservedTag(s.Tag) {
		return false
	}
	if s.Annotation.Live() {
		return false
	}
	if cls := s.Attr("class"); cls != "" &&
		matchesDynamicContainer(strings.Fields(cls), c.DynamicContainerVocabulary) {
		return false
	}
	for _, child := range s.Children {
		if !c.Empty(child) {
			return false
		}
	}
	return true
}
