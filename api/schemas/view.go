// api/schemas/view.go
package schemas

// PageView is the structured result of one simplification invocation: the
// machine-actionable "semantic view" of a rendered page that an autonomous
// decision-maker reads and acts on. It is the engine's entire output
// contract; turning a chosen id into a concrete UI action is the host's job.
type PageView struct {
	// Markup is the serialized simplified tree. Every actionable or editable
	// node carries its semantic id as the id attribute.
	Markup string `json:"markup"`

	// ClickableIDs lists independently actionable ids in document order.
	ClickableIDs []string `json:"clickable_ids"`

	// HoverableIDs lists ids inside hover-instrumented regions, in document
	// order.
	HoverableIDs []string `json:"hoverable_ids"`

	Inputs  []InputSnapshot  `json:"input_snapshots"`
	Selects []SelectSnapshot `json:"select_snapshots"`

	Toast ToastSummary `json:"toast_summary"`
}

// InputSnapshot captures the state of a text-entry control (text-like input,
// textarea, or contenteditable host) at invocation time.
type InputSnapshot struct {
	ID             string `json:"id"`
	Value          string `json:"value"`
	Disabled       bool   `json:"disabled"`
	Editable       bool   `json:"editable"`
	Focused        bool   `json:"focused"`
	SelectionStart int    `json:"selection_start"`
	SelectionEnd   int    `json:"selection_end"`
}

// SelectSnapshot captures a select control with its full option list. Every
// option carries its own semantic id, derived from the select's id.
type SelectSnapshot struct {
	ID            string           `json:"id"`
	Value         string           `json:"value"`
	Disabled      bool             `json:"disabled"`
	Focused       bool             `json:"focused"`
	SelectedIndex int              `json:"selected_index"`
	Multiple      bool             `json:"multiple"`
	Options       []OptionSnapshot `json:"options"`
}

// OptionSnapshot is one option of a select.
type OptionSnapshot struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// ToastSummary aggregates transient feedback text (toasts, cart banners)
// supplied by an optional host hook. A missing or failing hook yields the
// zero value; it is never an error.
type ToastSummary struct {
	Count    int      `json:"count"`
	Messages []string `json:"messages,omitempty"`
	Changed  bool     `json:"changed"`
}
