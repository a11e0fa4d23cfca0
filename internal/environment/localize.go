package environment

import (
	"maps"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"envrepo/pkg/logging"
)

// Text is a localizable string handle. Consumers only ever render it.
type Text interface {
	String() string
}

// Localizer turns raw text into a Text handle.
type Localizer interface {
	Localize(text string) Text
}

// LocalizerFunc adapts a function to the Localizer interface.
type LocalizerFunc func(text string) Text

// Localize calls f(text).
func (f LocalizerFunc) Localize(text string) Text {
	return f(text)
}

// PlainText is a Text that renders to itself.
type PlainText string

func (t PlainText) String() string {
	return string(t)
}

// PassthroughLocalizer returns the raw text unchanged.
type PassthroughLocalizer struct{}

// Localize implements Localizer.
func (PassthroughLocalizer) Localize(text string) Text {
	return PlainText(text)
}

// RenderedText is produced by TemplateLocalizer. Raw keeps the original
// input so it can be re-rendered with other variables.
type RenderedText struct {
	Raw      string
	Rendered string
}

func (t RenderedText) String() string {
	return t.Rendered
}

// TemplateLocalizer renders text as a Go template with the sprig function
// library and a fixed set of variables, e.g. "{{ .team | upper }} backend".
// Text without template actions is returned as is. Text that fails to parse
// or execute falls back to the raw input.
type TemplateLocalizer struct {
	vars map[string]string
}

// NewTemplateLocalizer creates a TemplateLocalizer with a copy of vars.
func NewTemplateLocalizer(vars map[string]string) *TemplateLocalizer {
	return &TemplateLocalizer{vars: maps.Clone(vars)}
}

// Localize implements Localizer.
func (l *TemplateLocalizer) Localize(text string) Text {
	if !strings.Contains(text, "{{") {
		return RenderedText{Raw: text, Rendered: text}
	}

	tmpl, err := template.New("text").Funcs(sprig.TxtFuncMap()).Option("missingkey=zero").Parse(text)
	if err != nil {
		logging.Debug("Localizer", "Cannot parse %q: %v", text, err)
		return RenderedText{Raw: text, Rendered: text}
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, l.vars); err != nil {
		logging.Debug("Localizer", "Cannot render %q: %v", text, err)
		return RenderedText{Raw: text, Rendered: text}
	}
	return RenderedText{Raw: text, Rendered: sb.String()}
}
