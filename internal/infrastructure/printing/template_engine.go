package printing

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"maps"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/application/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Template names
const (
	TemplateDeliveryNote = document.DeliveryNoteTemplate
)

//go:embed templates/*.html
var templateFS embed.FS

var _ document.HTMLRenderer = (*TemplateEngine)(nil)

// TemplateEngine renders the embedded HTML templates with custom functions
// for quantities, dates and markdown remarks.
type TemplateEngine struct {
	funcMap   template.FuncMap
	templates *template.Template
	markdown  goldmark.Markdown
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithFuncs adds or overrides template functions
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine parses the embedded templates
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{
		// raw HTML in remarks is escaped
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
	e.funcMap = template.FuncMap{
		"formatDecimal":  formatDecimal,
		"formatQuantity": formatQuantity,
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"title":          titleCase,
		"upper":          strings.ToUpper,
		"statusText":     statusText,
		"markdown":       e.renderMarkdown,
		"default":        defaultFunc,
		"add":            func(a, b int) int { return a + b },
	}
	for _, opt := range opts {
		opt(e)
	}
	e.templates = template.Must(template.New("").Funcs(e.funcMap).ParseFS(templateFS, "templates/*.html"))
	return e
}

// RenderHTML executes the named template with data
func (e *TemplateEngine) RenderHTML(_ context.Context, name string, data any) (string, error) {
	tmpl := e.templates.Lookup(name)
	if tmpl == nil {
		return "", NewRenderError(ErrCodeUnknownTemplate, "unknown template "+name, nil)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

// RenderString parses and executes an ad hoc template with the engine's functions
func (e *TemplateEngine) RenderString(name, content string, data any) (string, error) {
	if content == "" {
		return "", NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "failed to parse template", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

func (e *TemplateEngine) renderMarkdown(src string) template.HTML {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := e.markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String()) //nolint:gosec
}

// formatDecimal renders v with a fixed number of places
func formatDecimal(v any, places int) string {
	return toDecimal(v).StringFixed(int32(places))
}

// formatQuantity drops trailing zeros: 12.500 -> 12.5, 4.000 -> 4
func formatQuantity(v any) string {
	return toDecimal(v).String()
}

func formatDate(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTime(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// statusText turns "in_transit" into "In Transit"
func statusText(status string) string {
	return titleCase(strings.ReplaceAll(status, "_", " "))
}

func defaultFunc(def, val any) any {
	if val == nil {
		return def
	}
	if s, ok := val.(string); ok && strings.TrimSpace(s) == "" {
		return def
	}
	return val
}

func toDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero
		}
		return *val
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

func toTime(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	case string:
		for _, f := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(f, val); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
