package printing

import (
	"strings"
	"time"
)

// Paper is a sheet format in millimeters
type Paper struct {
	Name     string
	WidthMM  float64
	HeightMM float64
}

// Supported paper formats
var (
	PaperA4     = Paper{Name: "A4", WidthMM: 210, HeightMM: 297}
	PaperA5     = Paper{Name: "A5", WidthMM: 148, HeightMM: 210}
	PaperLetter = Paper{Name: "LETTER", WidthMM: 215.9, HeightMM: 279.4}
)

// PaperByName looks a format up case-insensitively
func PaperByName(name string) (Paper, bool) {
	for _, p := range []Paper{PaperA4, PaperA5, PaperLetter} {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Paper{}, false
}

func (p Paper) valid() bool {
	return p.WidthMM > 0 && p.HeightMM > 0
}

// Layout describes how a document is put on paper
type Layout struct {
	Paper     Paper
	Landscape bool
	// MarginMM applies to every edge
	MarginMM float64
	Title    string
	// Footer is a Chrome footer template; pageNumber and totalPages spans are filled in
	Footer string
	// Timeout overrides the renderer default
	Timeout time.Duration
}

// pageCounterFooter prints "n / total" centered at the bottom of each page
const pageCounterFooter = `<div style="font-size:8px;width:100%;text-align:center"><span class="pageNumber"></span> / <span class="totalPages"></span></div>`

// DeliveryNoteLayout is A4 portrait with 10mm margins and page numbers
func DeliveryNoteLayout() Layout {
	return Layout{Paper: PaperA4, MarginMM: 10, Footer: pageCounterFooter}
}

// Error codes carried by RenderError
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeUnknownTemplate  = "UNKNOWN_TEMPLATE"
)

// RenderError is returned by the template engine and the PDF renderer
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

// NewRenderError creates a RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

func (e *RenderError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RenderError) Unwrap() error { return e.Cause }
