package printing

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChromedpRenderer_PrintParams(t *testing.T) {
	r := NewChromedpRenderer(nil)
	defer r.Close()
	inches := func(mm float64) float64 { return mm / mmPerInch }

	t.Run("delivery note", func(t *testing.T) {
		p := r.printParams(DeliveryNoteLayout())
		assert.InDelta(t, inches(210), p.PaperWidth, 0.01)
		assert.InDelta(t, inches(297), p.PaperHeight, 0.01)
		assert.InDelta(t, inches(10), p.MarginLeft, 0.01)
		assert.True(t, p.DisplayHeaderFooter)
		assert.True(t, p.PrintBackground)
		assert.False(t, p.Landscape)
		assert.Equal(t, 1.0, p.Scale)
	})

	t.Run("landscape without footer", func(t *testing.T) {
		p := r.printParams(Layout{Paper: PaperA5, Landscape: true, MarginMM: 5})
		assert.InDelta(t, inches(148), p.PaperWidth, 0.01)
		assert.InDelta(t, inches(5), p.MarginBottom, 0.01)
		assert.True(t, p.Landscape)
		assert.False(t, p.DisplayHeaderFooter)
	})

	t.Run("footer widens the bottom margin", func(t *testing.T) {
		p := r.printParams(Layout{Paper: PaperA4, MarginMM: 2, Footer: "<span></span>"})
		assert.InDelta(t, inches(minFooterMarginMM), p.MarginBottom, 0.01)
		assert.InDelta(t, inches(2), p.MarginTop, 0.01)
	})
}

func TestNewChromedpRenderer_Defaults(t *testing.T) {
	r := NewChromedpRenderer(&ChromedpConfig{Scale: 0.8, DefaultTimeout: time.Second})
	defer r.Close()
	assert.Equal(t, 0.8, r.scale)
	assert.Equal(t, time.Second, r.timeout)

	d := NewChromedpRenderer(nil)
	defer d.Close()
	assert.Equal(t, 1.0, d.scale)
	assert.Equal(t, defaultChromeTimeout, d.timeout)
}

func TestWrapDocument(t *testing.T) {
	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, wrapDocument(full, "ignored"))

	out := wrapDocument("<p>x</p>", "A & B")
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>A &amp; B</title>")
	assert.Contains(t, out, "<body><p>x</p></body>")
	assert.NotContains(t, wrapDocument("<p>x</p>", ""), "<title>")
}

func TestChromedpRenderer_Validation(t *testing.T) {
	r := NewChromedpRenderer(nil)
	defer r.Close()
	ctx := context.Background()

	var rerr *RenderError
	_, err := r.RenderPDF(ctx, "  ")
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, ErrCodeInvalidHTML, rerr.Code)

	_, err = r.Print(ctx, "<p>x</p>", Layout{Paper: Paper{Name: "B7"}})
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, ErrCodeInvalidPaperSize, rerr.Code)
}

// Needs a local Chrome; set TMS_TEST_CHROME=1 to run.
func TestChromedpRenderer_RenderPDF(t *testing.T) {
	if os.Getenv("TMS_TEST_CHROME") == "" {
		t.Skip("TMS_TEST_CHROME not set")
	}
	r := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
	defer r.Close()

	pdf, err := r.RenderPDF(context.Background(), "<h1>Delivery Note</h1>")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
}
