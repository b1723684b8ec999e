package printing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaperByName(t *testing.T) {
	p, ok := PaperByName("a5")
	require.True(t, ok)
	assert.Equal(t, PaperA5, p)

	p, ok = PaperByName("Letter")
	require.True(t, ok)
	assert.Equal(t, 215.9, p.WidthMM)

	_, ok = PaperByName("A3")
	assert.False(t, ok)
	assert.False(t, Paper{Name: "B7"}.valid())
}

func TestDeliveryNoteLayout(t *testing.T) {
	l := DeliveryNoteLayout()
	assert.Equal(t, PaperA4, l.Paper)
	assert.False(t, l.Landscape)
	assert.Equal(t, 10.0, l.MarginMM)
	assert.Contains(t, l.Footer, `class="totalPages"`)
}

func TestRenderError(t *testing.T) {
	cause := errors.New("context deadline exceeded")

	err := NewRenderError(ErrCodeRenderTimeout, "render timed out", cause)
	assert.Equal(t, "render timed out: context deadline exceeded", err.Error())
	assert.ErrorIs(t, err, cause)

	var re *RenderError
	require.ErrorAs(t, error(err), &re)
	assert.Equal(t, ErrCodeRenderTimeout, re.Code)

	bare := NewRenderError(ErrCodeInvalidHTML, "html is empty", nil)
	assert.Equal(t, "html is empty", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
