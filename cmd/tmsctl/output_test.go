package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTable(t *testing.T) {
	tbl := table{
		header: []string{"SUBDOMAIN", "STATUS"},
		rows:   [][]string{{"acme", "active"}, {"globex-freight", "suspended"}},
		raw:    []map[string]string{{"subdomain": "acme"}},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeTable(&buf, "table", tbl))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], "SUBDOMAIN"))
		// columns are aligned
		assert.Equal(t, strings.Index(lines[0], "STATUS"), strings.Index(lines[2], "suspended"))
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeTable(&buf, "json", tbl))
		assert.JSONEq(t, `[{"subdomain":"acme"}]`, buf.String())
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, writeTable(&bytes.Buffer{}, "yaml", tbl))
	})
}

func TestCommandTree(t *testing.T) {
	want := map[string][]string{
		"tenant": {"create", "list", "suspend", "activate"},
		"user":   {"approve"},
		"roles":  {"list"},
	}
	for parent, children := range want {
		cmd, _, err := rootCmd.Find([]string{parent})
		require.NoError(t, err, parent)
		for _, child := range children {
			sub, _, err := cmd.Find([]string{child})
			require.NoError(t, err, "%s %s", parent, child)
			assert.Equal(t, child, sub.Name())
		}
	}
	seed, _, err := rootCmd.Find([]string{"seed"})
	require.NoError(t, err)
	assert.NotNil(t, seed.Flags().Lookup("bookings"))
}
