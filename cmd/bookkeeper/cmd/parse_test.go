package cmd

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItem(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantQty   int64
		wantDesc  string
		wantPrice string
		wantErr   bool
	}{
		{name: "plain", input: "2|Consulting|50.00", wantQty: 2, wantDesc: "Consulting", wantPrice: "50.00"},
		{name: "spaces and dollar", input: " 1 | Travel to site | $42.5 ", wantQty: 1, wantDesc: "Travel to site", wantPrice: "42.50"},
		{name: "pipe in description", input: "3|A|B|1", wantErr: true},
		{name: "zero quantity", input: "0|Credit note line|0", wantQty: 0, wantDesc: "Credit note line", wantPrice: "0.00"},
		{name: "missing field", input: "2|Consulting", wantErr: true},
		{name: "negative quantity", input: "-1|x|1", wantErr: true},
		{name: "fractional quantity", input: "1.5|x|1", wantErr: true},
		{name: "negative price", input: "1|x|-1", wantErr: true},
		{name: "bad price", input: "1|x|ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := parseItem(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantQty, item.Quantity)
			assert.Equal(t, tt.wantDesc, item.Description)
			assert.Equal(t, tt.wantPrice, item.UnitPrice.StringFixed(2))
		})
	}
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-3", "abc"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"ID", "NAME"}, [][]string{{"1", "Acme Pty Ltd"}, {"22", "B"}})
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Acme Pty Ltd")
	assert.Contains(t, out, "22")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Greater(t, len(lines), 3)
	width := lipgloss.Width(lines[0])
	for _, line := range lines {
		assert.Equal(t, width, lipgloss.Width(line), line)
	}
}
