package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfiles(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBuiltin(t *testing.T) {
	p := Builtin()
	assert.Equal(t, []string{Business, Personal}, p.Names())

	sp, err := p.Lookup(Business)
	require.NoError(t, err)
	assert.Equal(t, "12 345 678 901", sp.TaxID)
	assert.NotEmpty(t, sp.Email)
}

func TestBuiltin_ReturnsCopy(t *testing.T) {
	p := Builtin()
	p.profiles[Business] = p.profiles[Personal]

	sp, err := Builtin().Lookup(Business)
	require.NoError(t, err)
	assert.Equal(t, "12 345 678 901", sp.TaxID)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		lookup    string
		wantTaxID string
		wantPhone string
	}{
		{
			name: "adds new preset",
			content: `profiles:
  studio:
    tax_id: "11 222 333 444"
    phone: "+61 2 9000 0000"
    email: "accounts@studio.example"
`,
			lookup:    "studio",
			wantTaxID: "11 222 333 444",
			wantPhone: "+61 2 9000 0000",
		},
		{
			name: "overrides builtin",
			content: `profiles:
  business:
    tax_id: "55 555 555 555"
`,
			lookup:    Business,
			wantTaxID: "55 555 555 555",
			wantPhone: "",
		},
		{
			name:      "empty file keeps builtins",
			content:   "",
			lookup:    Personal,
			wantTaxID: "98 765 432 100",
			wantPhone: "+61 400 111 222",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Load(writeProfiles(t, tt.content))
			require.NoError(t, err)

			sp, err := p.Lookup(tt.lookup)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTaxID, sp.TaxID)
			assert.Equal(t, tt.wantPhone, sp.Phone)
		})
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)
	assert.Len(t, p.Names(), 2)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read profiles file")

	_, err = Load(writeProfiles(t, "profiles: [not, a, map]"))
	assert.ErrorContains(t, err, "failed to parse YAML")
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Builtin().Lookup("studio")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "business")
}
