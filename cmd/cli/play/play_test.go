package play

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/myrjola/casefile/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_loadCatalog(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "case.yaml")
	require.NoError(t, os.WriteFile(valid, catalog.Raw(), 0o600))
	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("title: [unterminated"), 0o600))

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "built-in", path: "", wantErr: false},
		{name: "file", path: valid, wantErr: false},
		{name: "invalid file", path: invalid, wantErr: true},
		{name: "missing file", path: filepath.Join(dir, "missing.yaml"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				c   *catalog.Catalog
				err error
			)
			assert.NotPanics(t, func() { c, err = loadCatalog(tt.path) })
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, catalog.MustLoad().Title, c.Title)
		})
	}
}
