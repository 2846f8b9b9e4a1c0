package casefile_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/myrjola/casefile/cmd/cli/casefile"
	"github.com/myrjola/casefile/internal/catalog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "casefile-cli", SilenceUsage: true, SilenceErrors: true}
	root.AddGroup(casefile.Group)
	root.AddCommand(casefile.Validate, casefile.Dump)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	root.RemoveCommand(casefile.Validate, casefile.Dump)
	return out.String(), err
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "case.yaml")
	require.NoError(t, os.WriteFile(valid, catalog.Raw(), 0o600))
	invalid := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("title: only a title\n"), 0o600))

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"built-in case", []string{"validate"}, "built-in case: \"CASE FILE #EGO-001\" is valid", false},
		{"file", []string{"validate", valid}, "with 5 fragments", false},
		{"invalid file", []string{"validate", invalid}, "", true},
		{"missing file", []string{"validate", filepath.Join(dir, "missing.yaml")}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestDump(t *testing.T) {
	out, err := execute(t, "dump")
	require.NoError(t, err)
	c, err := catalog.Parse(bytes.NewReader([]byte(out)))
	require.NoError(t, err)
	assert.Equal(t, catalog.MustLoad().Title, c.Title)
}
