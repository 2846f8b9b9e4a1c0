package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	require.Equal(t, "CASE FILE #EGO-001", c.Title)
	require.Len(t, c.Suspects(), SuspectCount)
	for i, s := range c.Suspects() {
		require.Equal(t, SuspectOrder()[i], s.ID)
		require.NotEmpty(t, s.Exchanges)
	}
	require.Len(t, c.Fragments, FragmentCount)
	require.Len(t, c.Contradictions, ContradictionCount)
	require.Len(t, c.Blame, len(BlameTargets()))
	require.Equal(t, 21*time.Second, c.CloseCaseAfter)
	require.Equal(t, 18*time.Second, c.Revelation[len(c.Revelation)-1].Delay)

	social, ok := c.Suspect(SuspectSocialMedia)
	require.True(t, ok)
	require.Equal(t, "SOCIAL MEDIA", social.Name)
	require.Equal(t, "You turned self-worth into a number.", social.Exchanges[0].Approaches[1])
	require.Equal(t, "The numbers were always there. I just made them visible.", social.Exchanges[0].Responses[1])

	q, ok := c.Question(1)
	require.True(t, ok)
	_, ok = q.Option("c")
	require.True(t, ok)
	_, ok = q.Option("z")
	require.False(t, ok)
}

func TestSuspectOrder_isACopy(t *testing.T) {
	order := SuspectOrder()
	order[0] = SuspectValidation
	require.Equal(t, SuspectSocialMedia, SuspectOrder()[0])
}

func TestInterpolate(t *testing.T) {
	require.Equal(t, "Interesting choice, Avery.", Interpolate("Interesting choice, {name}.", "Avery"))
	require.Equal(t, "no placeholder", Interpolate("no placeholder", "Avery"))
}

func TestParse_malformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(raw *rawCatalog)
		want   string
	}{
		{
			name:   "missing suspect",
			mutate: func(raw *rawCatalog) { raw.Suspects = raw.Suspects[:3] },
			want:   "missing suspect",
		},
		{
			name:   "unknown suspect",
			mutate: func(raw *rawCatalog) { raw.Suspects[0].ID = "envy" },
			want:   "unknown suspect",
		},
		{
			name: "three approaches",
			mutate: func(raw *rawCatalog) {
				ex := &raw.Suspects[1].Exchanges[0]
				ex.Approaches = append(ex.Approaches, "a third way")
			},
			want: "exactly two approaches",
		},
		{
			name:   "suspect without exchanges",
			mutate: func(raw *rawCatalog) { raw.Suspects[2].Exchanges = nil },
			want:   "suspect without exchanges",
		},
		{
			name:   "four fragments",
			mutate: func(raw *rawCatalog) { raw.Fragments = raw.Fragments[:4] },
			want:   "wrong number of fragments",
		},
		{
			name:   "duplicate fragment",
			mutate: func(raw *rawCatalog) { raw.Fragments[4].ID = 1 },
			want:   "fragment id must be unique",
		},
		{
			name:   "contradictions out of order",
			mutate: func(raw *rawCatalog) { raw.Contradictions[0].ID = 3 },
			want:   "contradiction ids",
		},
		{
			name:   "missing blame verdict",
			mutate: func(raw *rawCatalog) { raw.Blame = raw.Blame[1:] },
			want:   "missing blame verdict",
		},
		{
			name:   "missing leaning",
			mutate: func(raw *rawCatalog) { delete(raw.Leanings, "middle") },
			want:   "missing leaning message",
		},
		{
			name: "revelation out of order",
			mutate: func(raw *rawCatalog) {
				raw.Revelation[1].DelayMS = 20000
			},
			want: "scheduled before its predecessor",
		},
		{
			name: "single option question",
			mutate: func(raw *rawCatalog) {
				raw.Assessment[0].Options = raw.Assessment[0].Options[:1]
			},
			want: "at least two options",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw rawCatalog
			require.NoError(t, yaml.Unmarshal(Raw(), &raw))
			tt.mutate(&raw)
			out, err := yaml.Marshal(raw)
			require.NoError(t, err)

			c, err := Parse(bytes.NewReader(out))
			require.ErrorIs(t, err, ErrMalformed)
			require.Nil(t, c)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_unknownField(t *testing.T) {
	src := string(Raw()) + "\nsequel: true\n"
	_, err := Parse(strings.NewReader(src))
	require.ErrorIs(t, err, ErrMalformed)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "case.yaml")
	require.NoError(t, os.WriteFile(path, Raw(), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "CASE FILE #EGO-001", c.Title)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
