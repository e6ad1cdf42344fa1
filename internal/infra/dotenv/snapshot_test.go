package dotenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/apix/internal/domain"
)

func TestLoad_ProcessEnvWinsOverDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("GITHUB_TOKEN=from-file\nEXTRA=only-file\n# comment\n"), 0o600))

	snap, err := Load([]string{"GITHUB_TOKEN=from-process", "EMPTY="}, path)
	require.NoError(t, err)

	v, ok := snap.Lookup("GITHUB_TOKEN")
	assert.True(t, ok)
	assert.Equal(t, "from-process", v)

	v, ok = snap.Lookup("EXTRA")
	assert.True(t, ok)
	assert.Equal(t, "only-file", v)

	v, ok = snap.Lookup("EMPTY")
	assert.True(t, ok, "empty but set is still set")
	assert.Equal(t, "", v)

	_, ok = snap.Lookup("MISSING")
	assert.False(t, ok)
}

func TestLoad_MissingFileIsSkipped(t *testing.T) {
	snap, err := Load(nil, filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	_, ok := snap.Lookup("ANY")
	assert.False(t, ok)
}

func TestSnapshot_Resolver(t *testing.T) {
	r := FromMap(map[string]string{"HOST": "api.example.com"}).Resolver()

	got, err := r.ResolveString("https://${HOST}")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", got)

	_, err = r.ResolveString("${NOPE}")
	assert.True(t, domain.IsKind(err, domain.KindEnvVarNotFound))
}
