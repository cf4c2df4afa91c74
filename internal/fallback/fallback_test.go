package fallback

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/schema"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/tabular"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedDecodes(t *testing.T) {
	res := tabular.Decode(Embedded())
	assert.Empty(t, res.Warnings)
	require.NotEmpty(t, res.Records)

	ali, ok := res.Records.FindByIdentity("840110075583")
	require.True(t, ok)
	assert.Equal(t, "1", ali.Key())
	assert.Contains(t, ali.Get(schema.ALAMAT_TERKINI), "\n")
}

func TestEmbeddedIsCopied(t *testing.T) {
	a := Embedded()
	a[0] = 'x'
	assert.NotEqual(t, a[0], Embedded()[0])
}

func TestLoad(t *testing.T) {
	b, err := Load("  ")
	require.NoError(t, err)
	assert.Equal(t, Embedded(), b)

	path := filepath.Join(t.TempDir(), "staff.csv")
	require.NoError(t, os.WriteFile(path, []byte("BIL,NAMA\n9,Zul\n"), 0o644))
	b, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "BIL,NAMA\n9,Zul\n", string(b))

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
