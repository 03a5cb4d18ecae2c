package depot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routeeob/internal/model"
)

func TestDefault_OrderAndNames(t *testing.T) {
	t.Parallel()

	c := Default()
	require.Equal(t, 12, c.Len())
	assert.Equal(t, []string{
		"D9Q00001", "D9Q00002", "D9Q00003", "D9Q00004", "D9Q00005", "D9Q00006",
		"D9Q00007", "D9Q00017", "D9Q00030", "D9Q00040", "D9Q00041", "D9Q00043",
	}, c.Codes())
	assert.Equal(t, []string{
		"Spokane", "Pasco", "Kalispell", "Moses Lake", "Missoula", "Lewiston",
		"Malott", "Walla Walla", "Sandpoint", "Yakima", "Ellensburg", "St. Regis",
	}, c.Names())

	name, err := c.Name("D9Q00043")
	require.NoError(t, err)
	assert.Equal(t, "St. Regis", name)
}

func TestCatalog_CodesIsCopy(t *testing.T) {
	t.Parallel()

	c := Default()
	codes := c.Codes()
	codes[0] = "XXX"
	assert.Equal(t, "D9Q00001", c.Codes()[0])
}

func TestCatalog_UnknownCodeIsFatal(t *testing.T) {
	t.Parallel()

	_, err := Default().Name("D9Q99999")
	var fe *model.FatalConfigError
	require.True(t, errors.As(err, &fe))
	assert.False(t, Default().Contains("D9Q99999"))
}

func TestNew_RejectsBadEntries(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	require.Error(t, err)

	_, err = New([]Entry{{Code: "A", Name: "Alpha"}, {Code: "A", Name: "Again"}})
	require.Error(t, err)

	_, err = New([]Entry{{Code: "A"}})
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	c, err := LoadFile("")
	require.NoError(t, err)
	assert.Same(t, Default(), c)

	path := filepath.Join(t.TempDir(), "catalog.toml")
	data := []byte("[[depot]]\ncode = \"X1\"\nname = \"North\"\n\n[[depot]]\ncode = \"X2\"\nname = \"South\"\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	c, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"X1", "X2"}, c.Codes())
	assert.Equal(t, []string{"North", "South"}, c.Names())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
