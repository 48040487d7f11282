package unzipr

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenReadsDirectory(t *testing.T) {
	zf := openTestArchive(t, []testEntry{
		{name: "docs/readme.md", body: "hello"},
		{name: "data.bin", body: "\x00\x01\x02", stored: true},
		{name: "empty/"},
	})

	assert.Equal(t, 3, zf.NumEntries())
	assert.Equal(t, "docs/readme.md", zf.EntryName(0))
	assert.Equal(t, "data.bin", zf.EntryName(1))
	assert.Equal(t, "empty/", zf.EntryName(2))
}

func TestLocate(t *testing.T) {
	zf := openTestArchive(t, []testEntry{
		{name: "a.txt", body: "first"},
		{name: "b.txt", body: "second"},
		{name: "a.txt", body: "duplicate"},
	})

	i, ok := zf.Locate("b.txt")
	require.True(t, ok)
	assert.Equal(t, 1, i)

	// First occurrence wins for duplicated names.
	i, ok = zf.Locate("a.txt")
	require.True(t, ok)
	assert.Equal(t, 0, i)

	_, ok = zf.Locate("missing.txt")
	assert.False(t, ok)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := OpenWithFs("nope.zip", afero.NewMemMapFs())
	assert.Error(t, err)
}

func TestOpenNotAnArchive(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "short", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "junk", bytes.Repeat([]byte("junk"), 64), 0o644))

	_, err := OpenWithFs("short", fs)
	assert.True(t, errors.Is(err, ErrNotArchive))

	_, err = OpenWithFs("junk", fs)
	assert.True(t, errors.Is(err, ErrNotArchive))
}

func TestOpenMalformedDirectory(t *testing.T) {
	// An end-of-directory record that claims one entry, pointing at 46
	// bytes that carry no central header signature.
	dir := make([]byte, 46)
	rec := make([]byte, 22)
	copy(rec, sigEndOfDirectory)
	binary.LittleEndian.PutUint16(rec[10:], 1)
	binary.LittleEndian.PutUint32(rec[12:], 46)
	binary.LittleEndian.PutUint32(rec[16:], 0)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.zip", append(dir, rec...), 0o644))

	_, err := OpenWithFs("bad.zip", fs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed central directory")
}

func TestOpenReadsComment(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, err := w.Create("a.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("aaa"))
	require.NoError(t, err)
	require.NoError(t, w.SetComment("backup of a"))
	require.NoError(t, w.Close())

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "c.zip", buf.Bytes(), 0o644))

	zf, err := OpenWithFs("c.zip", fs)
	require.NoError(t, err)
	defer zf.Close()
	assert.Equal(t, "backup of a", zf.Comment())
}

func TestCompressionMethodString(t *testing.T) {
	assert.Equal(t, "stored", MethodStored.String())
	assert.Equal(t, "deflated", MethodDeflated.String())
	assert.Equal(t, "12", CompressionMethod(12).String())
}
