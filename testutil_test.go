package unzipr

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// testEntry describes one entry of a fixture archive. Names ending in "/"
// become directory entries and their body is ignored.
type testEntry struct {
	name   string
	body   string
	stored bool
}

// writeArchive builds a ZIP file on fs from the given entries, in order.
func writeArchive(t *testing.T, fs afero.Fs, name string, entries []testEntry) {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.name, Method: zip.Deflate}
		if e.stored {
			hdr.Method = zip.Store
		}
		fw, err := w.CreateHeader(hdr)
		require.NoError(t, err)
		if len(e.body) > 0 {
			_, err = fw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())
	require.NoError(t, afero.WriteFile(fs, name, buf.Bytes(), 0o644))
}

// openTestArchive builds an archive on a fresh in-memory filesystem and
// opens it. The archive is closed when the test finishes.
func openTestArchive(t *testing.T, entries []testEntry) *File {
	t.Helper()

	fs := afero.NewMemMapFs()
	writeArchive(t, fs, "test.zip", entries)
	zf, err := OpenWithFs("test.zip", fs)
	require.NoError(t, err)
	t.Cleanup(func() { zf.Close() })
	return zf
}
