package unzipr

import (
	"hash/crc32"
	"io"
	"path"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Extract writes every selected entry beneath the current directory of fs.
// Each file is streamed to a temporary name while its CRC-32 is computed
// and only renamed into place when the checksum matches, so a damaged
// entry never leaves a plausible-looking file behind. The first failure
// aborts the run.
func (zf *File) Extract(fs afero.Fs, sel *Selection) error {
	for i := range zf.entries {
		if !sel.Has(i) {
			continue
		}
		if err := zf.extractEntry(fs, i); err != nil {
			return err
		}
	}
	return nil
}

func (zf *File) extractEntry(fs afero.Fs, i int) error {
	h := &zf.entries[i]
	if h.isDir() {
		return fs.MkdirAll(h.name, 0o755)
	}
	if dir := path.Dir(h.name); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "extract %s", h.name)
		}
	}

	r, err := zf.openEntry(i)
	if err != nil {
		return err
	}
	defer r.Close()

	tmp := tempName(h.name)
	out, err := fs.Create(tmp)
	if err != nil {
		return errors.Wrapf(err, "extract %s", h.name)
	}
	sum := crc32.NewIEEE()
	if _, err := io.Copy(out, io.TeeReader(r, sum)); err != nil {
		closeAndRemove(fs, out, tmp)
		return errors.Wrapf(err, "extract %s", h.name)
	}
	if got := sum.Sum32(); got != h.crc {
		closeAndRemove(fs, out, tmp)
		return errors.Errorf("extract %s: crc mismatch: got %08x, want %08x", h.name, got, h.crc)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, "extract %s", h.name)
	}
	// Replaces any existing file of the same name.
	return fs.Rename(tmp, h.name)
}

// tempName keeps temporary output names in one place for the sake of
// keeping them standard.
func tempName(name string) string {
	return name + ".tmp"
}

func closeAndRemove(fs afero.Fs, f afero.File, name string) {
	f.Close()
	fs.Remove(name)
}
