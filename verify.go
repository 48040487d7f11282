package unzipr

import (
	"fmt"
	"hash/crc32"
	"io"

	"github.com/pkg/errors"
)

// Test decompresses every selected entry and checks it against the CRC-32
// recorded in the central directory. One line per entry is written to w;
// a non-nil error is returned when at least one entry failed, so callers
// can reflect archive damage in their exit status.
func (zf *File) Test(w io.Writer, sel *Selection) error {
	failed := 0
	for i := range zf.entries {
		if !sel.Has(i) {
			continue
		}
		h := &zf.entries[i]
		if h.isDir() {
			fmt.Fprintf(w, "testing: %s OK\n", h.name)
			continue
		}
		if err := zf.checkEntry(i); err != nil {
			fmt.Fprintf(w, "testing: %s FAILED (%s)\n", h.name, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "testing: %s OK\n", h.name)
	}
	if failed > 0 {
		return errors.Errorf("integrity check failed for %d of %d entries", failed, sel.Count())
	}
	return nil
}

// checkEntry streams the entry to nowhere, computing its CRC-32 on the
// way, and compares the result with the stored checksum.
func (zf *File) checkEntry(i int) error {
	r, err := zf.openEntry(i)
	if err != nil {
		return err
	}
	defer r.Close()

	sum := crc32.NewIEEE()
	if _, err := io.Copy(sum, r); err != nil {
		return err
	}
	if got := sum.Sum32(); got != zf.entries[i].crc {
		return errors.Errorf("crc mismatch: got %08x, want %08x", got, zf.entries[i].crc)
	}
	return nil
}
