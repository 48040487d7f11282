package unzipr

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
)

// List writes a table of contents for the selected entries, in the manner
// of "unzip -v", followed by a totals line.
func (zf *File) List(w io.Writer, sel *Selection) error {
	fmt.Fprintf(w, "Archive: %s\n", zf.Name)
	if c := zf.Comment(); c != "" {
		fmt.Fprintf(w, "Comment: %s\n", c)
	}

	tw := new(tabwriter.Writer)
	tw.Init(w, 8, 0, 1, ' ', tabwriter.AlignRight)

	fmt.Fprintln(tw, "Length\tMethod\tSize\tCmpr\tDate\tTime\tCRC-32\tName\t")
	fmt.Fprintln(tw, "------\t------\t------\t----\t----\t----\t------\t----\t")

	var files, length, size uint64
	for i := range zf.entries {
		if !sel.Has(i) {
			continue
		}
		h := &zf.entries[i]
		dt := h.modTime()
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d%%\t%s\t%s\t%08x\t%s\t\n",
			h.uncompressedSize,
			h.method,
			h.compressedSize,
			compressedPercent(h),
			dt.Format("2006-01-02"),
			dt.Format("15:04"),
			h.crc,
			h.name)
		files++
		length += uint64(h.uncompressedSize)
		size += uint64(h.compressedSize)
	}

	fmt.Fprintln(tw, "------\t\t------\t\t\t\t\t----\t")
	fmt.Fprintf(tw, "%d\t\t%d\t\t\t\t\t%d files\t\n", length, size, files)
	return tw.Flush()
}

func compressedPercent(h *entryHeader) int {
	if h.uncompressedSize == 0 {
		return 0
	}
	return int(math.Floor(float64(h.compressedSize) / float64(h.uncompressedSize) * 100))
}
