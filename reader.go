package unzipr

import (
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/pkg/errors"
)

// openEntry positions the archive file at the entry's data and returns a
// reader for the uncompressed bytes. The archive's seek position belongs
// to the returned reader until it is closed, so entries must be consumed
// one at a time.
func (zf *File) openEntry(i int) (io.ReadCloser, error) {
	h := &zf.entries[i]

	// The name and extra field lengths in the local header may differ from
	// the central directory copy, so read them from the file before
	// seeking past them to the entry data.
	if _, err := zf.file.Seek(int64(h.localOffset)+26, io.SeekStart); err != nil {
		return nil, errors.Wrapf(err, "open entry %s", h.name)
	}
	var lengths [4]byte
	if _, err := io.ReadFull(zf.file, lengths[:]); err != nil {
		return nil, errors.Wrapf(err, "open entry %s", h.name)
	}
	nameLength := binary.LittleEndian.Uint16(lengths[0:2])
	extraLength := binary.LittleEndian.Uint16(lengths[2:4])
	if _, err := zf.file.Seek(int64(nameLength)+int64(extraLength), io.SeekCurrent); err != nil {
		return nil, errors.Wrapf(err, "open entry %s", h.name)
	}

	raw := io.LimitReader(zf.file, int64(h.compressedSize))
	switch h.method {
	case MethodStored:
		return io.NopCloser(raw), nil
	case MethodDeflated:
		return flate.NewReader(raw), nil
	default:
		return nil, errors.Errorf("open entry %s: unsupported compression method %s", h.name, h.method)
	}
}
