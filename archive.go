// Package unzipr reads ZIP archives: it decodes the central directory of
// an archive opened through an afero filesystem and exposes the entries
// for listing, integrity testing and extraction. The package only ever
// reads archives; there is no write path.
package unzipr

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

var (
	sigEndOfDirectory = []byte{0x50, 0x4b, 0x05, 0x06}
	sigCentralHeader  = []byte{0x50, 0x4b, 0x01, 0x02}
)

const (
	endOfDirectorySize = 22
	centralHeaderSize  = 46
	maxCommentLength   = 0xffff
)

// ErrNotArchive is reported when the opened file has no end-of-central-
// directory record, i.e. it is not a ZIP archive at all.
var ErrNotArchive = errors.New("not a zip archive")

// File is an open, read-only view of a ZIP archive. It holds the file
// handle for the duration of the run; entry metadata comes from the
// central directory, decoded once at open time.
type File struct {
	fs      afero.Fs
	Name    string
	file    afero.File
	comment []byte
	entries []entryHeader
}

// Open opens the named ZIP archive on the OS filesystem.
func Open(name string) (*File, error) {
	return OpenWithFs(name, afero.NewOsFs())
}

// OpenWithFs opens the named ZIP archive on the given filesystem and reads
// its central directory. The returned File must be closed after use.
func OpenWithFs(name string, fs afero.Fs) (*File, error) {
	file, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	zf := &File{fs: fs, Name: name, file: file}
	if err := zf.readDirectory(); err != nil {
		file.Close()
		return nil, err
	}
	return zf, nil
}

// Close closes the underlying archive file. Call it exactly once, after
// all listing, testing or extraction is done.
func (zf *File) Close() error {
	return zf.file.Close()
}

// NumEntries returns the number of entries in the central directory.
func (zf *File) NumEntries() int {
	return len(zf.entries)
}

// EntryName returns the name of the entry at the given index. Indices are
// dense in [0, NumEntries()).
func (zf *File) EntryName(i int) string {
	return zf.entries[i].name
}

// Comment returns the archive comment, if any.
func (zf *File) Comment() string {
	return string(zf.comment)
}

// Locate resolves an entry name to its index by exact match. When the
// archive holds several entries with the same name, the first one wins.
func (zf *File) Locate(name string) (int, bool) {
	for i := range zf.entries {
		if zf.entries[i].name == name {
			return i, true
		}
	}
	return 0, false
}

// readDirectory locates the end-of-central-directory record by scanning
// the tail of the file, then decodes every central directory header into
// zf.entries. The local file headers are not touched here; they are read
// lazily when an entry is opened.
func (zf *File) readDirectory() error {
	size, err := zf.file.Seek(0, io.SeekEnd)
	if err != nil {
		return newArchiveError("read directory", err)
	}
	if size < endOfDirectorySize {
		return newArchiveError("read directory", ErrNotArchive)
	}

	// The record is 22 bytes followed by a comment of at most 64k, so the
	// signature must live inside the last 64k+22 bytes of the file.
	tail := int64(endOfDirectorySize + maxCommentLength)
	if tail > size {
		tail = size
	}
	buf := make([]byte, tail)
	if _, err := zf.file.Seek(size-tail, io.SeekStart); err != nil {
		return newArchiveError("read directory", err)
	}
	if _, err := io.ReadFull(zf.file, buf); err != nil {
		return newArchiveError("read directory", err)
	}
	p := bytes.LastIndex(buf, sigEndOfDirectory)
	if p < 0 || len(buf)-p < endOfDirectorySize {
		return newArchiveError("read directory", ErrNotArchive)
	}
	rec := buf[p:]

	numEntries := int(binary.LittleEndian.Uint16(rec[10:12]))
	dirSize := binary.LittleEndian.Uint32(rec[12:16])
	dirOffset := binary.LittleEndian.Uint32(rec[16:20])
	commentLength := int(binary.LittleEndian.Uint16(rec[20:22]))
	if commentLength > 0 && endOfDirectorySize+commentLength <= len(rec) {
		zf.comment = append([]byte(nil), rec[endOfDirectorySize:endOfDirectorySize+commentLength]...)
	}

	dir := make([]byte, dirSize)
	if _, err := zf.file.Seek(int64(dirOffset), io.SeekStart); err != nil {
		return newArchiveError("read directory", err)
	}
	if _, err := io.ReadFull(zf.file, dir); err != nil {
		return newArchiveError("read directory", err)
	}

	zf.entries = make([]entryHeader, 0, numEntries)
	for i := 0; i < numEntries; i++ {
		h, n, err := decodeCentralHeader(dir)
		if err != nil {
			return err
		}
		zf.entries = append(zf.entries, h)
		dir = dir[n:]
	}
	return nil
}

// decodeCentralHeader decodes one central directory header from the front
// of b and returns it together with the number of bytes it occupied.
func decodeCentralHeader(b []byte) (entryHeader, int, error) {
	var h entryHeader
	if len(b) < centralHeaderSize || !bytes.Equal(b[:4], sigCentralHeader) {
		return h, 0, newArchiveError("read directory", errors.New("malformed central directory"))
	}
	h.flags = binary.LittleEndian.Uint16(b[8:10])
	h.method = CompressionMethod(binary.LittleEndian.Uint16(b[10:12]))
	h.dosTime = binary.LittleEndian.Uint16(b[12:14])
	h.dosDate = binary.LittleEndian.Uint16(b[14:16])
	h.crc = binary.LittleEndian.Uint32(b[16:20])
	h.compressedSize = binary.LittleEndian.Uint32(b[20:24])
	h.uncompressedSize = binary.LittleEndian.Uint32(b[24:28])
	nameLength := int(binary.LittleEndian.Uint16(b[28:30]))
	extraLength := int(binary.LittleEndian.Uint16(b[30:32]))
	commentLength := int(binary.LittleEndian.Uint16(b[32:34]))
	h.localOffset = binary.LittleEndian.Uint32(b[42:46])

	total := centralHeaderSize + nameLength + extraLength + commentLength
	if len(b) < total {
		return h, 0, newArchiveError("read directory", errors.New("malformed central directory"))
	}
	h.name = string(b[centralHeaderSize : centralHeaderSize+nameLength])
	h.comment = string(b[centralHeaderSize+nameLength+extraLength : total])
	return h, total, nil
}
