package unzipr

import (
	"fmt"
	"strings"
	"time"
)

// CompressionMethod is the compression method field of an entry header.
type CompressionMethod uint16

const (
	MethodStored   CompressionMethod = 0
	MethodDeflated CompressionMethod = 8
)

func (m CompressionMethod) String() string {
	switch m {
	case MethodStored:
		return "stored"
	case MethodDeflated:
		return "deflated"
	default:
		return fmt.Sprintf("%d", uint16(m))
	}
}

// entryHeader holds the central directory fields this tool cares about.
type entryHeader struct {
	flags            uint16
	method           CompressionMethod
	dosTime          uint16
	dosDate          uint16
	crc              uint32
	compressedSize   uint32
	uncompressedSize uint32
	localOffset      uint32
	name             string
	comment          string
}

func (h *entryHeader) isDir() bool {
	return strings.HasSuffix(h.name, "/")
}

func (h *entryHeader) modTime() time.Time {
	return dosToTime(h.dosDate, h.dosTime)
}

func dosToTime(dosDate uint16, dosTime uint16) time.Time {
	sec := dosTime & 0x1f
	min := (dosTime >> 5) & 0x3f
	hr := (dosTime >> 11) & 0x1f
	day := dosDate & 0x1f
	month := (dosDate >> 5) & 0xf
	year := (dosDate >> 9) & 0x7f

	return time.Date(int(year)+1980, time.Month(month), int(day), int(hr), int(min), int(sec), 0, time.Local)
}

// ArchiveError wraps a failure in the archive read path with the operation
// that produced it.
type ArchiveError struct {
	Op  string
	Err error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

func newArchiveError(op string, err error) *ArchiveError {
	return &ArchiveError{Op: op, Err: err}
}
