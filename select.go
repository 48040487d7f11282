package unzipr

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/tkoenig/unzipr/internal/glob"
)

// globChars are the metacharacters that make an argument a pattern. The
// classification is purely syntactic: an argument containing any of these
// is matched as a glob even if it would also resolve as an exact name.
const globChars = "*?["

type DiagKind int

const (
	// NameNotFound is a literal argument that resolved to no entry.
	NameNotFound DiagKind = iota
	// PatternUnmatched is a pattern argument that matched no entry.
	PatternUnmatched
)

// Diagnostic records a selection argument that matched nothing. These are
// warnings: the run continues and the other arguments still select.
type Diagnostic struct {
	Kind DiagKind
	Arg  string
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case NameNotFound:
		return fmt.Sprintf("%s: name not found", d.Arg)
	default:
		return fmt.Sprintf("%s: pattern matched no entries", d.Arg)
	}
}

// Selection is a fixed-size bit vector over entry indices. It is sized to
// the archive's entry count at creation and never resized; membership is
// idempotent, so selecting an index twice is a no-op.
type Selection struct {
	words []uint64
	size  int
}

func NewSelection(n int) *Selection {
	return &Selection{words: make([]uint64, (n+63)/64), size: n}
}

// Len returns the number of indices the selection covers, selected or not.
func (s *Selection) Len() int {
	return s.size
}

func (s *Selection) Set(i int) {
	s.words[i/64] |= 1 << uint(i%64)
}

func (s *Selection) Has(i int) bool {
	return s.words[i/64]&(1<<uint(i%64)) != 0
}

// SetAll marks every index in [0, Len()) selected.
func (s *Selection) SetAll() {
	for i := range s.words {
		s.words[i] = ^uint64(0)
	}
	if rem := s.size % 64; rem != 0 {
		s.words[len(s.words)-1] = 1<<uint(rem) - 1
	}
}

// Count returns the number of selected indices.
func (s *Selection) Count() int {
	total := 0
	for _, w := range s.words {
		total += bits.OnesCount64(w)
	}
	return total
}

// Select resolves name and pattern arguments into a set of entry indices.
// An empty argument list selects the whole archive. Arguments containing
// glob metacharacters are matched against every entry name in ascending
// index order; all other arguments are resolved by exact lookup. Arguments
// that match nothing are returned as diagnostics and never abort the pass.
func (zf *File) Select(args []string) (*Selection, []Diagnostic) {
	sel := NewSelection(zf.NumEntries())
	if len(args) == 0 {
		sel.SetAll()
		return sel, nil
	}

	var diags []Diagnostic
	type pattern struct {
		arg     string
		matched bool
	}
	var patterns []pattern
	for _, arg := range args {
		if strings.ContainsAny(arg, globChars) {
			patterns = append(patterns, pattern{arg: arg})
			continue
		}
		if i, ok := zf.Locate(arg); ok {
			sel.Set(i)
		} else {
			diags = append(diags, Diagnostic{Kind: NameNotFound, Arg: arg})
		}
	}

	for i := 0; i < zf.NumEntries(); i++ {
		name := zf.EntryName(i)
		for j := range patterns {
			if glob.Match(patterns[j].arg, name) {
				// Stop at the first pattern that matches this entry; only
				// that pattern is credited as matched. The entry is
				// selected either way.
				patterns[j].matched = true
				sel.Set(i)
				break
			}
		}
	}

	for _, p := range patterns {
		if !p.matched {
			diags = append(diags, Diagnostic{Kind: PatternUnmatched, Arg: p.arg})
		}
	}
	return sel, diags
}
