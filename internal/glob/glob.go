// Package glob matches shell glob patterns against whole strings, in the
// manner of fnmatch(3) with no flags set: '*' matches any run of
// characters including path separators, '?' matches exactly one character
// and '[...]' matches a character class. Backslash has no special meaning.
package glob

// Match reports whether name matches pattern. Character classes support
// ranges ("[a-z]") and negation with a leading '!' or '^'; a ']' right
// after the opening bracket is a class member, and a '[' with no closing
// ']' matches a literal '['.
func Match(pattern, name string) bool {
	return match([]rune(pattern), []rune(name))
}

func match(p, n []rune) bool {
	var px, nx int
	starPx, starNx := -1, 0
	for nx < len(n) {
		if px < len(p) {
			switch p[px] {
			case '*':
				starPx, starNx = px, nx
				px++
				continue
			case '?':
				px++
				nx++
				continue
			case '[':
				if next, ok := matchClass(p, px, n[nx]); ok {
					px = next
					nx++
					continue
				}
			default:
				if p[px] == n[nx] {
					px++
					nx++
					continue
				}
			}
		}
		if starPx < 0 {
			return false
		}
		// Mismatch after a star: let the star swallow one more character
		// and retry from the pattern position following it.
		starNx++
		px = starPx + 1
		nx = starNx
	}
	for px < len(p) && p[px] == '*' {
		px++
	}
	return px == len(p)
}

// matchClass matches the class opening at p[start] against c. It returns
// the pattern index just past the class and whether c is a member. An
// unterminated class degrades to a literal '[' comparison.
func matchClass(p []rune, start int, c rune) (int, bool) {
	end := classEnd(p, start)
	if end < 0 {
		return start + 1, c == '['
	}
	i := start + 1
	negate := false
	if p[i] == '!' || p[i] == '^' {
		negate = true
		i++
	}
	matched := false
	for i < end {
		if i+2 < end && p[i+1] == '-' {
			if p[i] <= c && c <= p[i+2] {
				matched = true
			}
			i += 3
			continue
		}
		if c == p[i] {
			matched = true
		}
		i++
	}
	return end + 1, matched != negate
}

// classEnd returns the index of the ']' that closes the class opening at
// p[start], or -1 if the class is unterminated. A ']' directly after the
// opening bracket (or after the negation marker) is a literal member, not
// the terminator.
func classEnd(p []rune, start int) int {
	i := start + 1
	if i < len(p) && (p[i] == '!' || p[i] == '^') {
		i++
	}
	if i < len(p) && p[i] == ']' {
		i++
	}
	for ; i < len(p); i++ {
		if p[i] == ']' {
			return i
		}
	}
	return -1
}
