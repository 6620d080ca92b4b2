// Package vercmp implements the package-version ordering used to decide
// whether a freshly scanned package supersedes a cached entry.
//
// There is no ready-made library for this exact comparator anywhere in the
// retrieval pack: quay-claircore's internal/rpmver implements RPM's
// separate epoch/version/release comparison, which is close but not
// identical to pacman's rule (pacman folds "version-pkgrel" into a single
// segmented comparison, splitting release from version only by the last
// hyphen, and only consults it once the version segments compare equal).
// This is reimplemented directly from the publicly documented algorithm
// that original_source/repoman.c calls via alpm_pkg_vercmp.
package vercmp

import "strings"

// Compare returns -1, 0, or 1 as a compares less than, equal to, or
// greater than b, using pacman's version ordering: an optional "N:" epoch
// prefix is peeled off and compared numerically first; the remainder is
// split on the last '-' into version and release; version is compared
// segment-by-segment (rpmvercmp), falling through to comparing release
// only when the versions are equal and both sides had a release
// component.
func Compare(a, b string) int {
	if a == b {
		return 0
	}

	epochA, restA := splitEpoch(a)
	epochB, restB := splitEpoch(b)
	if epochA != epochB {
		if epochA < epochB {
			return -1
		}
		return 1
	}

	verA, relA, hasRelA := splitRelease(restA)
	verB, relB, hasRelB := splitRelease(restB)

	if c := rpmvercmp(verA, verB); c != 0 {
		return c
	}
	if hasRelA && hasRelB {
		return rpmvercmp(relA, relB)
	}
	return 0
}

// splitEpoch peels a leading "N:" epoch prefix, defaulting to 0.
func splitEpoch(s string) (epoch int, rest string) {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		n := 0
		ok := true
		for _, r := range s[:i] {
			if r < '0' || r > '9' {
				ok = false
				break
			}
			n = n*10 + int(r-'0')
		}
		if ok {
			return n, s[i+1:]
		}
	}
	return 0, s
}

// splitRelease splits s into version and release on the last '-'.
func splitRelease(s string) (version, release string, has bool) {
	if i := strings.LastIndexByte(s, '-'); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool { return isDigit(c) || isAlpha(c) }

// rpmvercmp is the classic RPM version-segment comparator: alternating
// runs of digits and letters are compared in lockstep (digits
// numerically, letters lexicographically), non-alphanumeric runs act only
// as segment boundaries, a numeric segment always outranks a missing one,
// and an alphabetic segment facing a missing one is considered older
// (pre-release convention: "1.0alpha" < "1.0").
func rpmvercmp(a, b string) int {
	if a == b {
		return 0
	}

	var i, j int
	for i < len(a) || j < len(b) {
		for i < len(a) && !isAlnum(a[i]) {
			i++
		}
		for j < len(b) && !isAlnum(b[j]) {
			j++
		}

		if i >= len(a) || j >= len(b) {
			break
		}

		startA, startB := i, j
		numeric := isDigit(a[i])
		if numeric {
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			for j < len(b) && isDigit(b[j]) {
				j++
			}
		} else {
			for i < len(a) && isAlpha(a[i]) {
				i++
			}
			for j < len(b) && isAlpha(b[j]) {
				j++
			}
		}

		segA := a[startA:i]
		segB := b[startB:j]

		if segB == "" {
			// The other string had nothing of this kind here: a numeric
			// segment wins (it's "more version"), an alphabetic one loses
			// (it's a pre-release suffix).
			if numeric {
				return 1
			}
			return -1
		}

		if numeric {
			segA = strings.TrimLeft(segA, "0")
			segB = strings.TrimLeft(segB, "0")
			if len(segA) != len(segB) {
				if len(segA) > len(segB) {
					return 1
				}
				return -1
			}
		}

		if segA != segB {
			if segA < segB {
				return -1
			}
			return 1
		}
	}

	// One side ran out. A remaining alphabetic segment never beats the
	// empty side ("1.0a" < "1.0"); a remaining numeric one does
	// ("1.5.0" > "1.5").
	restA := i < len(a)
	restB := j < len(b)
	switch {
	case !restA && !restB:
		return 0
	case (!restA && !isAlpha(b[j])) || (restA && isAlpha(a[i])):
		return -1
	default:
		return 1
	}
}
