// Package version compares three-part semantic versions and evaluates
// min/max range compatibility for dependency constraints.
//
// Parsing is deliberately forgiving: module authors enter versions by hand in
// the dashboard, so a malformed or partial string degrades to 0.0.0 (or zeroes
// the offending segment) instead of failing the whole resolution.
package version

import (
	"fmt"
	"strconv"
	"strings"

	mm "github.com/Masterminds/semver/v3"
)

// Version is a parsed three-part semantic version.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// Parse converts a version string into a [Version]. Missing or non-numeric
// segments default to 0, so Parse never fails: "1.2" → 1.2.0, "abc" → 0.0.0,
// "2.x.1" → 2.0.1. Leading "v" prefixes and pre-release/build suffixes are
// tolerated via Masterminds semver; anything it rejects falls back to
// segment-wise parsing.
func Parse(s string) Version {
	s = strings.TrimSpace(s)
	if v, err := mm.NewVersion(s); err == nil {
		return Version{Major: v.Major(), Minor: v.Minor(), Patch: v.Patch()}
	}

	var out Version
	parts := strings.SplitN(s, ".", 3)
	for i, part := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		switch i {
		case 0:
			out.Major = n
		case 1:
			out.Minor = n
		case 2:
			out.Patch = n
		}
	}
	return out
}

// String returns the canonical "major.minor.patch" form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1 if a < b, 0 if a == b, and 1 if a > b, comparing
// major, then minor, then patch.
func Compare(a, b Version) int {
	if c := cmp(a.Major, b.Major); c != 0 {
		return c
	}
	if c := cmp(a.Minor, b.Minor); c != 0 {
		return c
	}
	return cmp(a.Patch, b.Patch)
}

func cmp(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Compatibility is the outcome of a range check.
type Compatibility struct {
	Compatible bool
	// Reason explains the failure in human-readable form. Empty when
	// compatible.
	Reason string
	// Resolution suggests how to fix the failure ("update to X or higher",
	// "downgrade to Y or lower"). Empty when compatible.
	Resolution string
}

// Check evaluates whether installed satisfies the optional [min, max] bounds.
// An empty bound is unconstrained; with neither bound given the check is
// trivially compatible.
func Check(installed string, minVersion, maxVersion string) Compatibility {
	if minVersion == "" && maxVersion == "" {
		return Compatibility{Compatible: true}
	}

	have := Parse(installed)

	if minVersion != "" {
		if low := Parse(minVersion); Compare(have, low) < 0 {
			return Compatibility{
				Reason:     fmt.Sprintf("installed version %s is below the minimum %s", have, low),
				Resolution: fmt.Sprintf("update to %s or higher", low),
			}
		}
	}
	if maxVersion != "" {
		if high := Parse(maxVersion); Compare(have, high) > 0 {
			return Compatibility{
				Reason:     fmt.Sprintf("installed version %s is above the maximum %s", have, high),
				Resolution: fmt.Sprintf("downgrade to %s or lower", high),
			}
		}
	}
	return Compatibility{Compatible: true}
}
