// Package semver implements the strict three-integer version scheme used
// for image tagging and release management, plus the resolver that reads
// and rewrites version declarations in project files.
package semver

import (
	"fmt"
	"regexp"
	"strconv"
)

var versionRe = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// Version is a semantic version. All components are non-negative.
type Version struct {
	Major int
	Minor int
	Patch int
}

// BumpKind selects which component a bump increments.
type BumpKind int

const (
	Major BumpKind = iota
	Minor
	Patch
)

// ParseBumpKind converts a user-supplied string (major/minor/patch).
func ParseBumpKind(s string) (BumpKind, error) {
	switch s {
	case "major":
		return Major, nil
	case "minor":
		return Minor, nil
	case "patch":
		return Patch, nil
	}
	return 0, fmt.Errorf("invalid bump type %q (want major, minor, or patch)", s)
}

// Parse parses a strict M.m.p version string.
func Parse(s string) (Version, error) {
	m := versionRe.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("invalid semantic version format: %q", s)
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch, _ := strconv.Atoi(m[3])
	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// MustParse is Parse for compile-time-known strings; it panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Bump returns the incremented version. Bumps never decrement and never
// wrap: major zeroes minor and patch, minor zeroes patch.
func (v Version) Bump(kind BumpKind) Version {
	switch kind {
	case Major:
		return Version{Major: v.Major + 1}
	case Minor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	default:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}

// Compare returns -1, 0, or 1 ordering v against o.
func (v Version) Compare(o Version) int {
	for _, d := range []int{v.Major - o.Major, v.Minor - o.Minor, v.Patch - o.Patch} {
		if d < 0 {
			return -1
		}
		if d > 0 {
			return 1
		}
	}
	return 0
}
