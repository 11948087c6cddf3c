package model

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
)

// TagSuffix is appended to every tag produced by the release pipeline
const TagSuffix = "-beta"

var tagPattern = regexp.MustCompile(`^v(?P<major>\d+)\.(?P<minor>\d{1,2})\.(?P<patch>\d{1,2})(?:\.(?P<build>\d+))?-beta$`)

// Tag is a parsed release tag. Major, Minor and Patch are kept as the
// original digit strings so that they are re-emitted unchanged.
type Tag struct {
	Major string
	Minor string
	Patch string

	// Build is nil when the tag has no build counter yet
	Build *int
}

// ParseTag parses s as v<major>.<minor>.<patch>[.<build>]-beta
func ParseTag(s string) (*Tag, error) {
	m := tagPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, goerr.Wrap(ErrInvalidTag, "tag does not match pattern", goerr.V("tag", s))
	}

	tag := &Tag{
		Major: m[tagPattern.SubexpIndex("major")],
		Minor: m[tagPattern.SubexpIndex("minor")],
		Patch: m[tagPattern.SubexpIndex("patch")],
	}

	if raw := m[tagPattern.SubexpIndex("build")]; raw != "" {
		build, err := strconv.Atoi(raw)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidTag, "build counter out of range", goerr.V("tag", s), goerr.V("build", raw))
		}
		tag.Build = &build
	}

	return tag, nil
}

// Next returns a copy of t with the build counter incremented. A tag without
// a build counter gets 0.
func (t Tag) Next() Tag {
	next := 0
	if t.Build != nil {
		next = *t.Build + 1
	}
	t.Build = &next
	return t
}

// String renders the tag in its canonical form
func (t Tag) String() string {
	if t.Build == nil {
		return fmt.Sprintf("v%s.%s.%s%s", t.Major, t.Minor, t.Patch, TagSuffix)
	}
	return fmt.Sprintf("v%s.%s.%s.%d%s", t.Major, t.Minor, t.Patch, *t.Build, TagSuffix)
}

// NextTag computes the tag that follows latest. It returns an empty string
// and ErrInvalidTag when latest cannot be parsed.
func NextTag(latest string) (string, error) {
	tag, err := ParseTag(latest)
	if err != nil {
		return "", err
	}
	return tag.Next().String(), nil
}
