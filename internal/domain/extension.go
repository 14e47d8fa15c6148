package domain

import (
	"sort"
	"strings"
)

// ExtensionSet holds the normalized extensions a scan filters on.
// Entries are lower-cased and dot-prefixed; the zero value matches nothing.
type ExtensionSet struct {
	members map[string]struct{}
}

// ParseExtensions builds an ExtensionSet from free-text input, typically the
// raw value of a --ext flag ("pdf, JPG,.txt"). Entries are split on commas,
// trimmed, lower-cased and dot-prefixed; empty entries and duplicates are
// dropped. Parsing an already normalized list yields the same set.
func ParseExtensions(raw string) ExtensionSet {
	members := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		ext := normalizeExtension(part)
		if ext == "" {
			continue
		}
		members[ext] = struct{}{}
	}
	return ExtensionSet{members: members}
}

func normalizeExtension(raw string) string {
	ext := strings.ToLower(strings.TrimSpace(raw))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Contains reports whether ext is a member, compared case-insensitively.
func (s ExtensionSet) Contains(ext string) bool {
	if len(s.members) == 0 {
		return false
	}
	_, ok := s.members[strings.ToLower(ext)]
	return ok
}

func (s ExtensionSet) Len() int {
	return len(s.members)
}

// Strings returns the members sorted, for display and stable logging.
func (s ExtensionSet) Strings() []string {
	out := make([]string, 0, len(s.members))
	for ext := range s.members {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

func (s ExtensionSet) String() string {
	return strings.Join(s.Strings(), ", ")
}
