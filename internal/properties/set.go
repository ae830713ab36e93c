package properties

import (
	"maps"
	"slices"
	"strings"
)

// Set is a flat string-to-string property map. Lists are comma-separated
// strings and booleans are "true"/"false"; nothing structured is stored.
type Set map[string]string

// New returns an empty Set.
func New() Set {
	return Set{}
}

// FromMap copies m into a new Set.
func FromMap(m map[string]string) Set {
	s := make(Set, len(m))
	maps.Copy(s, m)
	return s
}

// Get returns the value for key, or "" when the key is absent.
func (s Set) Get(key string) string {
	return s[key]
}

// Lookup returns the value for key and whether it is present.
func (s Set) Lookup(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

// Put stores value under key, replacing any previous value.
func (s Set) Put(key, value string) {
	s[key] = value
}

// Delete removes key.
func (s Set) Delete(key string) {
	delete(s, key)
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	return FromMap(s)
}

// Merge copies every layer into s in order, so later layers win.
func (s Set) Merge(layers ...Set) Set {
	for _, layer := range layers {
		maps.Copy(s, layer)
	}
	return s
}

// MergeMissing copies the entries of parent whose key is absent from s and
// for which keep returns true. A nil keep accepts every key.
func (s Set) MergeMissing(parent Set, keep func(key string) bool) Set {
	for k, v := range parent {
		if _, ok := s[k]; ok {
			continue
		}
		if keep != nil && !keep(k) {
			continue
		}
		s[k] = v
	}
	return s
}

// WithPrefix returns the entries whose key starts with prefix, with the
// prefix stripped.
func (s Set) WithPrefix(prefix string) Set {
	out := New()
	for k, v := range s {
		if rest, ok := strings.CutPrefix(k, prefix); ok && rest != "" {
			out[rest] = v
		}
	}
	return out
}

// Prefixed returns a copy of s with prefix prepended to every key.
func (s Set) Prefixed(prefix string) Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[prefix+k] = v
	}
	return out
}

// List splits the value of key on commas, trims each item and drops empty
// ones. It returns nil when the key is absent or blank.
func (s Set) List(key string) []string {
	return SplitList(s[key])
}

// Keys returns the keys in lexical order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// SplitList splits a comma-separated value, trimming items and dropping
// empty ones.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
