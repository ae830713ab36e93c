package placeholder

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/eugenenazirov/scanner-cli/internal/properties"
)

const envPrefix = "env."

var pattern = regexp.MustCompile(`\$\{([\w.]+)\}`)

// Resolve returns a copy of props in which every ${name} occurrence is
// replaced by the resolved value of name. Names starting with "env." are
// looked up in env with the prefix stripped; any other name is resolved
// against props itself. Unknown names expand to the empty string.
func Resolve(props properties.Set, env map[string]string) (properties.Set, error) {
	r := &resolver{
		source:   props,
		env:      env,
		resolved: make(properties.Set, len(props)),
	}
	for _, key := range props.Keys() {
		if _, err := r.value(key); err != nil {
			return nil, err
		}
	}
	return r.resolved, nil
}

// resolver holds the state of one resolution run.
type resolver struct {
	source   properties.Set
	env      map[string]string
	resolved properties.Set
	// inProgress is the FIFO of keys currently being expanded.
	inProgress []string
}

func (r *resolver) value(key string) (string, error) {
	if v, ok := r.resolved[key]; ok {
		return v, nil
	}
	raw, ok := r.source[key]
	if !ok {
		return "", nil
	}
	if slices.Contains(r.inProgress, key) {
		return "", properties.NewError(ErrCycle,
			fmt.Sprintf("Cycle detected while resolving the placeholders of property '%s'", key))
	}

	r.inProgress = append(r.inProgress, key)
	expanded, err := r.expand(raw)
	r.inProgress = slices.DeleteFunc(r.inProgress, func(k string) bool { return k == key })
	if err != nil {
		return "", err
	}

	r.resolved[key] = expanded
	return expanded, nil
}

func (r *resolver) expand(raw string) (string, error) {
	if !strings.Contains(raw, "${") {
		return raw, nil
	}

	var (
		b    strings.Builder
		last int
	)
	for _, m := range pattern.FindAllStringSubmatchIndex(raw, -1) {
		b.WriteString(raw[last:m[0]])
		name := raw[m[2]:m[3]]

		var sub string
		if envKey, ok := strings.CutPrefix(name, envPrefix); ok {
			sub = r.env[envKey]
		} else {
			v, err := r.value(name)
			if err != nil {
				return "", err
			}
			sub = v
		}
		b.WriteString(sub)
		last = m[1]
	}
	b.WriteString(raw[last:])
	return b.String(), nil
}
