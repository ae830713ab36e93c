package source

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/shell"

	"github.com/eugenenazirov/scanner-cli/internal/properties"
)

// SystemProperties returns the launcher-supplied properties overlaid with
// the -Dkey=value options found in SONAR_SCANNER_OPTS. The variable is split
// into words with shell quoting rules; tokens other than -D are ignored.
func (l *Loader) SystemProperties(launcher properties.Set) (properties.Set, error) {
	out := launcher.Clone()

	opts := strings.TrimSpace(l.env[EnvScannerOpts])
	if opts == "" {
		return out, nil
	}

	words, err := shell.Fields(opts, func(name string) string { return l.env[name] })
	if err != nil {
		return nil, properties.NewError(ErrInvalidEnv,
			fmt.Sprintf("Failed to parse environment variable '%s': %v", EnvScannerOpts, err))
	}
	for _, word := range words {
		def, ok := strings.CutPrefix(word, "-D")
		if !ok || def == "" {
			continue
		}
		key, value, _ := strings.Cut(def, "=")
		out.Put(key, value)
	}
	return out, nil
}
