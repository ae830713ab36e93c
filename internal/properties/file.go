package properties

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/magiconair/properties"
)

// Load reads a key=value properties file. Comment lines are ignored, values
// are trimmed and ${...} placeholders are kept verbatim for later resolution.
func Load(path string) (Set, error) {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load properties file %s: %w", path, err)
	}

	out := make(Set, p.Len())
	for _, key := range p.Keys() {
		value, _ := p.Get(key)
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

// Write encodes s as a properties document with keys in lexical order.
func Write(w io.Writer, s Set) error {
	p := properties.NewProperties()
	p.DisableExpansion = true
	p.WriteSeparator = "="
	for _, key := range s.Keys() {
		if _, _, err := p.Set(key, s[key]); err != nil {
			return fmt.Errorf("encode property %q: %w", key, err)
		}
	}
	if _, err := p.Write(w, properties.UTF8); err != nil {
		return fmt.Errorf("write properties: %w", err)
	}
	return nil
}

// IsFile reports whether path names an existing regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether path names an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
