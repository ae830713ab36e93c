package source

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/scanner-cli/internal/properties"
)

// Environment variables read by the loader.
const (
	EnvJSONParams       = "SONAR_SCANNER_JSON_PARAMS"
	EnvLegacyJSONParams = "SONARQUBE_SCANNER_PARAMS"
	EnvScannerOpts      = "SONAR_SCANNER_OPTS"
	EnvScannerHome      = "SONAR_SCANNER_HOME"

	envGenericPrefix = "SONAR_SCANNER_"
)

// wellKnownEnv maps dedicated environment variables to property keys.
var wellKnownEnv = map[string]string{
	"SONAR_HOST_URL":  "sonar.host.url",
	"SONAR_TOKEN":     "sonar.token",
	"SONAR_USER_HOME": "sonar.userHome",
	"SONAR_REGION":    "sonar.region",
}

// Environment maps the process environment to properties. Dedicated
// variables come first, then SONAR_SCANNER_<WORDS> variables other than
// the ones the launcher consumes itself become
// sonar.scanner.<camelCaseWords>, and finally the JSON object held by
// SONAR_SCANNER_JSON_PARAMS (or the legacy SONARQUBE_SCANNER_PARAMS) is
// merged on top.
func (l *Loader) Environment() (properties.Set, error) {
	out := properties.New()

	for _, name := range sortedKeys(l.env) {
		if key, ok := wellKnownEnv[name]; ok {
			out.Put(key, l.env[name])
		}
	}

	for _, name := range sortedKeys(l.env) {
		switch name {
		case EnvJSONParams, EnvScannerOpts, EnvScannerHome:
			continue
		}
		suffix, ok := strings.CutPrefix(name, envGenericPrefix)
		if !ok || suffix == "" {
			continue
		}
		out.Put("sonar.scanner."+camelCase(suffix), l.env[name])
	}

	jsonParams, hasNew := l.env[EnvJSONParams]
	legacyParams, hasLegacy := l.env[EnvLegacyJSONParams]
	switch {
	case hasNew:
		if hasLegacy && legacyParams != jsonParams {
			l.logger.Warn("ignoring legacy environment variable",
				zap.String("ignored", EnvLegacyJSONParams),
				zap.String("used", EnvJSONParams),
			)
		}
		if err := mergeJSON(out, EnvJSONParams, jsonParams); err != nil {
			return nil, err
		}
	case hasLegacy:
		if err := mergeJSON(out, EnvLegacyJSONParams, legacyParams); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func mergeJSON(dst properties.Set, name, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var params map[string]string
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return properties.NewError(ErrInvalidEnv,
			fmt.Sprintf("Failed to parse JSON properties from environment variable '%s': %v", name, err))
	}
	dst.Merge(params)
	return nil
}

// camelCase turns SKIP_JRE_PROVISIONING into skipJreProvisioning.
func camelCase(upper string) string {
	var b strings.Builder
	for _, word := range strings.Split(strings.ToLower(upper), "_") {
		if word == "" {
			continue
		}
		if b.Len() == 0 {
			b.WriteString(word)
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(word[1:])
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
