package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/scanner-cli/internal/module"
	"github.com/eugenenazirov/scanner-cli/internal/placeholder"
	"github.com/eugenenazirov/scanner-cli/internal/properties"
	"github.com/eugenenazirov/scanner-cli/internal/source"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newConf(t *testing.T, dir string, env map[string]string, cli properties.Set) *Conf {
	t.Helper()
	if env == nil {
		env = map[string]string{}
	}
	conf, err := New(
		WithEnvironment(env),
		WithCLIProperties(cli),
		WithWorkingDir(dir),
		WithLogger(zaptest.NewLogger(t)),
		WithClock(func() time.Time { return time.UnixMilli(1700000000000) }),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return conf
}

func mkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

func multiModuleProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, properties.ProjectSettingsFile), strings.Join([]string{
		"sonar.projectKey=multi",
		"sonar.modules=module1,module2",
		"sonar.sources=src",
		"",
	}, "\n"))
	writeFile(t, filepath.Join(dir, "module1", properties.ProjectSettingsFile),
		"sonar.projectName=Module 1\nsonar.links=${sonar.projectKey}-links\n")
	writeFile(t, filepath.Join(dir, "module2", properties.ProjectSettingsFile),
		"sonar.projectName=Module 2\n")
	return dir
}

func TestPropertiesMultiModule(t *testing.T) {
	dir := multiModuleProject(t)

	got, err := newConf(t, dir, nil, nil).Properties()
	if err != nil {
		t.Fatalf("Properties returned error: %v", err)
	}

	want := map[string]string{
		"sonar.projectKey":             "multi",
		"sonar.projectBaseDir":         dir,
		"module1.sonar.projectName":    "Module 1",
		"module2.sonar.projectName":    "Module 2",
		"module1.sonar.projectKey":     "multi",
		"module1.sonar.sources":        "src",
		"module1.sonar.links":          "multi-links",
		"module2.sonar.projectBaseDir": filepath.Join(dir, "module2"),
		properties.BootstrapStartTime:  "1700000000000",
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("expected %s=%q, got %q", k, v, got[k])
		}
	}
	if _, ok := got["sonar.projectName"]; ok {
		t.Fatalf("root did not declare sonar.projectName, got %q", got["sonar.projectName"])
	}
}

func TestPropertiesCLIOverridesModuleFile(t *testing.T) {
	dir := multiModuleProject(t)

	got, err := newConf(t, dir, nil, properties.Set{"module1.sonar.projectName": "From CLI"}).Properties()
	if err != nil {
		t.Fatalf("Properties returned error: %v", err)
	}
	if got["module1.sonar.projectName"] != "From CLI" {
		t.Fatalf("expected CLI override to win, got %q", got["module1.sonar.projectName"])
	}
}

func TestPropertiesModuleErrors(t *testing.T) {
	tests := []struct {
		name    string
		cli     properties.Set
		kind    error
		message string
	}{
		{
			name:    "invalid base dir",
			cli:     properties.Set{"module1.sonar.projectBaseDir": "invalid"},
			kind:    module.ErrMissingBaseDir,
			message: "The base directory of the module 'module1' does not exist",
		},
		{
			name:    "invalid config file",
			cli:     properties.Set{"module1.sonar.projectConfigFile": "invalid"},
			kind:    module.ErrMissingConfigFile,
			message: "The properties file of the module 'module1' does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := multiModuleProject(t)
			_, err := newConf(t, dir, nil, tt.cli).Properties()
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
			if !strings.HasPrefix(err.Error(), tt.message) {
				t.Fatalf("expected message starting with %q, got %q", tt.message, err.Error())
			}
			if !IsUserError(err) {
				t.Fatalf("expected a user error")
			}
		})
	}
}

func TestPropertiesPlaceholders(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, properties.ProjectSettingsFile),
		"sonar.projectKey=k\nhome=${env.HOME}\nmissing=${env.NOPE}\nref=${sonar.projectKey}:${unknown}\n")

	got, err := newConf(t, dir, map[string]string{"HOME": "/x"}, nil).Properties()
	if err != nil {
		t.Fatalf("Properties returned error: %v", err)
	}
	if got["home"] != "/x" || got["missing"] != "" || got["ref"] != "k:" {
		t.Fatalf("unexpected resolution: home=%q missing=%q ref=%q", got["home"], got["missing"], got["ref"])
	}
}

func TestPropertiesPlaceholderInModuleList(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "core"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := newConf(t, dir, map[string]string{"MODULES": "core"},
		properties.Set{properties.Modules: "${env.MODULES}"}).Properties()
	if err != nil {
		t.Fatalf("Properties returned error: %v", err)
	}
	if got["core.sonar.projectBaseDir"] != filepath.Join(dir, "core") {
		t.Fatalf("expected module from placeholder list, got %v", got)
	}
}

func TestPropertiesRootReferencesModuleProperty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, properties.ProjectSettingsFile),
		"sonar.modules=module1\nreport.name=${module1.sonar.projectName}\n")
	writeFile(t, filepath.Join(dir, "module1", properties.ProjectSettingsFile),
		"sonar.projectName=Mod One\n")

	got, err := newConf(t, dir, nil, nil).Properties()
	if err != nil {
		t.Fatalf("Properties returned error: %v", err)
	}
	if got["report.name"] != "Mod One" {
		t.Fatalf("expected report.name to resolve to the module name, got %q", got["report.name"])
	}
	if got["module1.sonar.projectName"] != "Mod One" {
		t.Fatalf("unexpected module name %q", got["module1.sonar.projectName"])
	}
}

func TestPropertiesPlaceholderInModuleBaseDir(t *testing.T) {
	dir := t.TempDir()
	mkdirAll(t, filepath.Join(dir, "libs", "core"))

	got, err := newConf(t, dir, map[string]string{"LIBS": "libs"}, properties.Set{
		properties.Modules:          "core",
		"core.sonar.projectBaseDir": "${env.LIBS}/core",
	}).Properties()
	if err != nil {
		t.Fatalf("Properties returned error: %v", err)
	}
	if got["core.sonar.projectBaseDir"] != filepath.Join(dir, "libs", "core") {
		t.Fatalf("expected placeholder in base dir to be resolved, got %q", got["core.sonar.projectBaseDir"])
	}
}

func TestIsStructural(t *testing.T) {
	tests := map[string]bool{
		properties.Modules:                    true,
		"core.sonar.modules":                  true,
		"core.sonar.projectBaseDir":           true,
		"a.b.sonar.projectConfigFile":         true,
		"sonar.projectName":                   false,
		"report.name":                         false,
		"core.sonar.projectBaseDirectoryHint": false,
	}
	for key, want := range tests {
		if got := isStructural(key); got != want {
			t.Fatalf("isStructural(%q): expected %v, got %v", key, want, got)
		}
	}
}

func TestPropertiesCycle(t *testing.T) {
	dir := t.TempDir()
	_, err := newConf(t, dir, nil, properties.Set{"A": "${B}", "B": "${A}"}).Properties()
	if !errors.Is(err, placeholder.ErrCycle) {
		t.Fatalf("expected ErrCycle, got %v", err)
	}
}

func TestPropertiesExplicitSettingsFileMissing(t *testing.T) {
	dir := t.TempDir()
	_, err := newConf(t, dir, nil, properties.Set{properties.ProjectSettings: "missing.properties"}).Properties()
	if !errors.Is(err, source.ErrSettingsFile) {
		t.Fatalf("expected ErrSettingsFile, got %v", err)
	}
}

func TestPropertiesRemovesProjectHome(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, "project")
	writeFile(t, filepath.Join(project, properties.ProjectSettingsFile), "sonar.projectKey=home\n")

	got, err := newConf(t, dir, nil, properties.Set{properties.ProjectHome: "project"}).Properties()
	if err != nil {
		t.Fatalf("Properties returned error: %v", err)
	}
	if _, ok := got[properties.ProjectHome]; ok {
		t.Fatalf("expected %s to be removed", properties.ProjectHome)
	}
	if got[properties.ProjectKey] != "home" || got[properties.ProjectBaseDir] != project {
		t.Fatalf("expected project home to locate the project, got %v", got)
	}
}

func TestBootstrapStartTimeStampedOnce(t *testing.T) {
	dir := t.TempDir()
	now := time.UnixMilli(1000)
	conf, err := New(
		WithEnvironment(map[string]string{}),
		WithWorkingDir(dir),
		WithClock(func() time.Time {
			now = now.Add(time.Second)
			return now
		}),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	first, err := conf.Properties()
	if err != nil {
		t.Fatalf("Properties returned error: %v", err)
	}
	second, err := conf.Properties()
	if err != nil {
		t.Fatalf("Properties returned error: %v", err)
	}
	if first[properties.BootstrapStartTime] != "2000" || second[properties.BootstrapStartTime] != "2000" {
		t.Fatalf("expected a stable start time, got %q and %q",
			first[properties.BootstrapStartTime], second[properties.BootstrapStartTime])
	}
}

func TestBootstrapStartTimeKeepsSuppliedValue(t *testing.T) {
	got, err := newConf(t, t.TempDir(), nil, properties.Set{properties.BootstrapStartTime: "42"}).Properties()
	if err != nil {
		t.Fatalf("Properties returned error: %v", err)
	}
	if got[properties.BootstrapStartTime] != "42" {
		t.Fatalf("expected supplied start time, got %q", got[properties.BootstrapStartTime])
	}
}

func TestEnviron(t *testing.T) {
	got := Environ([]string{"A=1", "B=x=y", "C=", "broken", "=hidden"})

	if len(got) != 3 || got["A"] != "1" || got["B"] != "x=y" || got["C"] != "" {
		t.Fatalf("unexpected environment map: %v", got)
	}
}

func TestIsUserError(t *testing.T) {
	if IsUserError(errors.New("internal")) {
		t.Fatalf("plain errors are not user errors")
	}
	if !IsUserError(properties.NewError(module.ErrDuplicateModule, "dup")) {
		t.Fatalf("expected configuration error to be a user error")
	}
}
