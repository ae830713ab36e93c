package module

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/scanner-cli/internal/properties"
)

// nonInherited lists the parent keys a module never inherits.
var nonInherited = []string{
	properties.Modules,
	properties.ProjectBaseDir,
	properties.WorkingDirectory,
	properties.ProjectDescription,
}

// Builder discovers the modules declared through sonar.modules and builds
// the module tree.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger}
}

// Build constructs the tree rooted at baseDir. Every module's base directory
// is validated before its own modules are discovered; the first failure
// aborts the whole build.
func (b *Builder) Build(root properties.Set, baseDir string) (*Node, error) {
	node := &Node{
		BaseDir: filepath.Clean(baseDir),
		Props:   root.Clone(),
	}
	if err := b.expand(node, ""); err != nil {
		return nil, err
	}
	return node, nil
}

func (b *Builder) expand(parent *Node, path string) error {
	ids := parent.Props.List(properties.Modules)
	if len(ids) == 0 {
		return nil
	}
	if err := checkUniqueIDs(ids, path); err != nil {
		return err
	}

	for _, id := range ids {
		child, err := b.module(parent, id, ids)
		if err != nil {
			return err
		}

		childPath := id
		if path != "" {
			childPath = path + "." + id
		}
		b.logger.Debug("module resolved",
			zap.String("module", childPath),
			zap.String("base_dir", child.BaseDir),
		)

		if err := b.expand(child, childPath); err != nil {
			return err
		}
		parent.Children = append(parent.Children, child)
	}
	return nil
}

// module builds the node of module id declared by parent.
func (b *Builder) module(parent *Node, id string, siblings []string) (*Node, error) {
	own := parent.Props.WithPrefix(id + ".")

	own, dir, err := b.baseDir(id, own, parent.BaseDir)
	if err != nil {
		return nil, err
	}
	if !properties.IsDir(dir) {
		return nil, properties.NewError(ErrMissingBaseDir,
			fmt.Sprintf("The base directory of the module '%s' does not exist: %s", id, dir))
	}
	own.Put(properties.ProjectBaseDir, dir)
	own.Delete(properties.ProjectConfigFile)

	own.MergeMissing(parent.Props, func(key string) bool {
		if slices.Contains(nonInherited, key) {
			return false
		}
		for _, sibling := range siblings {
			if strings.HasPrefix(key, sibling+".") {
				return false
			}
		}
		return true
	})

	return &Node{ID: id, BaseDir: dir, Props: own}, nil
}

// baseDir locates the base directory of module id and merges the settings
// file found along the way into own. Values already in own win.
func (b *Builder) baseDir(id string, own properties.Set, parentDir string) (properties.Set, string, error) {
	if raw := own.Get(properties.ProjectBaseDir); raw != "" {
		dir := resolvePath(parentDir, raw)
		if dir == parentDir {
			return own, dir, nil
		}
		merged, err := b.mergeSettings(own, filepath.Join(dir, properties.ProjectSettingsFile))
		return merged, dir, err
	}

	if raw := own.Get(properties.ProjectConfigFile); raw != "" {
		file := resolvePath(parentDir, raw)
		if !properties.IsFile(file) {
			return nil, "", properties.NewError(ErrMissingConfigFile,
				fmt.Sprintf("The properties file of the module '%s' does not exist: %s", id, file))
		}
		fileProps, err := properties.Load(file)
		if err != nil {
			return nil, "", fmt.Errorf("load properties file of module '%s': %w", id, err)
		}

		fileDir := filepath.Dir(file)
		dir := fileDir
		if declared := fileProps.Get(properties.ProjectBaseDir); declared != "" {
			dir = resolvePath(fileDir, declared)
		}

		return fileProps.Merge(own), dir, nil
	}

	dir := filepath.Join(parentDir, id)
	merged, err := b.mergeSettings(own, filepath.Join(dir, properties.ProjectSettingsFile))
	return merged, dir, err
}

// mergeSettings returns own layered over the settings file at path, when
// such a file exists.
func (b *Builder) mergeSettings(own properties.Set, path string) (properties.Set, error) {
	if !properties.IsFile(path) {
		return own, nil
	}
	fileProps, err := properties.Load(path)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("loaded module settings file", zap.String("path", path))
	return fileProps.Merge(own), nil
}

func checkUniqueIDs(ids []string, parentPath string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			parent := "the root project"
			if parentPath != "" {
				parent = fmt.Sprintf("module '%s'", parentPath)
			}
			return properties.NewError(ErrDuplicateModule,
				fmt.Sprintf("Two modules have the same id '%s' in %s. Each module must have a unique id.", id, parent))
		}
		seen[id] = struct{}{}
	}
	return nil
}

func resolvePath(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
