package hcl

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/capscope/internal/config"
	"github.com/vk/capscope/internal/ctxlog"
)

// Loader parses HCL scenario files into the format-agnostic model.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a scenario loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load implements config.Loader. Path may be a single .hcl file or a
// directory, in which case every .hcl file beneath it is loaded in sorted
// order.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, config.Decoder, error) {
	logger := ctxlog.FromContext(ctx)

	filePaths, err := findScenarioFiles(path)
	if err != nil {
		return nil, nil, err
	}
	if len(filePaths) == 0 {
		return nil, nil, fmt.Errorf("no .hcl scenario files found at %q", path)
	}
	logger.Debug("Found scenario files to load.", "files", filePaths)

	model := &config.Model{Facades: make(map[string]*config.FacadeDefinition)}
	for _, filePath := range filePaths {
		file, diags := l.parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse scenario file %s: %w", filePath, diags)
		}
		if err := l.translateDocument(file.Body, model); err != nil {
			return nil, nil, fmt.Errorf("failed to translate scenario file %s: %w", filePath, err)
		}
	}

	logger.Info("Scenario loaded.", "facades", len(model.Facades), "mounts", len(model.Mounts))
	return model, NewConverter(), nil
}

// findScenarioFiles resolves a path to the ordered list of .hcl files it
// names: the file itself, or every .hcl file under the directory.
func findScenarioFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access scenario path %q: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var filePaths []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".hcl") {
			filePaths = append(filePaths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk scenario directory %q: %w", path, err)
	}
	sort.Strings(filePaths)
	return filePaths, nil
}
