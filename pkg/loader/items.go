// Package loader reads hierarchical item collections from disk. Single
// files hold a top-level item list in JSON or YAML; multi-source setups
// load several files concurrently and prefix item names per source so the
// tree-wide name-uniqueness invariant survives the merge.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/treekit/treedex/pkg/model"
)

// LoadFile reads a top-level item list from path. The format is chosen by
// extension: .json, or .yaml/.yml.
func LoadFile(path string) ([]*model.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var items []*model.Item
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported item file extension %q (want .json, .yaml, or .yml)", ext)
	}

	return items, nil
}
