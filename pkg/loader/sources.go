package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/treekit/treedex/pkg/model"
)

// Source describes one item file contributing to a merged tree.
type Source struct {
	// Name is the display name for this source (default: file base name
	// without extension).
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Path is the item file path, relative to the config location or
	// absolute.
	Path string `yaml:"path" json:"path"`

	// Prefix is prepended to every item name from this source (e.g. "api-"
	// yields "api-users"). If empty, the source name plus a hyphen is used.
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty"`

	// Enabled controls whether this source is included (default: true).
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
}

// GetName returns the effective name for a source.
func (s *Source) GetName() string {
	if s.Name != "" {
		return s.Name
	}
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// GetPrefix returns the effective name prefix for a source.
func (s *Source) GetPrefix() string {
	if s.Prefix != "" {
		return s.Prefix
	}
	return strings.ToLower(s.GetName()) + "-"
}

// IsEnabled returns whether the source is included.
func (s *Source) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// Validate checks the source list for errors, in particular duplicate
// prefixes, which would break name uniqueness across the merged tree.
func Validate(sources []Source) error {
	if len(sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}
	seen := make(map[string]bool)
	for i, src := range sources {
		if src.Path == "" {
			return fmt.Errorf("source[%d]: path is required", i)
		}
		prefix := src.GetPrefix()
		if seen[prefix] {
			return fmt.Errorf("source[%d]: duplicate prefix %q", i, prefix)
		}
		seen[prefix] = true
	}
	return nil
}

// LoadSources loads all enabled sources concurrently and merges them into
// one item list, one top-level group node per source. Every item name is
// prefixed with its source's prefix, so names stay unique tree-wide as long
// as they were unique per source. Source order is preserved regardless of
// which file finishes loading first.
func LoadSources(ctx context.Context, sources []Source) ([]*model.Item, error) {
	if err := Validate(sources); err != nil {
		return nil, err
	}

	type loaded struct {
		index int
		group *model.Item
	}

	g, ctx := errgroup.WithContext(ctx)
	results := make(chan loaded, len(sources))

	for i, src := range sources {
		if !src.IsEnabled() {
			continue
		}
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			items, err := LoadFile(src.Path)
			if err != nil {
				return fmt.Errorf("source %s: %w", src.GetName(), err)
			}
			prefixNames(items, src.GetPrefix())
			results <- loaded{
				index: i,
				group: &model.Item{
					Name:     strings.TrimSuffix(src.GetPrefix(), "-"),
					Label:    src.GetName(),
					Expanded: true,
					Items:    items,
				},
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(results)

	groups := make([]loaded, 0, len(sources))
	for r := range results {
		groups = append(groups, r)
	}
	sort.Slice(groups, func(a, b int) bool { return groups[a].index < groups[b].index })

	merged := make([]*model.Item, 0, len(groups))
	for _, g := range groups {
		merged = append(merged, g.group)
	}
	return merged, nil
}

// prefixNames prepends prefix to every item name in the tree.
func prefixNames(items []*model.Item, prefix string) {
	for _, item := range items {
		if item == nil {
			continue
		}
		item.Name = prefix + item.Name
		prefixNames(item.Items, prefix)
	}
}
