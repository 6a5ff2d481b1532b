package model

import (
	"fmt"
)

// Item represents one entry in a hierarchical item collection, as supplied
// by the embedding application. Items may nest arbitrarily deep through the
// Items field. The tree core borrows items read-only; it never mutates them.
type Item struct {
	Name     string  `json:"name" yaml:"name"`
	Label    string  `json:"label" yaml:"label"`
	Items    []*Item `json:"items,omitempty" yaml:"items,omitempty"`
	Expanded bool    `json:"expanded,omitempty" yaml:"expanded,omitempty"`
	Disabled bool    `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Loading  bool    `json:"is_loading,omitempty" yaml:"is_loading,omitempty"`

	// Display pass-through fields. The tree core does not interpret these;
	// they travel with the item so hosts can render them.
	AvatarSrc              string            `json:"avatar_src,omitempty" yaml:"avatar_src,omitempty"`
	AvatarFallbackIconName string            `json:"avatar_fallback_icon_name,omitempty" yaml:"avatar_fallback_icon_name,omitempty"`
	Metatext               string            `json:"metatext,omitempty" yaml:"metatext,omitempty"`
	Href                   string            `json:"href,omitempty" yaml:"href,omitempty"`
	Fields                 map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Clone creates a deep copy of the item and its nested items.
// Only recognized fields are copied; this is an explicit allow-list, not a
// generic deep clone, so hosts get a mutable snapshot independent of the
// original object graph. The input must be acyclic.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}

	clone := &Item{
		Name:                   i.Name,
		Label:                  i.Label,
		Expanded:               i.Expanded,
		Disabled:               i.Disabled,
		Loading:                i.Loading,
		AvatarSrc:              i.AvatarSrc,
		AvatarFallbackIconName: i.AvatarFallbackIconName,
		Metatext:               i.Metatext,
		Href:                   i.Href,
	}

	if i.Fields != nil {
		clone.Fields = make(map[string]string, len(i.Fields))
		for k, v := range i.Fields {
			clone.Fields[k] = v
		}
	}

	if i.Items != nil {
		clone.Items = make([]*Item, 0, len(i.Items))
		for _, child := range i.Items {
			if child != nil {
				clone.Items = append(clone.Items, child.Clone())
			}
		}
	}

	return clone
}

// HasChildren returns true if the item declares at least one nested item.
func (i *Item) HasChildren() bool {
	return i != nil && len(i.Items) > 0
}

// Validate checks if the item data is logically valid
func (i *Item) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("item name cannot be empty")
	}
	if i.Label == "" {
		return fmt.Errorf("item label cannot be empty")
	}
	return nil
}
