// Package apidocs is a small index of the Vue API reference.
package apidocs

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/tailscale/hujson"
	"k8s.io/apimachinery/pkg/util/sets"
)

//go:embed api.jsonc
var bundled []byte

// Entry is a single documented API
type Entry struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Aliases     []string `json:"aliases"`
	Description string   `json:"description"`
	Link        string   `json:"link"`

	Category string `json:"-"`
}

type document struct {
	Base       string `json:"base"`
	Categories []struct {
		Name  string  `json:"name"`
		Items []Entry `json:"items"`
	} `json:"categories"`
}

// Index looks entries up by id or alias
type Index struct {
	entries []Entry
	// keys holds every id and alias, keyOwner maps them back to entries
	keys     []string
	keyOwner map[string]int
}

// Default parses the bundled API index
func Default() (*Index, error) {
	return Parse(bundled)
}

// Parse reads an index document. Comments and trailing commas are allowed.
func Parse(data []byte) (*Index, error) {
	standard, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse API index: %w", err)
	}
	var doc document
	if err := json.Unmarshal(standard, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode API index: %w", err)
	}

	base, err := url.Parse(doc.Base)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", doc.Base, err)
	}

	index := &Index{keyOwner: map[string]int{}}
	for _, category := range doc.Categories {
		for _, entry := range category.Items {
			entry.ID = strings.ToLower(entry.ID)
			if entry.ID == "" {
				return nil, fmt.Errorf("entry %q in %q has no id", entry.Title, category.Name)
			}
			link, err := base.Parse(entry.Link)
			if err != nil {
				return nil, fmt.Errorf("entry %q has an invalid link: %w", entry.ID, err)
			}
			entry.Link = link.String()
			entry.Category = category.Name

			position := len(index.entries)
			index.entries = append(index.entries, entry)
			for _, key := range append([]string{entry.ID}, entry.Aliases...) {
				key = strings.ToLower(key)
				if owner, exists := index.keyOwner[key]; exists && owner != position {
					return nil, fmt.Errorf("key %q is used by both %q and %q", key, index.entries[owner].ID, entry.ID)
				}
				if _, exists := index.keyOwner[key]; !exists {
					index.keyOwner[key] = position
					index.keys = append(index.keys, key)
				}
			}
		}
	}
	return index, nil
}

// Len returns the number of entries
func (i *Index) Len() int {
	return len(i.entries)
}

// Get returns the entry with the given id or alias, ignoring case
func (i *Index) Get(name string) (Entry, bool) {
	position, ok := i.keyOwner[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Entry{}, false
	}
	return i.entries[position], true
}

// Find returns entries whose id or an alias fuzzily matches query, best
// match first, each entry at most once
func (i *Index) Find(query string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	seen := sets.New[int]()
	var entries []Entry
	for _, match := range fuzzy.Find(query, i.keys) {
		position := i.keyOwner[match.Str]
		if seen.Has(position) {
			continue
		}
		seen.Insert(position)
		entries = append(entries, i.entries[position])
	}
	return entries
}
