package library

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/tailscale/hujson"
)

//go:embed data/*.json
var data embed.FS

// MaxSuggestions is the most libraries offered when a lookup is ambiguous
const MaxSuggestions = 31

// Catalogue is the set of known libraries, keyed by lowercase name
type Catalogue struct {
	libraries map[string]Library
	names     []string
}

// Default loads the catalogue bundled with the bot
func Default() (*Catalogue, error) {
	sub, err := fs.Sub(data, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Load reads every .json file in fsys. Files may contain comments and
// trailing commas.
func Load(fsys fs.FS) (*Catalogue, error) {
	files, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list library data: %w", err)
	}

	catalogue := &Catalogue{libraries: map[string]Library{}}
	for _, file := range files {
		lib, err := loadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
		if _, exists := catalogue.libraries[lib.Name]; exists {
			return nil, fmt.Errorf("failed to load %s: library %q is defined twice", file, lib.Name)
		}
		catalogue.libraries[lib.Name] = lib
		catalogue.names = append(catalogue.names, lib.Name)
	}
	sort.Strings(catalogue.names)

	return catalogue, nil
}

func loadFile(fsys fs.FS, name string) (Library, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Library{}, err
	}
	standard, err := hujson.Standardize(raw)
	if err != nil {
		return Library{}, fmt.Errorf("failed to parse: %w", err)
	}
	var lib Library
	if err := json.Unmarshal(standard, &lib); err != nil {
		return Library{}, fmt.Errorf("failed to decode: %w", err)
	}
	if lib.Name == "" {
		lib.Name = strings.TrimSuffix(path.Base(name), path.Ext(name))
	}
	return Validate(lib)
}

// Get returns the library with exactly the given name, ignoring case
func (c *Catalogue) Get(name string) (Library, bool) {
	lib, ok := c.libraries[strings.ToLower(strings.TrimSpace(name))]
	return lib, ok
}

// Names returns the library names in alphabetical order
func (c *Catalogue) Names() []string {
	return append([]string(nil), c.names...)
}

// FindPossibleMatches returns the libraries whose names fuzzily match name,
// best match first
func (c *Catalogue) FindPossibleMatches(name string) []Library {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil
	}
	var libraries []Library
	for _, match := range fuzzy.Find(name, c.names) {
		libraries = append(libraries, c.libraries[match.Str])
	}
	return libraries
}
