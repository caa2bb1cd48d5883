package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

const (
	// AvatarBaseURL is prepended to author avatars given as bare file names
	AvatarBaseURL = "https://raw.githubusercontent.com/vueland/vuebot/main/assets/images/avatars/"
	// IconBaseURL is prepended to library icons given as bare file names
	IconBaseURL = "https://raw.githubusercontent.com/vueland/vuebot/main/assets/images/icons/"
)

// Library describes a tool, library or framework of the Vue ecosystem
type Library struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Colour      string   `json:"colour"`
	Tags        []string `json:"tags"`
	Fields      []Field  `json:"fields"`
	Author      *Author  `json:"author"`
	Links       Links    `json:"links"`
	License     string   `json:"license"`

	// Color is Colour parsed as an RGB value, set by Validate
	Color int `json:"-"`
}

// Field is a free-form section of a library card. In the data files it is
// either an object with a name and value or a bare string.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (f *Field) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err == nil {
		*f = Field{Value: value}
		return nil
	}
	type plain Field
	var field plain
	if err := json.Unmarshal(data, &field); err != nil {
		return fmt.Errorf("field must be a string or an object with name and value: %w", err)
	}
	*f = Field(field)
	return nil
}

type Author struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Avatar string `json:"avatar"`
}

type Links struct {
	Site string `json:"site"`
	Docs string `json:"docs"`
	Repo string `json:"repo"`
	Bugs string `json:"bugs"`
}

// Link is a named URL
type Link struct {
	Name string
	URL  string
}

// All returns the links that are set, in display order
func (l Links) All() []Link {
	var links []Link
	for _, link := range []Link{{"site", l.Site}, {"docs", l.Docs}, {"repo", l.Repo}, {"bugs", l.Bugs}} {
		if link.URL != "" {
			links = append(links, link)
		}
	}
	return links
}

// Home returns the site, or the repository when there is no site
func (l Links) Home() string {
	if l.Site != "" {
		return l.Site
	}
	return l.Repo
}

// Validate checks a library read from a data file and returns a copy with
// defaults applied. The input is never modified.
func Validate(lib Library) (Library, error) {
	if strings.TrimSpace(lib.Name) == "" {
		return Library{}, errors.New(`field "name" required`)
	}
	if lib.Links.Home() == "" {
		return Library{}, fmt.Errorf("library %q: field \"links\" requires a site or repo", lib.Name)
	}
	if lib.Fields == nil {
		return Library{}, fmt.Errorf("library %q: field \"fields\" required", lib.Name)
	}

	result := lib
	result.Name = strings.ToLower(strings.TrimSpace(lib.Name))
	result.Fields = append([]Field{}, lib.Fields...)
	result.Tags = append([]string{}, lib.Tags...)

	if lib.Colour == "" {
		result.Color = colourFor(result.Name)
		result.Colour = fmt.Sprintf("#%06x", result.Color)
	} else {
		color, err := strconv.ParseInt(strings.TrimPrefix(lib.Colour, "#"), 16, 32)
		if err != nil || color > 0xffffff || color < 0 {
			return Library{}, fmt.Errorf("library %q: invalid colour %q", lib.Name, lib.Colour)
		}
		result.Color = int(color)
	}

	result.Icon = resolve(IconBaseURL, lib.Icon)
	if lib.Author != nil {
		author := *lib.Author
		author.Avatar = resolve(AvatarBaseURL, author.Avatar)
		result.Author = &author
	}

	return result, nil
}

// colourFor picks a stable colour for libraries without one
func colourFor(name string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return int(h.Sum32() & 0xffffff)
}

func resolve(base, file string) string {
	if file == "" || strings.Contains(file, "://") {
		return file
	}
	return base + file
}
