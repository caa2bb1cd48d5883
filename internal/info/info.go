// Package info holds the informational pages the bot can post or DM.
package info

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	//go:embed etiquette.yaml
	etiquetteData []byte
	//go:embed sharing.yaml
	sharingData []byte
)

// Page is one page of an informational topic
type Page struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	URL         string `yaml:"url,omitempty"`
}

// Topic is a titled, ordered set of pages
type Topic struct {
	Title string `yaml:"title"`
	Pages []Page `yaml:"pages"`
}

// Parse decodes a topic and checks every page has content
func Parse(data []byte) (Topic, error) {
	var topic Topic
	if err := yaml.Unmarshal(data, &topic); err != nil {
		return Topic{}, fmt.Errorf("failed to decode topic: %w", err)
	}
	if topic.Title == "" {
		return Topic{}, fmt.Errorf("topic has no title")
	}
	if len(topic.Pages) == 0 {
		return Topic{}, fmt.Errorf("topic %q has no pages", topic.Title)
	}
	for i, page := range topic.Pages {
		if page.Title == "" || page.Description == "" {
			return Topic{}, fmt.Errorf("topic %q: page %d needs a title and a description", topic.Title, i+1)
		}
	}
	return topic, nil
}

// Etiquette returns the server etiquette topic
func Etiquette() (Topic, error) {
	return Parse(etiquetteData)
}

// Sharing returns the topic on how to share code
func Sharing() (Topic, error) {
	return Parse(sharingData)
}
