package storage

import (
	"time"

	"github.com/vueland/vuebot/internal/rfc"
)

// Generation is one complete snapshot of the RFC collection as fetched from
// the remote repository
type Generation struct {
	Repository string    `yaml:"repository"`
	FetchedAt  time.Time `yaml:"fetched_at"`
	Items      []rfc.RFC `yaml:"items"`
}

// Age returns how long ago the generation was fetched
func (g *Generation) Age(now time.Time) time.Duration {
	return now.Sub(g.FetchedAt)
}
