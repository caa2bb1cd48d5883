package rfc

import (
	"fmt"
	"strings"
	"time"
)

// State is the lifecycle state of an RFC pull request
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
	StateMerged State = "merged"
)

// States lists the valid RFC states in display order
var States = []State{StateOpen, StateClosed, StateMerged}

// ParseState converts a user-supplied state name into a State
func ParseState(value string) (State, error) {
	state := State(strings.ToLower(strings.TrimSpace(value)))
	for _, valid := range States {
		if state == valid {
			return state, nil
		}
	}
	return "", fmt.Errorf("unknown state %q", value)
}

// Label is a GitHub label attached to an RFC
type Label struct {
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color" json:"color"`
}

// RFC represents a "Request for Comments" pull request with the fields we care about
type RFC struct {
	Number    int        `yaml:"number" json:"number"`
	Title     string     `yaml:"title" json:"title"`
	Body      string     `yaml:"body" json:"body"`
	Author    string     `yaml:"author" json:"author"`
	State     State      `yaml:"state" json:"state"`
	Labels    []Label    `yaml:"labels" json:"labels"`
	URL       string     `yaml:"url" json:"url"`
	CreatedAt time.Time  `yaml:"created_at" json:"created_at"`
	UpdatedAt time.Time  `yaml:"updated_at" json:"updated_at"`
	ClosedAt  *time.Time `yaml:"closed_at,omitempty" json:"closed_at,omitempty"`
	MergedAt  *time.Time `yaml:"merged_at,omitempty" json:"merged_at,omitempty"`
}

// LabelNames returns the names of the RFC's labels in their original order
func (r RFC) LabelNames() []string {
	names := make([]string, 0, len(r.Labels))
	for _, label := range r.Labels {
		names = append(names, label.Name)
	}
	return names
}

// HasLabel reports whether the RFC carries a label with the given name, ignoring case
func (r RFC) HasLabel(name string) bool {
	for _, label := range r.Labels {
		if strings.EqualFold(label.Name, name) {
			return true
		}
	}
	return false
}
