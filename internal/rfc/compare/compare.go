package compare

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/vueland/vuebot/internal/rfc"
)

// Change represents a change in an RFC field between two generations
type Change struct {
	Field    string `yaml:"field" json:"field"`
	OldValue string `yaml:"old_value" json:"old_value"`
	NewValue string `yaml:"new_value" json:"new_value"`
}

// Report describes how one generation differs from the previous one
type Report struct {
	New     []rfc.RFC        `yaml:"new" json:"new"`
	Removed []rfc.RFC        `yaml:"removed" json:"removed"`
	Changed map[int][]Change `yaml:"changed" json:"changed"`
}

// CompareGenerations compares current RFCs with previously cached ones
func CompareGenerations(current, previous []rfc.RFC) Report {
	currentMap := make(map[int]rfc.RFC, len(current))
	previousMap := make(map[int]rfc.RFC, len(previous))

	for _, item := range current {
		currentMap[item.Number] = item
	}
	for _, item := range previous {
		previousMap[item.Number] = item
	}

	report := Report{Changed: make(map[int][]Change)}

	for number, item := range currentMap {
		old, exists := previousMap[number]
		if !exists {
			report.New = append(report.New, item)
			continue
		}
		if changes := compareRFCs(item, old); len(changes) > 0 {
			report.Changed[number] = changes
		}
	}

	for number, item := range previousMap {
		if _, exists := currentMap[number]; !exists {
			report.Removed = append(report.Removed, item)
		}
	}

	byNumber := func(items []rfc.RFC) func(i, j int) bool {
		return func(i, j int) bool { return items[i].Number < items[j].Number }
	}
	sort.Slice(report.New, byNumber(report.New))
	sort.Slice(report.Removed, byNumber(report.Removed))

	return report
}

// compareRFCs compares two versions of an RFC and returns a list of changes
func compareRFCs(current, previous rfc.RFC) []Change {
	var changes []Change

	add := func(field, oldValue, newValue string) {
		if oldValue != newValue {
			changes = append(changes, Change{Field: field, OldValue: oldValue, NewValue: newValue})
		}
	}

	add("title", previous.Title, current.Title)
	add("author", previous.Author, current.Author)
	add("state", string(previous.State), string(current.State))
	if !slices.Equal(previous.LabelNames(), current.LabelNames()) {
		add("labels", strings.Join(previous.LabelNames(), ", "), strings.Join(current.LabelNames(), ", "))
	}
	if !current.UpdatedAt.Equal(previous.UpdatedAt) {
		add("updated_at", previous.UpdatedAt.Format(time.RFC3339), current.UpdatedAt.Format(time.RFC3339))
	}

	return changes
}

// HasChanges returns true if there are any changes in the report
func HasChanges(report Report) bool {
	return len(report.New) > 0 || len(report.Removed) > 0 || len(report.Changed) > 0
}

// Summary renders a one-line description of the report
func Summary(report Report) string {
	if !HasChanges(report) {
		return "no changes"
	}
	return fmt.Sprintf("%d new, %d removed, %d changed", len(report.New), len(report.Removed), len(report.Changed))
}
