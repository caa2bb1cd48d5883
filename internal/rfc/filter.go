package rfc

import (
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Field names an RFC attribute that results can be filtered by
type Field string

const (
	FieldID     Field = "id"
	FieldTitle  Field = "title"
	FieldBody   Field = "body"
	FieldAuthor Field = "author"
	FieldLabel  Field = "label"
	FieldState  Field = "state"
)

// Fields lists the filterable fields in the order filters are applied
var Fields = []Field{FieldID, FieldTitle, FieldBody, FieldAuthor, FieldLabel, FieldState}

// StateAll is the state filter value that matches every RFC
const StateAll = "all"

// fieldAliases maps the alternative flag names users type to their field
var fieldAliases = map[string]Field{
	"number": FieldID,
	"labels": FieldLabel,
}

// Filter is a single field constraint
type Filter struct {
	Field Field
	Value string
}

// FieldNames returns the names of all filterable fields
func FieldNames() []string {
	names := make([]string, 0, len(Fields))
	for _, field := range Fields {
		names = append(names, string(field))
	}
	return names
}

// ParseField resolves a field name or alias, ignoring case
func ParseField(name string) (Field, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := fieldAliases[name]; ok {
		return alias, nil
	}
	for _, field := range Fields {
		if Field(name) == field {
			return field, nil
		}
	}
	return "", &InvalidFilterError{Field: name, Valid: FieldNames()}
}

// FilterBy returns the RFCs in items that match value on the named field.
// The input slice is never modified; an empty result is not an error.
func FilterBy(field, value string, items []RFC) ([]RFC, error) {
	parsed, err := ParseField(field)
	if err != nil {
		return nil, err
	}

	matches, err := matcherFor(parsed, value)
	if err != nil {
		return nil, err
	}

	result := make([]RFC, 0)
	for _, item := range items {
		if matches(item) {
			result = append(result, item)
		}
	}
	return result, nil
}

// Apply narrows items by each filter in turn
func Apply(filters []Filter, items []RFC) ([]RFC, error) {
	result := items
	for _, filter := range filters {
		var err error
		if result, err = FilterBy(string(filter.Field), filter.Value, result); err != nil {
			return nil, err
		}
	}
	if result == nil {
		result = make([]RFC, 0)
	}
	return result, nil
}

func matcherFor(field Field, value string) (func(RFC) bool, error) {
	switch field {
	case FieldID:
		number, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(value), "#"))
		if err != nil {
			return func(RFC) bool { return false }, nil
		}
		return func(item RFC) bool { return item.Number == number }, nil
	case FieldTitle:
		return containsFold(value, func(item RFC) string { return item.Title }), nil
	case FieldBody:
		return containsFold(value, func(item RFC) string { return item.Body }), nil
	case FieldAuthor:
		return containsFold(value, func(item RFC) string { return item.Author }), nil
	case FieldLabel:
		groups := parseLabelExpression(value)
		return func(item RFC) bool { return matchesLabels(item, groups) }, nil
	case FieldState:
		if strings.EqualFold(strings.TrimSpace(value), StateAll) {
			return func(RFC) bool { return true }, nil
		}
		state, err := ParseState(value)
		if err != nil {
			valid := []string{StateAll}
			for _, s := range States {
				valid = append(valid, string(s))
			}
			return nil, &InvalidFilterError{Field: string(FieldState), Value: value, Valid: valid}
		}
		return func(item RFC) bool { return item.State == state }, nil
	}
	return nil, &InvalidFilterError{Field: string(field), Valid: FieldNames()}
}

func containsFold(value string, get func(RFC) string) func(RFC) bool {
	needle := strings.ToLower(value)
	return func(item RFC) bool {
		return strings.Contains(strings.ToLower(get(item)), needle)
	}
}

// parseLabelExpression reads a label filter as a conjunction of disjunctions:
// "," and "&" separate required groups, "|" separates alternatives in a group.
func parseLabelExpression(value string) [][]string {
	var groups [][]string
	for _, group := range strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == '&' }) {
		var alternatives []string
		for _, name := range strings.Split(group, "|") {
			if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
				alternatives = append(alternatives, name)
			}
		}
		if len(alternatives) > 0 {
			groups = append(groups, alternatives)
		}
	}
	return groups
}

func matchesLabels(item RFC, groups [][]string) bool {
	if len(groups) == 0 {
		return false
	}
	labels := sets.New[string]()
	for _, name := range item.LabelNames() {
		labels.Insert(strings.ToLower(name))
	}
	for _, alternatives := range groups {
		if !labels.HasAny(alternatives...) {
			return false
		}
	}
	return true
}
