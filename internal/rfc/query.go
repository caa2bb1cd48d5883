package rfc

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Kind is the shape of a query, decided once by Classify
type Kind int

const (
	KindEmpty Kind = iota
	KindIdentifier
	KindFiltered
	KindFreeText
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindIdentifier:
		return "identifier"
	case KindFiltered:
		return "filtered"
	case KindFreeText:
		return "free-text"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Query is a classified user query. Exactly one of Number, Filters or Text
// drives the lookup, depending on Kind.
type Query struct {
	Kind    Kind
	Text    string
	Number  int
	Filters []Filter
}

// String renders the query the way a user would type it
func (q Query) String() string {
	switch q.Kind {
	case KindIdentifier:
		return fmt.Sprintf("#%d", q.Number)
	case KindFiltered:
		parts := make([]string, 0, len(q.Filters))
		for _, filter := range q.Filters {
			parts = append(parts, fmt.Sprintf("%s:%s", filter.Field, filter.Value))
		}
		return strings.Join(parts, " ")
	}
	return q.Text
}

var (
	identifierPattern  = regexp.MustCompile(`^#?(\d+)$`)
	filterTokenPattern = regexp.MustCompile(`(?i)(?:^|\s)(id|number|title|body|author|labels?|state):`)
)

// Classify turns raw query text and filter flags into a Query. Flags whose
// names are not filter fields are ignored, they belong to the caller.
func Classify(text string, flags map[string]string) Query {
	text = strings.TrimSpace(text)
	query := Query{Text: text}

	if match := identifierPattern.FindStringSubmatch(text); match != nil {
		if number, err := strconv.Atoi(match[1]); err == nil {
			query.Kind = KindIdentifier
			query.Number = number
			return query
		}
	}

	query.Filters = append(parseFilterTokens(text), filtersFromFlags(flags)...)
	switch {
	case len(query.Filters) > 0:
		query.Kind = KindFiltered
	case text == "":
		query.Kind = KindEmpty
	default:
		query.Kind = KindFreeText
	}
	return query
}

// parseFilterTokens extracts "field:value" tokens, each value running up to
// the next token so values may contain spaces ("title:initial placeholder").
func parseFilterTokens(text string) []Filter {
	locations := filterTokenPattern.FindAllStringSubmatchIndex(text, -1)
	var filters []Filter
	for i, location := range locations {
		end := len(text)
		if i+1 < len(locations) {
			end = locations[i+1][0]
		}
		field, err := ParseField(text[location[2]:location[3]])
		if err != nil {
			continue
		}
		value := strings.TrimSpace(text[location[1]:end])
		if value == "" {
			continue
		}
		filters = append(filters, Filter{Field: field, Value: value})
	}
	return filters
}

func filtersFromFlags(flags map[string]string) []Filter {
	var filters []Filter
	for name, value := range flags {
		field, err := ParseField(name)
		if err != nil || strings.TrimSpace(value) == "" {
			continue
		}
		filters = append(filters, Filter{Field: field, Value: value})
	}
	order := make(map[Field]int, len(Fields))
	for i, field := range Fields {
		order[field] = i
	}
	sort.SliceStable(filters, func(i, j int) bool {
		if filters[i].Field != filters[j].Field {
			return order[filters[i].Field] < order[filters[j].Field]
		}
		return filters[i].Value < filters[j].Value
	})
	return filters
}

// Source provides the current RFC collection
type Source interface {
	GetAll(ctx context.Context, force bool) ([]RFC, error)
}

// Router resolves queries against a Source
type Router struct {
	source    Source
	threshold float64
}

// NewRouter creates a Router using the default search threshold
func NewRouter(source Source) *Router {
	return &Router{
		source:    source,
		threshold: DefaultThreshold,
	}
}

// Resolve classifies and runs a query in one step
func (r *Router) Resolve(ctx context.Context, text string, flags map[string]string) (Query, []RFC, error) {
	query := Classify(text, flags)
	items, err := r.Run(ctx, query)
	return query, items, err
}

// Run executes a classified query. Identifier lookups without a match
// return a NotFoundError; every other kind returns an empty result instead.
func (r *Router) Run(ctx context.Context, query Query) ([]RFC, error) {
	all, err := r.source.GetAll(ctx, false)
	if err != nil {
		return nil, err
	}

	switch query.Kind {
	case KindEmpty:
		return all, nil
	case KindIdentifier:
		items, err := FilterBy(string(FieldID), strconv.Itoa(query.Number), all)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, &NotFoundError{Query: query.String()}
		}
		return items, nil
	case KindFiltered:
		return Apply(query.Filters, all)
	case KindFreeText:
		return MatchedRFCs(Search(query.Text, all, r.threshold)), nil
	}
	return nil, fmt.Errorf("unsupported query kind %s", query.Kind)
}

// Suggest runs a low-confidence search for "did you mean" answers after a
// query came back empty
func (r *Router) Suggest(ctx context.Context, text string) ([]RFC, error) {
	all, err := r.source.GetAll(ctx, false)
	if err != nil {
		return nil, err
	}
	return MatchedRFCs(Search(text, all, SuggestThreshold)), nil
}
