package rfc

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSearch(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []int
	}{
		{name: "exact title word", query: "fallthrough", expected: []int{23}},
		{name: "typo in title", query: "fallthrogh", expected: []int{23}},
		{name: "case is ignored", query: "ATTRIBUTE FALLTHROUGH", expected: []int{23}},
		{name: "exact title ranks first", query: "Router guards", expected: []int{40}},
		{name: "author ties break by number", query: "posva", expected: []int{29, 40}},
		{name: "nothing close", query: "suspense boundaries", expected: []int{}},
		{name: "blank query", query: "   ", expected: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Search(tt.query, sampleRFCs(), DefaultThreshold)
			if result == nil {
				t.Fatalf("expected a non-nil result")
			}
			if diff := cmp.Diff(tt.expected, numbers(MatchedRFCs(result))); diff != "" {
				t.Errorf("unexpected result (-want +got):\n%s", diff)
			}
			for _, match := range result {
				if match.Score > DefaultThreshold {
					t.Errorf("match #%d has score %f above threshold %f", match.RFC.Number, match.Score, DefaultThreshold)
				}
			}
		})
	}
}

func TestSearchInitialScenario(t *testing.T) {
	items := sampleRFCs()[:2]

	result := Search("fallthrough", items, DefaultThreshold)
	if len(result) != 1 {
		t.Fatalf("expected 1 match, got %d", len(result))
	}
	if result[0].RFC.Number != 23 {
		t.Errorf("expected #23, got #%d", result[0].RFC.Number)
	}
	if result[0].Field != FieldTitle {
		t.Errorf("expected a title match, got %q", result[0].Field)
	}
	if result[0].Score != 0 {
		t.Errorf("expected an exact match, got score %f", result[0].Score)
	}
}

func TestSearchBodyMatchesArePenalized(t *testing.T) {
	result := Search("navigation guard", sampleRFCs(), DefaultThreshold)
	if len(result) != 1 {
		t.Fatalf("expected 1 match, got %d", len(result))
	}
	match := result[0]
	if match.RFC.Number != 40 {
		t.Errorf("expected #40, got #%d", match.RFC.Number)
	}
	if match.Field != FieldBody {
		t.Errorf("expected a body match, got %q", match.Field)
	}
	if math.Abs(match.Score-bodyPenalty) > 1e-9 {
		t.Errorf("expected score %f, got %f", bodyPenalty, match.Score)
	}
	if math.Abs(match.Relevance()-(1-bodyPenalty)) > 1e-9 {
		t.Errorf("expected relevance %f, got %f", 1-bodyPenalty, match.Relevance())
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	items := sampleRFCs()
	first := numbers(MatchedRFCs(Search("r", items, 1)))
	for i := 0; i < 10; i++ {
		again := numbers(MatchedRFCs(Search("r", items, 1)))
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("search order changed between runs (-first +again):\n%s", diff)
		}
	}
}

func TestSubstringDistance(t *testing.T) {
	tests := []struct {
		pattern  string
		text     string
		expected int
	}{
		{pattern: "abc", text: "xxabcxx", expected: 0},
		{pattern: "abc", text: "xxabxx", expected: 1},
		{pattern: "abc", text: "ab", expected: 1},
		{pattern: "abcd", text: "ab", expected: 2},
		{pattern: "kitten", text: "sitting", expected: 2},
		{pattern: "abc", text: "", expected: 3},
		{pattern: "", text: "abc", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.text, func(t *testing.T) {
			if got := substringDistance([]rune(tt.pattern), []rune(tt.text)); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}
