package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
)

// SearchService finds records of one kind by label
type SearchService[T domain.Record] struct {
	collection ports.Collection[T]
}

// NewSearchService creates a new search service
func NewSearchService[T domain.Record](collection ports.Collection[T]) *SearchService[T] {
	return &SearchService[T]{
		collection: collection,
	}
}

// SearchRequest represents a search query
type SearchRequest struct {
	Query string
}

// SearchResponse represents search results, best match first
type SearchResponse[T domain.Record] struct {
	Records []T
	Total   int
}

// Execute fetches the collection and fuzzy-filters it
func (s *SearchService[T]) Execute(ctx context.Context, req SearchRequest) (*SearchResponse[T], error) {
	records, err := s.collection.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	matches := FuzzySearch(records, req.Query)
	return &SearchResponse[T]{
		Records: matches,
		Total:   len(matches),
	}, nil
}

// Resolve turns a query into exactly one record. A numeric query matches
// by id; otherwise the best fuzzy match wins if it is unambiguous.
func (s *SearchService[T]) Resolve(ctx context.Context, query string) (T, error) {
	var zero T
	records, err := s.collection.List(ctx)
	if err != nil {
		return zero, fmt.Errorf("failed to list records: %w", err)
	}
	return ResolveRecord(records, query)
}

// ResolveRecord is Resolve over an already fetched collection
func ResolveRecord[T domain.Record](records []T, query string) (T, error) {
	var zero T
	query = strings.TrimSpace(query)
	if query == "" {
		return zero, domain.NewValidationError("query", "a name or id is required")
	}

	if id, err := strconv.Atoi(query); err == nil {
		if r, ok := findRecord(records, id); ok {
			return r, nil
		}
	}

	scored := scoreRecords(records, query)
	if len(scored) == 0 {
		return zero, fmt.Errorf("no record matches %q", query)
	}
	if len(scored) > 1 && scored[0].score == scored[1].score {
		labels := make([]string, 0, 3)
		for i := 0; i < len(scored) && i < 3; i++ {
			labels = append(labels, scored[i].record.Label())
		}
		return zero, fmt.Errorf("%q is ambiguous: %s", query, strings.Join(labels, ", "))
	}
	return scored[0].record, nil
}

// FuzzySearch returns the records matching query, best first.
// An empty query returns every record in its original order.
func FuzzySearch[T domain.Record](records []T, query string) []T {
	if strings.TrimSpace(query) == "" {
		return records
	}
	scored := scoreRecords(records, query)
	result := make([]T, len(scored))
	for i, m := range scored {
		result[i] = m.record
	}
	return result
}

type keyworded interface {
	Keywords() []string
}

// fuzzyMatch represents a scored match
type fuzzyMatch[T domain.Record] struct {
	record T
	score  int
}

func scoreRecords[T domain.Record](records []T, query string) []fuzzyMatch[T] {
	query = strings.TrimSpace(query)
	var matches []fuzzyMatch[T]

	for _, r := range records {
		// Label match has the highest priority
		if score := fuzzyMatchScore(r.Label(), query); score > 0 {
			matches = append(matches, fuzzyMatch[T]{record: r, score: score + 1000})
			continue
		}

		kw, ok := any(r).(keyworded)
		if !ok {
			continue
		}
		for _, k := range kw.Keywords() {
			if score := fuzzyMatchScore(k, query); score > 0 {
				matches = append(matches, fuzzyMatch[T]{record: r, score: score + 200})
				break
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	return matches
}

// fuzzyMatchScore calculates a score for fuzzy matching query against text
// Returns 0 if no match, higher scores for better matches
func fuzzyMatchScore(text, query string) int {
	if text == "" || query == "" {
		return 0
	}

	textLower := strings.ToLower(text)
	queryLower := strings.ToLower(query)

	if text == query {
		return 10000
	}
	if textLower == queryLower {
		return 9000
	}

	if strings.Contains(textLower, queryLower) {
		score := 5000
		if strings.HasPrefix(textLower, queryLower) {
			score += 2000
		}
		return score
	}

	// Character-by-character subsequence match
	score := 0
	textRunes := []rune(textLower)
	queryRunes := []rune(queryLower)

	queryIdx := 0
	consecutive := 0
	lastMatchIdx := -1

	for textIdx := 0; textIdx < len(textRunes) && queryIdx < len(queryRunes); textIdx++ {
		if textRunes[textIdx] != queryRunes[queryIdx] {
			continue
		}
		score += 100

		if textIdx == lastMatchIdx+1 {
			consecutive++
			score += consecutive * 50
		} else {
			consecutive = 0
		}

		if textIdx == 0 || isWordBoundary(textRunes[textIdx-1]) {
			score += 200
		}
		if textIdx == 0 {
			score += 300
		}

		lastMatchIdx = textIdx
		queryIdx++
	}

	if queryIdx != len(queryRunes) {
		return 0
	}

	// Gaps between matched characters cost a little
	if lastMatchIdx >= 0 {
		score -= (lastMatchIdx + 1 - len(queryRunes)) * 10
	}
	return score
}

func isWordBoundary(r rune) bool {
	return unicode.IsSpace(r) || r == '-' || r == '_' || r == '@' || r == '.'
}
