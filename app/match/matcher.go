package match

import (
	"fmt"
	"strings"

	"github.com/lysyi3m/flavor-watch/app/watch"
	"golang.org/x/text/cases"
)

// Match pairs a rule's display name with the scraped flavor that satisfied it.
type Match struct {
	Wanted string `json:"wanted"`
	Found  string `json:"found"`
}

func (m Match) String() string {
	return fmt.Sprintf("%s (found: %s)", m.Wanted, m.Found)
}

type Matcher struct{}

func NewMatcher() *Matcher {
	return &Matcher{}
}

// Run returns at most one match per rule name, in rule order. For each rule the
// surviving match is the first raw match found in scan order.
func (m *Matcher) Run(flavors []string, rules []watch.Rule) []Match {
	if len(flavors) == 0 || len(rules) == 0 {
		return []Match{}
	}

	fold := cases.Fold()
	folded := make([]string, len(flavors))
	for i, flavor := range flavors {
		folded[i] = fold.String(flavor)
	}

	var raw []Match
	for _, rule := range rules {
		switch s := rule.Strategy.(type) {
		case watch.MatchAll:
			raw = append(raw, m.matchAll(rule.Name, s.Terms, flavors, folded, fold)...)
		case watch.AnyKeyword:
			raw = append(raw, m.anyKeyword(rule.Name, s.Keywords, flavors, folded, fold)...)
		}
	}

	return Dedup(raw)
}

func (m *Matcher) matchAll(name string, terms, flavors, folded []string, fold cases.Caser) []Match {
	foldedTerms := make([]string, len(terms))
	for i, term := range terms {
		foldedTerms[i] = fold.String(term)
	}

	var matches []Match
	for i, flavor := range folded {
		if containsAll(flavor, foldedTerms) {
			matches = append(matches, Match{Wanted: name, Found: flavors[i]})
		}
	}
	return matches
}

func (m *Matcher) anyKeyword(name string, keywords, flavors, folded []string, fold cases.Caser) []Match {
	var matches []Match
	for _, keyword := range keywords {
		keyword = fold.String(keyword)
		for i, flavor := range folded {
			if strings.Contains(flavor, keyword) {
				matches = append(matches, Match{Wanted: name, Found: flavors[i]})
				break
			}
		}
	}
	return matches
}

func containsAll(s string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(s, term) {
			return false
		}
	}
	return true
}

// Dedup keeps the first match for each wanted name.
func Dedup(matches []Match) []Match {
	seen := make(map[string]bool, len(matches))
	unique := make([]Match, 0, len(matches))
	for _, match := range matches {
		if seen[match.Wanted] {
			continue
		}
		seen[match.Wanted] = true
		unique = append(unique, match)
	}
	return unique
}
