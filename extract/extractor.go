package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/poiesic/lostfound/core"
)

// Extractor detects brand, color and item type in a description.
// It is stateless after construction and safe for concurrent use.
type Extractor struct {
	kinds []compiledKind
}

type compiledKind struct {
	kind  core.EntityKind
	rules []compiledRule
}

type compiledRule struct {
	value    string
	patterns []*regexp.Regexp
}

// Option configures an Extractor.
type Option func(*config) error

type config struct {
	rules []Rule
}

// WithRules replaces the default rule tables.
func WithRules(rules []Rule) Option {
	return func(c *config) error {
		if len(rules) == 0 {
			return ErrNoRules
		}
		c.rules = rules
		return nil
	}
}

// New compiles the rule tables into an Extractor.
func New(opts ...Option) (*Extractor, error) {
	cfg := &config{rules: DefaultRules()}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	e := &Extractor{}
	index := make(map[core.EntityKind]int)
	for _, rule := range cfg.rules {
		if rule.Kind == "" || rule.Value == "" || len(rule.Keywords) == 0 {
			return nil, fmt.Errorf("%w: %+v", ErrInvalidRule, rule)
		}
		compiled := compiledRule{value: rule.Value}
		for _, keyword := range rule.Keywords {
			pattern, err := WholeWordPattern(keyword)
			if err != nil {
				return nil, fmt.Errorf("%w: keyword %q: %w", ErrInvalidRule, keyword, err)
			}
			compiled.patterns = append(compiled.patterns, pattern)
		}

		i, ok := index[rule.Kind]
		if !ok {
			i = len(e.kinds)
			index[rule.Kind] = i
			e.kinds = append(e.kinds, compiledKind{kind: rule.Kind})
		}
		e.kinds[i].rules = append(e.kinds[i].rules, compiled)
	}
	return e, nil
}

// MustNew is New for the default tables; it panics on error.
func MustNew() *Extractor {
	e, err := New()
	if err != nil {
		panic(err)
	}
	return e
}

// Extract returns at most one value per entity kind.
// For each kind, the first rule in table order with a keyword present as a
// whole word sets the value.
func (e *Extractor) Extract(text string) core.EntitySet {
	entities := make(core.EntitySet)
	for _, k := range e.kinds {
		if value, ok := k.match(text); ok {
			entities[k.kind] = value
		}
	}
	return entities
}

func (k compiledKind) match(text string) (string, bool) {
	for _, rule := range k.rules {
		for _, pattern := range rule.patterns {
			if pattern.MatchString(text) {
				return rule.value, true
			}
		}
	}
	return "", false
}

// Word boundaries for keyword patterns. RE2's \b only knows ASCII word
// characters, so accented letters would count as separators.
const (
	wordStart = `(?:^|[^\p{L}\p{M}\p{N}_])`
	wordEnd   = `(?:$|[^\p{L}\p{M}\p{N}_])`
)

// WholeWordPattern builds a case-insensitive pattern matching keyword as a
// whole word. Inner spaces match any run of whitespace.
func WholeWordPattern(keyword string) (*regexp.Regexp, error) {
	words := strings.Fields(keyword)
	if len(words) == 0 {
		return nil, ErrEmptyKeyword
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.Compile(`(?i)` + wordStart + strings.Join(quoted, `\s+`) + wordEnd)
}
