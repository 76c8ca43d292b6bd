package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/poiesic/lostfound/core"
	"github.com/poiesic/lostfound/extract"
)

// Classifier assigns one category from the closed vocabulary.
type Classifier struct {
	rules []CategoryRule
	phone []*regexp.Regexp
}

// Option configures a Classifier.
type Option func(*Classifier) error

// WithRules replaces the keyword-overlap table.
func WithRules(rules []CategoryRule) Option {
	return func(c *Classifier) error {
		if len(rules) == 0 {
			return ErrNoRules
		}
		for _, rule := range rules {
			if !core.IsKnownCategory(rule.Category) {
				return fmt.Errorf("%w: %q", core.ErrUnknownCategory, rule.Category)
			}
		}
		c.rules = rules
		return nil
	}
}

// New creates a Classifier.
func New(opts ...Option) (*Classifier, error) {
	c := &Classifier{rules: DefaultRules}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	for _, kw := range PhoneKeywords {
		re, err := extract.WholeWordPattern(kw)
		if err != nil {
			return nil, err
		}
		c.phone = append(c.phone, re)
	}
	return c, nil
}

// MustNew is New with the default table; it panics on error.
func MustNew() *Classifier {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

// Classify returns the category of a description.
//
// A detected item type is the category. Without one, the category with the
// most keyword hits wins, earlier rules winning ties, and no hits at all
// yields "other". Chargers mentioned together with a phone are refined to
// "phone charger".
func (c *Classifier) Classify(text string, entities core.EntitySet) core.Category {
	text = core.NormalizeDescription(text)

	category, ok := fromItemType(entities)
	if !ok {
		category = c.byOverlap(text)
	}
	return c.refine(category, text)
}

func fromItemType(entities core.EntitySet) (core.Category, bool) {
	itemType, ok := entities.Get(core.EntityItemType)
	if !ok {
		return "", false
	}
	category := core.Category(itemType)
	if !core.IsKnownCategory(category) {
		return "", false
	}
	return category, true
}

func (c *Classifier) byOverlap(text string) core.Category {
	best, bestScore := core.CategoryOther, 0
	for _, rule := range c.rules {
		score := 0
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = rule.Category, score
		}
	}
	return best
}

// refine uses whole words so "headphone charger" stays a charger.
func (c *Classifier) refine(category core.Category, text string) core.Category {
	if category != core.CategoryCharger {
		return category
	}
	for _, re := range c.phone {
		if re.MatchString(text) {
			return core.CategoryPhoneCharger
		}
	}
	return category
}
