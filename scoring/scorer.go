package scoring

import "github.com/poiesic/lostfound/core"

// Bonus points added on top of the similarity percentage.
const (
	BrandBonus    = 25.0
	ColorBonus    = 15.0
	ItemTypeBonus = 20.0
	CategoryBonus = 10.0
)

// Features are the computed fields of one description.
type Features struct {
	Vector   core.Vector
	Entities core.EntitySet
	Category core.Category
}

// FeaturesOf returns the computed fields of a report.
func FeaturesOf(r *core.Report) Features {
	return Features{Vector: r.Vector, Entities: r.Entities, Category: r.Category}
}

// Scorer computes the match score of a pair of descriptions.
// Scores are not clamped, so a perfect match with every bonus exceeds 100.
type Scorer struct {
	otherCategoryBonus bool
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithOtherCategoryBonus controls whether two uncategorized items earn the
// category bonus. The default is no.
func WithOtherCategoryBonus(enabled bool) Option {
	return func(s *Scorer) {
		s.otherCategoryBonus = enabled
	}
}

// NewScorer creates a Scorer.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score compares two descriptions. It is symmetric in its arguments.
func (s *Scorer) Score(a, b Features) core.ScoreBreakdown {
	return core.ScoreBreakdown{
		Similarity:    core.Similarity(a.Vector, b.Vector),
		BrandBonus:    entityBonus(a.Entities, b.Entities, core.EntityBrand, BrandBonus),
		ColorBonus:    entityBonus(a.Entities, b.Entities, core.EntityColor, ColorBonus),
		ItemTypeBonus: entityBonus(a.Entities, b.Entities, core.EntityItemType, ItemTypeBonus),
		CategoryBonus: s.categoryBonus(a.Category, b.Category),
	}
}

func entityBonus(a, b core.EntitySet, kind core.EntityKind, points float64) float64 {
	va, ok := a.Get(kind)
	if !ok {
		return 0
	}
	if vb, ok := b.Get(kind); ok && va == vb {
		return points
	}
	return 0
}

func (s *Scorer) categoryBonus(a, b core.Category) float64 {
	if a == "" || a != b {
		return 0
	}
	if a == core.CategoryOther && !s.otherCategoryBonus {
		return 0
	}
	return CategoryBonus
}
