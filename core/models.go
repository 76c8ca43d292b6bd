package core

import (
	"fmt"
	"strings"
	"time"
)

// ID is a unique identifier for reports.
// It is generated from database sequences.
type ID uint64

// Status identifies which side of the lost/found exchange a report is on.
type Status int

const (
	// StatusLost is a report filed by someone who lost an item.
	StatusLost Status = iota + 1
	// StatusFound is a report filed by someone who found an item.
	StatusFound
)

// String returns the lower-case status label used in storage and on the CLI.
func (s Status) String() string {
	switch s {
	case StatusLost:
		return "lost"
	case StatusFound:
		return "found"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Opposite returns the status a report's candidates must have.
func (s Status) Opposite() Status {
	switch s {
	case StatusLost:
		return StatusFound
	case StatusFound:
		return StatusLost
	default:
		return 0
	}
}

// ParseStatus parses "lost" or "found" (case-insensitive).
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lost":
		return StatusLost, nil
	case "found":
		return StatusFound, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// EntityKind names a structured attribute extracted from a description.
type EntityKind string

const (
	EntityBrand    EntityKind = "brand"
	EntityColor    EntityKind = "color"
	EntityItemType EntityKind = "item_type"
)

// EntityKinds lists every kind in a stable order.
var EntityKinds = []EntityKind{EntityBrand, EntityColor, EntityItemType}

// EntitySet maps an entity kind to its single detected value.
// A missing key means the kind was not detected.
type EntitySet map[EntityKind]string

// Get returns the value for kind. Empty values are treated as absent.
func (e EntitySet) Get(kind EntityKind) (string, bool) {
	v, ok := e[kind]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Clone returns a copy of the set.
func (e EntitySet) Clone() EntitySet {
	out := make(EntitySet, len(e))
	for k, v := range e {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Category is a coarse item label from a closed vocabulary.
type Category string

const (
	CategoryPhone        Category = "phone"
	CategoryCharger      Category = "charger"
	CategoryPhoneCharger Category = "phone charger"
	CategoryLaptop       Category = "laptop"
	CategoryWallet       Category = "wallet"
	CategoryKeys         Category = "keys"
	CategoryID           Category = "id"
	CategoryBag          Category = "bag"
	CategoryBook         Category = "book"
	CategoryHeadphone    Category = "headphone"
	CategoryWatch        Category = "watch"
	CategoryClothing     Category = "clothing"
	CategoryJewelry      Category = "jewelry"
	CategoryElectronics  Category = "electronics"
	CategoryStationery   Category = "stationery"
	CategoryOther        Category = "other"
)

// Categories is the closed category vocabulary, fallback last.
var Categories = []Category{
	CategoryPhone, CategoryCharger, CategoryPhoneCharger, CategoryLaptop,
	CategoryWallet, CategoryKeys, CategoryID, CategoryBag, CategoryBook,
	CategoryHeadphone, CategoryWatch, CategoryClothing, CategoryJewelry,
	CategoryElectronics, CategoryStationery, CategoryOther,
}

// IsKnownCategory reports whether c belongs to the vocabulary.
func IsKnownCategory(c Category) bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// Analysis holds the fields derived from a report's description.
// They are computed at creation and recomputed when the description changes.
type Analysis struct {
	Vector      Vector    // Embedding of the normalized description; empty if the model was unavailable
	Entities    EntitySet // Extracted brand/color/item_type
	Category    Category
	Fingerprint uint64 // Fingerprint of the description the fields were computed from
	Model       string // Embedding model that produced Vector
}

// EmbeddingModel identifies the model vectors are currently computed with.
// Vectors from different models are not comparable, even at equal dimension.
type EmbeddingModel struct {
	Name      string
	Dimension int
}

// IsCurrent reports whether the analysis was computed from description and
// carries a vector produced by model.
func (a Analysis) IsCurrent(description string, model EmbeddingModel) bool {
	if a.Category == "" || a.Fingerprint != Fingerprint(description) {
		return false
	}
	if a.Model != model.Name {
		return false
	}
	return model.Dimension > 0 && a.Vector.Dim() == model.Dimension
}

// Report is a single lost or found item report.
type Report struct {
	Id          ID
	Name        string // Display name of the reporter
	Contact     string // Contact address of the reporter
	Description string // Normalized (trimmed, lower-cased) description
	Status      Status
	Secret      string // Optional verification phrase known only to the owner
	OwnerID     string // Reference to the reporting user
	Image       []byte
	Resolved    bool // Set by an administrator when the item is returned
	Matched     bool // Set once by the matching engine; never cleared
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Analysis
}

// ScoreBreakdown records how a match score was assembled.
type ScoreBreakdown struct {
	Similarity    float64 // Cosine similarity scaled to [0, 100]
	BrandBonus    float64
	ColorBonus    float64
	ItemTypeBonus float64
	CategoryBonus float64
}

// Bonus returns the sum of all entity and category bonuses.
func (b ScoreBreakdown) Bonus() float64 {
	return b.BrandBonus + b.ColorBonus + b.ItemTypeBonus + b.CategoryBonus
}

// Total returns the final score.
func (b ScoreBreakdown) Total() float64 {
	return b.Similarity + b.Bonus()
}

// MatchResult is a candidate report that matched a query report.
type MatchResult struct {
	Candidate *Report
	Score     float64
	Breakdown ScoreBreakdown
}

// SearchResult is a report returned by a search with its relevance score.
type SearchResult struct {
	Report *Report
	Score  float64
}

// Stats summarizes the report corpus.
type Stats struct {
	Total    int
	Lost     int
	Found    int
	Resolved int
	Matched  int
}
