package core

import (
	"errors"
	"testing"
)

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		wantSame bool
	}{
		{
			name:     "same content produces same fingerprint",
			a:        "black wallet",
			b:        "black wallet",
			wantSame: true,
		},
		{
			name:     "normalization is applied",
			a:        "  Black Wallet ",
			b:        "black wallet",
			wantSame: true,
		},
		{
			name:     "empty string",
			a:        "",
			b:        "   ",
			wantSame: true,
		},
		{
			name:     "different content",
			a:        "black wallet",
			b:        "brown wallet",
			wantSame: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			same := Fingerprint(tt.a) == Fingerprint(tt.b)
			if same != tt.wantSame {
				t.Errorf("Fingerprint(%q) == Fingerprint(%q) is %v, want %v", tt.a, tt.b, same, tt.wantSame)
			}
		})
	}
}

func TestNormalizeDescription(t *testing.T) {
	if got := NormalizeDescription("\t Black iPhone 12 \n"); got != "black iphone 12" {
		t.Errorf("NormalizeDescription() = %q", got)
	}
}

func TestStatus(t *testing.T) {
	if StatusLost.Opposite() != StatusFound || StatusFound.Opposite() != StatusLost {
		t.Error("Opposite() should swap lost and found")
	}
	if Status(9).Opposite() != 0 {
		t.Error("Opposite() of an invalid status should be 0")
	}

	for _, in := range []string{"lost", "LOST", " Lost "} {
		s, err := ParseStatus(in)
		if err != nil || s != StatusLost {
			t.Errorf("ParseStatus(%q) = %v, %v", in, s, err)
		}
	}
	s, err := ParseStatus("found")
	if err != nil || s != StatusFound {
		t.Errorf("ParseStatus(found) = %v, %v", s, err)
	}
	if s.String() != "found" {
		t.Errorf("String() = %q", s.String())
	}

	_, err = ParseStatus("stolen")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("ParseStatus(stolen) error = %v, want ErrInvalidStatus", err)
	}
}

func TestEntitySet_Get(t *testing.T) {
	set := EntitySet{EntityBrand: "apple", EntityColor: ""}

	if v, ok := set.Get(EntityBrand); !ok || v != "apple" {
		t.Errorf("Get(brand) = %q, %v", v, ok)
	}
	if _, ok := set.Get(EntityColor); ok {
		t.Error("empty values should be reported as absent")
	}
	if _, ok := set.Get(EntityItemType); ok {
		t.Error("missing kinds should be reported as absent")
	}

	clone := set.Clone()
	if len(clone) != 1 {
		t.Errorf("Clone() should drop empty values, got %v", clone)
	}
}

func TestScoreBreakdown_Total(t *testing.T) {
	b := ScoreBreakdown{
		Similarity:    50,
		BrandBonus:    25,
		ColorBonus:    15,
		ItemTypeBonus: 20,
		CategoryBonus: 10,
	}
	if b.Bonus() != 70 {
		t.Errorf("Bonus() = %v, want 70", b.Bonus())
	}
	if b.Total() != 120 {
		t.Errorf("Total() = %v, want 120", b.Total())
	}
}

func TestAnalysis_IsCurrent(t *testing.T) {
	a := Analysis{
		Vector:      Vector{1, 0, 0},
		Category:    CategoryWallet,
		Fingerprint: Fingerprint("black wallet"),
		Model:       "minilm",
	}
	model := EmbeddingModel{Name: "minilm", Dimension: 3}

	if !a.IsCurrent("black wallet", model) {
		t.Error("analysis should be current")
	}
	if a.IsCurrent("brown wallet", model) {
		t.Error("changed description should make analysis stale")
	}
	if a.IsCurrent("black wallet", EmbeddingModel{Name: "minilm", Dimension: 4}) {
		t.Error("dimension mismatch should make analysis stale")
	}
	if a.IsCurrent("black wallet", EmbeddingModel{Name: "mpnet", Dimension: 3}) {
		t.Error("another model of the same dimension should make analysis stale")
	}
	a.Model = ""
	if a.IsCurrent("black wallet", model) {
		t.Error("vector of unknown origin should be stale")
	}
	a.Model = "minilm"
	a.Category = ""
	if a.IsCurrent("black wallet", model) {
		t.Error("missing category should make analysis stale")
	}
}
