// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"time"
)

// ValidateReport validates a Report according to domain rules.
//
// Validation rules:
//   - Description must not be empty after normalization
//   - Status must be Lost or Found
//   - Contact must not be empty
//   - Category, if set, must belong to the vocabulary
//   - CreatedAt must not be in the future
//
// NOT validated (populated by analysis):
//   - Vector (empty when the embedding model is unavailable)
//   - Entities
//   - ID (0 is valid from database sequences)
func ValidateReport(report *Report) error {
	if report == nil {
		return fmt.Errorf("%w: report is nil", ErrInvalidReport)
	}

	if NormalizeDescription(report.Description) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidReport, ErrEmptyDescription)
	}

	if err := ValidateStatus(report.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidReport, err)
	}

	if report.Contact == "" {
		return fmt.Errorf("%w: %w", ErrInvalidReport, ErrEmptyContact)
	}

	if report.Category != "" && !IsKnownCategory(report.Category) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidReport, ErrUnknownCategory, report.Category)
	}

	if !IsValidTimestamp(report.CreatedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidReport, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateStatus validates that a Status has a valid value.
func ValidateStatus(status Status) error {
	if status != StatusLost && status != StatusFound {
		return fmt.Errorf("%w: value %d", ErrInvalidStatus, status)
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
