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


package storage

import (
	"context"

	"github.com/poiesic/lostfound/core"
)

// TransactionManager runs a sequence of repository calls atomically.
type TransactionManager interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn carries the transaction; repository calls made
	// with it join the transaction instead of opening their own.
	// Nested calls join the outermost transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ListFilter narrows ListReports results.
type ListFilter struct {
	// Status restricts results to one status. Zero means any status.
	Status core.Status
	// IncludeResolved includes reports an administrator marked resolved.
	IncludeResolved bool
	// Limit caps the number of results. Zero means no limit.
	Limit int
}

// ReportRepository provides operations for managing lost and found reports.
// Implementations must be thread-safe and support concurrent access.
type ReportRepository interface {
	TransactionManager

	// CreateReport stores a new report.
	// Generates the ID from a sequence and sets CreatedAt/UpdatedAt if not already set.
	// Returns the report with ID and timestamps populated.
	CreateReport(ctx context.Context, report *core.Report) (*core.Report, error)

	// GetReport retrieves a single report by ID.
	// Returns ErrNotFound if the report doesn't exist.
	GetReport(ctx context.Context, id core.ID) (*core.Report, error)

	// ListReports returns reports matching filter, newest first.
	ListReports(ctx context.Context, filter ListFilter) ([]*core.Report, error)

	// GetCandidates returns every unresolved report with the given status,
	// excluding excludeID, ordered by ID ascending.
	GetCandidates(ctx context.Context, status core.Status, excludeID core.ID) ([]*core.Report, error)

	// UpdateMatchedFlags sets Matched on every listed report.
	// Matched is never cleared. Returns ErrNotFound if any report doesn't exist.
	UpdateMatchedFlags(ctx context.Context, ids ...core.ID) error

	// UpdateComputedFields replaces a report's embedding, entities, category
	// and fingerprint without touching its description.
	// Returns ErrNotFound if the report doesn't exist.
	UpdateComputedFields(ctx context.Context, id core.ID, analysis core.Analysis) error

	// UpdateDescription replaces a report's description together with the
	// fields computed from it. Returns ErrNotFound if the report doesn't exist.
	UpdateDescription(ctx context.Context, id core.ID, description string, analysis core.Analysis) error

	// SetResolved sets or clears the administrative resolved flag.
	// Returns ErrNotFound if the report doesn't exist.
	SetResolved(ctx context.Context, id core.ID, resolved bool) error

	// DeleteReport removes a report and its indices.
	// Returns ErrNotFound if the report doesn't exist.
	DeleteReport(ctx context.Context, id core.ID) error

	// Close closes the storage backend and releases resources.
	Close() error
}
