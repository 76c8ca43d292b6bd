package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/lostfound/core"
	"github.com/poiesic/lostfound/storage"
)

const reportColumns = `id, name, contact, description, status, secret, owner_id, image,
	resolved, matched, category, embedding, entities, fingerprint, embedding_model, created_at, updated_at`

// CreateReport stores a new report.
func (s *Store) CreateReport(ctx context.Context, report *core.Report) (*core.Report, error) {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	report.UpdatedAt = report.CreatedAt

	entitiesJSON, err := marshalEntities(report.Entities)
	if err != nil {
		return nil, err
	}
	embedding, _ := report.Vector.MarshalBinary()

	res, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO reports (name, contact, description, status, secret, owner_id, image,
			resolved, matched, category, embedding, entities, fingerprint, embedding_model, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.Name, report.Contact, report.Description, int(report.Status), report.Secret,
		report.OwnerID, report.Image, report.Resolved, report.Matched, string(report.Category),
		embedding, entitiesJSON, int64(report.Fingerprint), report.Model,
		report.CreatedAt.UnixMicro(), report.UpdatedAt.UnixMicro())
	if err != nil {
		return nil, fmt.Errorf("inserting report: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading report id: %w", err)
	}
	report.Id = core.ID(id)
	return report, nil
}

// GetReport retrieves a single report by ID.
func (s *Store) GetReport(ctx context.Context, id core.ID) (*core.Report, error) {
	row := s.q(ctx).QueryRowContext(ctx, "SELECT "+reportColumns+" FROM reports WHERE id = ?", int64(id))
	report, err := s.scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	return report, err
}

// ListReports returns reports matching filter, newest first.
func (s *Store) ListReports(ctx context.Context, filter storage.ListFilter) ([]*core.Report, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != 0 {
		where = append(where, "status = ?")
		args = append(args, int(filter.Status))
	}
	if !filter.IncludeResolved {
		where = append(where, "resolved = 0")
	}

	query := "SELECT " + reportColumns + " FROM reports"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	return s.queryReports(ctx, query, args...)
}

// GetCandidates returns unresolved reports with status, excluding excludeID.
func (s *Store) GetCandidates(ctx context.Context, status core.Status, excludeID core.ID) ([]*core.Report, error) {
	return s.queryReports(ctx,
		"SELECT "+reportColumns+" FROM reports WHERE status = ? AND resolved = 0 AND id != ? ORDER BY id ASC",
		int(status), int64(excludeID))
}

// UpdateMatchedFlags sets matched on every listed report.
func (s *Store) UpdateMatchedFlags(ctx context.Context, ids ...core.ID) error {
	return s.WithTransaction(ctx, func(ctx context.Context) error {
		now := time.Now().UTC().UnixMicro()
		for _, id := range ids {
			// matched is never cleared, so existing matches keep their timestamp
			res, err := s.q(ctx).ExecContext(ctx,
				"UPDATE reports SET matched = 1, updated_at = CASE WHEN matched = 1 THEN updated_at ELSE ? END WHERE id = ?",
				now, int64(id))
			if err := expectOneRow(res, err); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateComputedFields replaces a report's computed fields.
func (s *Store) UpdateComputedFields(ctx context.Context, id core.ID, analysis core.Analysis) error {
	entitiesJSON, err := marshalEntities(analysis.Entities)
	if err != nil {
		return err
	}
	embedding, _ := analysis.Vector.MarshalBinary()
	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE reports SET category = ?, embedding = ?, entities = ?, fingerprint = ?, embedding_model = ?,
			updated_at = ?
		WHERE id = ?`,
		string(analysis.Category), embedding, entitiesJSON, int64(analysis.Fingerprint), analysis.Model,
		time.Now().UTC().UnixMicro(), int64(id))
	return expectOneRow(res, err)
}

// UpdateDescription replaces a report's description and computed fields.
func (s *Store) UpdateDescription(ctx context.Context, id core.ID, description string, analysis core.Analysis) error {
	entitiesJSON, err := marshalEntities(analysis.Entities)
	if err != nil {
		return err
	}
	embedding, _ := analysis.Vector.MarshalBinary()
	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE reports SET description = ?, category = ?, embedding = ?, entities = ?, fingerprint = ?,
			embedding_model = ?, updated_at = ?
		WHERE id = ?`,
		description, string(analysis.Category), embedding, entitiesJSON, int64(analysis.Fingerprint),
		analysis.Model, time.Now().UTC().UnixMicro(), int64(id))
	return expectOneRow(res, err)
}

// SetResolved sets or clears the resolved flag.
func (s *Store) SetResolved(ctx context.Context, id core.ID, resolved bool) error {
	res, err := s.q(ctx).ExecContext(ctx,
		"UPDATE reports SET resolved = ?, updated_at = ? WHERE id = ?",
		resolved, time.Now().UTC().UnixMicro(), int64(id))
	return expectOneRow(res, err)
}

// DeleteReport removes a report.
func (s *Store) DeleteReport(ctx context.Context, id core.ID) error {
	res, err := s.q(ctx).ExecContext(ctx, "DELETE FROM reports WHERE id = ?", int64(id))
	return expectOneRow(res, err)
}

// FindSimilar scores every report with a vector of the query's dimension,
// skipping resolved reports unless the filter includes them.
// Implements storage.VectorSearcher interface.
func (s *Store) FindSimilar(ctx context.Context, vector core.Vector, filter storage.SimilarityFilter) ([]*core.SearchResult, error) {
	query := "SELECT " + reportColumns + " FROM reports WHERE length(embedding) = ?"
	if !filter.IncludeResolved {
		query += " AND resolved = 0"
	}
	reports, err := s.queryReports(ctx, query, vector.Dim()*4)
	if err != nil {
		return nil, err
	}

	var results []*core.SearchResult
	for _, report := range reports {
		score := core.Similarity(vector, report.Vector)
		if score >= filter.MinScore {
			results = append(results, &core.SearchResult{Report: report, Score: score})
		}
	}
	return storage.RankSearchResults(results, filter.Limit), nil
}

func (s *Store) queryReports(ctx context.Context, query string, args ...any) ([]*core.Report, error) {
	rows, err := s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var reports []*core.Report
	for rows.Next() {
		report, err := s.scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

// scanReport scans a single report row.
// An undecodable embedding is logged and dropped so the report can still be
// read and its fields recomputed.
func (s *Store) scanReport(row scanner) (*core.Report, error) {
	var (
		report      core.Report
		id          int64
		status      int
		category    string
		embedding   []byte
		entities    string
		fingerprint int64
		createdAt   int64
		updatedAt   int64
	)
	err := row.Scan(&id, &report.Name, &report.Contact, &report.Description, &status,
		&report.Secret, &report.OwnerID, &report.Image, &report.Resolved, &report.Matched,
		&category, &embedding, &entities, &fingerprint, &report.Model, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	report.Id = core.ID(id)
	report.Status = core.Status(status)
	report.Category = core.Category(category)
	report.Fingerprint = uint64(fingerprint)
	report.CreatedAt = time.UnixMicro(createdAt).UTC()
	report.UpdatedAt = time.UnixMicro(updatedAt).UTC()

	if report.Vector, err = core.DecodeVector(embedding); err != nil {
		s.logger.Warn("dropping malformed embedding", "report", id, "bytes", len(embedding))
		report.Vector = nil
	}
	if err := json.Unmarshal([]byte(entities), &report.Entities); err != nil {
		s.logger.Warn("dropping malformed entities", "report", id, "err", err)
		report.Entities = nil
	}
	return &report, nil
}

func marshalEntities(entities core.EntitySet) (string, error) {
	if len(entities) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(entities.Clone())
	if err != nil {
		return "", fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}
	return string(data), nil
}

func expectOneRow(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
