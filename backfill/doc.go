// Package backfill recomputes the derived fields of stored reports.
//
// Reports written before a model change, while the embedding model was
// unavailable, or by older versions may lack a vector, carry one of the wrong
// dimension, or have fields computed from an earlier description. The
// Backfiller finds them and recomputes their fields in batches on a worker
// pool, rate-limiting calls to the embedding model.
package backfill
