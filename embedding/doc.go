// Package embedding turns report descriptions into fixed-length vectors.
//
// Model wraps an ai.Embedder with lazy, load-once semantics: the first call
// loads the embedder and probes its dimension, every later call reuses it.
// Descriptions are normalized (trimmed, lower-cased) before embedding so the
// same description always yields the same vector.
//
// When the embedder cannot be loaded, calls fail with ErrUnavailable. Report
// intake treats that as a reason to skip matching, not to reject the report.
package embedding
