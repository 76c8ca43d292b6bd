// Package analysis computes the derived fields of a report description:
// its embedding, extracted entities, category and fingerprint.
package analysis
