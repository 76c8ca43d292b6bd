// Package matching decides which reports of the opposite status describe the
// same physical item as a given report.
//
// A match pass loads every unresolved candidate, scores each pair with the
// scoring package and keeps candidates scoring at least MatchThreshold. The
// read and the matched-flag write happen in one store transaction. Events for
// the matches are sent after the transaction commits.
package matching
