// Package intake manages the lifecycle of lost and found reports.
//
// The Pipeline type validates new submissions, computes their derived fields
// and stores them. Each creation and each edit then runs a match pass
// synchronously. If the embedding model is unavailable the report is still
// stored and the outcome says matching was skipped.
//
// Administrative operations (resolve, delete, stats) live here too.
package intake
