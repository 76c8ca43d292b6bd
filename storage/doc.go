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


// Package storage provides the storage abstraction layer for lostfound.
//
// This package defines the ReportRepository interface that decouples the
// matching engine from the storage implementation. Two backends exist:
// storage/badger (embedded key-value store, the default) and storage/sqlite.
//
// # Architecture
//
//   - ReportRepository: CRUD plus the candidate query used by matching
//   - TransactionManager: transactional boundary for read-modify-write passes
//
// # Transactions
//
// Matching reads the candidate set and writes matched flags back. Both steps
// run inside a single WithTransaction call so concurrent submissions cannot
// interleave. Repository methods called with the context handed to fn join
// the enclosing transaction.
//
// # Usage
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemoryRepository()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	defer repo.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
