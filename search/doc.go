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


// Package search finds reports by free-text query.
//
// Three keywords are shortcuts: "lost" and "found" list reports with that
// status and "all" lists every report, each with a score of 100. Any other
// query is embedded and compared against stored report vectors; reports
// scoring above MinSemanticScore are returned, best first.
//
// When the embedding model is unavailable the Searcher falls back to verbatim
// keyword matching with stop-word filtering.
package search
