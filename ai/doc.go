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


// Package ai provides abstractions for the AI services used by lostfound.
//
// The only service the matching engine needs is text embedding. The Embedder
// interface decouples the engine from the model that backs it.
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//     (Ollama, LocalAI, vLLM serving a multilingual sentence-embedding model)
//   - ai/mock: Deterministic embedder for tests and offline use
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewEmbedder) return INTERFACE types to enforce
// abstraction. Test utility constructors (mock.NewMockEmbedder) return
// CONCRETE types to enable test assertions and behavior injection:
//
//	mockEmbed := mock.NewMockEmbedder()  // returns *mock.MockEmbedder
//	mockEmbed.EmbedTextFunc = ...        // override behavior
//	count := mockEmbed.CallCount()       // test assertion
package ai
