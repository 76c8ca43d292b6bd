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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidReport indicates a Report failed validation.
	ErrInvalidReport = errors.New("invalid report")

	// ErrEmptyDescription indicates the Description field is empty.
	ErrEmptyDescription = errors.New("description cannot be empty")

	// ErrInvalidStatus indicates a Status outside {lost, found}.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrEmptyContact indicates the Contact field is empty.
	ErrEmptyContact = errors.New("contact cannot be empty")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")

	// ErrUnknownCategory indicates a category outside the vocabulary.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrMalformedVector indicates an encoded vector whose length is not a multiple of 4.
	ErrMalformedVector = errors.New("malformed vector encoding")
)
