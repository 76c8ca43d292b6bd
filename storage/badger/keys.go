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


package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/lostfound/core"
)

const (
	reportRecordPrefix = "rep"
	reportStatusPrefix = "repst"
	reportIDSeq        = "repseq"
)

// makeReportKey generates a key for a report by ID.
func makeReportKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", reportRecordPrefix, id))
}

// reportKeyPrefix is the iteration prefix for primary report keys.
// The trailing separator keeps the status index and sequence keys out.
func reportKeyPrefix() []byte {
	return []byte(reportRecordPrefix + ":")
}

// makeStatusKey generates a composite key for the status index.
// Format: prefix:status:id
func makeStatusKey(status core.Status, id core.ID) []byte {
	prefix := makePartialStatusKey(status)
	buf := make([]byte, len(prefix)+8) // 8 bytes for ID
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort matches ID order
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialStatusKey generates a partial key for status queries.
// Format: prefix:status:
func makePartialStatusKey(status core.Status) []byte {
	return []byte(fmt.Sprintf("%s:%d:", reportStatusPrefix, int(status)))
}

// idFromStatusKey extracts the report ID from a status index key.
func idFromStatusKey(key []byte) (core.ID, bool) {
	if len(key) < 8 {
		return 0, false
	}
	return core.ID(binary.BigEndian.Uint64(key[len(key)-8:])), true
}
