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


package storage

import (
	"fmt"

	"github.com/poiesic/winregi/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return id, nil
}

// MarshalProfile serializes a Profile to bytes.
func MarshalProfile(profile *core.Profile) []byte {
	buf := make([]byte, core.ProfileMUS.Size(*profile))
	core.ProfileMUS.Marshal(*profile, buf)
	return buf
}

// UnmarshalProfile deserializes a Profile from bytes.
func UnmarshalProfile(data []byte) (*core.Profile, error) {
	profile, _, err := core.ProfileMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &profile, nil
}

// MarshalHistoryEntry serializes a HistoryEntry to bytes.
func MarshalHistoryEntry(entry *core.HistoryEntry) []byte {
	buf := make([]byte, core.HistoryEntryMUS.Size(*entry))
	core.HistoryEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalHistoryEntry deserializes a HistoryEntry from bytes.
func UnmarshalHistoryEntry(data []byte) (*core.HistoryEntry, error) {
	entry, _, err := core.HistoryEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &entry, nil
}

// MarshalAppliedAction serializes an AppliedAction to bytes.
func MarshalAppliedAction(record *core.AppliedAction) []byte {
	buf := make([]byte, core.AppliedActionMUS.Size(*record))
	core.AppliedActionMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalAppliedAction deserializes an AppliedAction from bytes.
func UnmarshalAppliedAction(data []byte) (*core.AppliedAction, error) {
	record, _, err := core.AppliedActionMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}
