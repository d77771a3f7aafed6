package badger

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/poiesic/winregi/core"
)

// Key prefixes for different data types
const (
	profilePrefix = "prof"
	historyPrefix = "hist"
	historyIDSeq  = "histseq"
	appliedPrefix = "appl"
	appliedIDSeq  = "applseq"
)

// makeProfileKey generates a key for a profile by ID.
func makeProfileKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", profilePrefix, id))
}

// makeLogKey generates a composite key for a per-profile log record.
// Format: prefix:profileID:timestamp:id
func makeLogKey(prefix string, profileID core.ID, timestamp time.Time, id core.ID) []byte {
	buf := makePartialLogKey(prefix, profileID)
	// BigEndian keeps lexicographic order equal to chronological order
	buf = binary.BigEndian.AppendUint64(buf, uint64(timestamp.UnixMicro()))
	return binary.BigEndian.AppendUint64(buf, uint64(id))
}

// makePartialLogKey generates the key prefix shared by all records of a profile.
// Format: prefix:profileID:
func makePartialLogKey(prefix string, profileID core.ID) []byte {
	buf := make([]byte, 0, len(prefix)+1+8+1+16)
	buf = append(buf, prefix...)
	buf = append(buf, ':')
	buf = binary.BigEndian.AppendUint64(buf, uint64(profileID))
	return append(buf, ':')
}

// makeLogSeekKey returns a key that sorts after every record of a profile,
// used as the starting point of reverse iteration.
func makeLogSeekKey(prefix string, profileID core.ID) []byte {
	buf := makePartialLogKey(prefix, profileID)
	buf = binary.BigEndian.AppendUint64(buf, math.MaxUint64)
	return binary.BigEndian.AppendUint64(buf, math.MaxUint64)
}
