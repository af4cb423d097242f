package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/stixify/core"
)

// Key prefixes for different data types
const (
	runRecordPrefix      = "run"
	runDatePrefix        = "rund"
	runFingerprintPrefix = "runf"
	runIDSeq             = "runseq"
)

// makeRunKey generates a key for a run record by ID.
func makeRunKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", runRecordPrefix, id))
}

// makeRunDateKey generates a composite key for the start time index.
// Format: prefix:timestamp:id
func makeRunDateKey(startedAt time.Time, id core.ID) []byte {
	buf := makePartialRunDateKey(startedAt)
	// Write in BigEndian order so lexicographic sort works correctly
	return binary.BigEndian.AppendUint64(buf, uint64(id))
}

// makePartialRunDateKey generates a partial key for start time queries.
// Format: prefix:timestamp
func makePartialRunDateKey(startedAt time.Time) []byte {
	prefix := runDatePrefix + ":"
	buf := make([]byte, len(prefix), len(prefix)+16)
	copy(buf, prefix)
	return binary.BigEndian.AppendUint64(buf, uint64(startedAt.UnixMicro()))
}

// makeRunFingerprintKey generates a composite key for the input fingerprint index.
// Format: prefix:fingerprint:id
func makeRunFingerprintKey(fp core.Fingerprint, id core.ID) []byte {
	buf := makePartialRunFingerprintKey(fp)
	return binary.BigEndian.AppendUint64(buf, uint64(id))
}

// makePartialRunFingerprintKey generates a partial key for fingerprint queries.
// Format: prefix:fingerprint
func makePartialRunFingerprintKey(fp core.Fingerprint) []byte {
	prefix := runFingerprintPrefix + ":"
	buf := make([]byte, len(prefix), len(prefix)+16)
	copy(buf, prefix)
	return binary.BigEndian.AppendUint64(buf, uint64(fp))
}
