package store

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"
)

var (
	runKeyPrefix = []byte{'r'}
	versionKey   = []byte("__algoperf_store_version__")
	sequenceKey  = []byte("__algoperf_store_sequence__")
)

const keySeparator = 0x00

// runKey is prefix | algorithm id | 0x00 | big endian sequence, so runs of
// one algorithm are contiguous and ordered by sequence.
func runKey(buf []byte, algorithmID string, seq uint64) []byte {
	buf = runKeyPrefixFor(buf, algorithmID)
	return binary.BigEndian.AppendUint64(buf, seq)
}

func runKeyPrefixFor(buf []byte, algorithmID string) []byte {
	buf = append(buf, runKeyPrefix...)
	buf = append(buf, algorithmID...)
	return append(buf, keySeparator)
}

// keyUpperBound returns the smallest key greater than every key with the
// given prefix.
func keyUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

func validateAlgorithmID(id string) error {
	if id == "" {
		return fmt.Errorf("algorithm id can not be empty")
	}
	for i := 0; i < len(id); i++ {
		if id[i] == keySeparator {
			return fmt.Errorf("algorithm id can not contain 0x00: %q", id)
		}
	}
	return nil
}

const NumberSequenceBitShift = 24
const NumberSequenceSequenceNumberMask = 0x0000000000FFFFFF

// NumberSequence yields increasing ids made of the unix second in the high
// bits and a per second counter in the low 24 bits.
type NumberSequence struct {
	lastId uint64
	mutex  sync.Mutex
}

func (n *NumberSequence) Next() (uint64, error) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	nextId := uint64(time.Now().Unix() << NumberSequenceBitShift)
	if nextId <= n.lastId {
		if n.lastId&NumberSequenceSequenceNumberMask == NumberSequenceSequenceNumberMask {
			return math.MaxUint64, fmt.Errorf("sequence number overflow")
		}
		nextId = n.lastId + 1
	}

	n.lastId = nextId
	return nextId, nil
}

// Restore makes the sequence continue after id, which was handed out by an
// earlier process.
func (n *NumberSequence) Restore(id uint64) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	if id > n.lastId {
		n.lastId = id
	}
}
