package symtab

import (
	"errors"
	"fmt"
	"hash/fnv"
	"unsafe"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'huffword.symtab'
func tracer() tracing.Trace {
	return tracing.Select("huffword.symtab")
}

// ErrTableFull flags an insertion of a new key into a table with no free
// slot left. Entries already stored are unaffected.
var ErrTableFull = errors.New("symbol table is full")

// Table is a fixed-capacity map from strings to values of type V, backed by
// a dense slot array with open addressing.
//
// Collisions are resolved by linear probing: an entry whose home slot is
// taken moves right, wrapping at the top end, until a free slot turns up.
// The table never grows and entries cannot be removed, so a probe walk may
// stop at the first free slot.
type Table[V any] struct {
	slots    []slot[V]
	used     int
	probes   []int // probes[i] = insertions that needed i extra probes
	maxProbe int
}

type slot[V any] struct {
	key      string
	value    V
	occupied bool
}

// New creates a table with room for capacity entries.
func New[V any](capacity int) (*Table[V], error) {
	if capacity <= 0 {
		tracer().Errorf("table capacity must be positive")
		return nil, fmt.Errorf("table capacity must be positive: %d", capacity)
	}
	return &Table[V]{slots: make([]slot[V], capacity)}, nil
}

// home returns the preferred slot index for key: an FNV-1a hash of the key
// reduced modulo the slot count.
func (t *Table[V]) home(key string) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(t.slots)))
}

// Put inserts key with value, or overwrites the stored value in place if key
// is already present. Inserting a new key into a full table returns
// ErrTableFull.
func (t *Table[V]) Put(key string, value V) error {
	idx := t.home(key)
	for probe := 0; probe < len(t.slots); probe++ {
		s := &t.slots[idx]
		if !s.occupied {
			s.key = key
			s.value = value
			s.occupied = true
			t.used++
			t.countProbe(probe)
			return nil
		}
		if s.key == key {
			s.value = value
			return nil
		}
		idx++
		if idx == len(t.slots) {
			idx = 0
		}
	}
	return fmt.Errorf("cannot insert %q: %w", key, ErrTableFull)
}

// Get returns the value stored for key. The second return value reports
// whether key is present; a lookup miss is not an error.
func (t *Table[V]) Get(key string) (V, bool) {
	var zero V
	idx := t.home(key)
	for probe := 0; probe < len(t.slots); probe++ {
		s := &t.slots[idx]
		if !s.occupied {
			return zero, false
		}
		if s.key == key {
			return s.value, true
		}
		idx++
		if idx == len(t.slots) {
			idx = 0
		}
	}
	return zero, false
}

// Contains reports whether key is present.
func (t *Table[V]) Contains(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Len returns the number of entries stored.
func (t *Table[V]) Len() int {
	return t.used
}

// Cap returns the fixed slot count.
func (t *Table[V]) Cap() int {
	return len(t.slots)
}

// Keys returns all keys in slot order. Keys and Values walk the slots the
// same way, so without an intervening Put the two slices run parallel.
func (t *Table[V]) Keys() []string {
	keys := make([]string, 0, t.used)
	for i := range t.slots {
		if t.slots[i].occupied {
			keys = append(keys, t.slots[i].key)
		}
	}
	return keys
}

// Values returns all values in slot order, parallel to Keys.
func (t *Table[V]) Values() []V {
	values := make([]V, 0, t.used)
	for i := range t.slots {
		if t.slots[i].occupied {
			values = append(values, t.slots[i].value)
		}
	}
	return values
}

func (t *Table[V]) countProbe(probe int) {
	for probe >= len(t.probes) {
		t.probes = append(t.probes, 0)
	}
	t.probes[probe]++
	if probe > t.maxProbe {
		t.maxProbe = probe
	}
}

// TableStats is a snapshot of fill state and probe behavior.
type TableStats struct {
	Entries   int
	Capacity  int
	MaxProbe  int
	Histogram []int // Histogram[i] = insertions that needed i extra probes
}

// FillRatio returns the fraction of occupied slots.
func (s TableStats) FillRatio() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.Entries) / float64(s.Capacity)
}

// AverageProbe returns the mean number of extra probes per insertion.
func (s TableStats) AverageProbe() float64 {
	inserts, total := 0, 0
	for probe, n := range s.Histogram {
		inserts += n
		total += probe * n
	}
	if inserts == 0 {
		return 0
	}
	return float64(total) / float64(inserts)
}

// Stats writes fill and probe statistics to the trace log and returns a
// snapshot of them. Probe accounting is diagnostic only and has no effect
// on lookups or insertions.
func (t *Table[V]) Stats() TableStats {
	stats := TableStats{
		Entries:   t.used,
		Capacity:  t.Cap(),
		MaxProbe:  t.maxProbe,
		Histogram: append([]int(nil), t.probes...),
	}
	tracer().Infof("Symbol Table Statistics:")
	tracer().Infof("  Entries:   %d of %d (%.1f%%)", stats.Entries, stats.Capacity, stats.FillRatio()*100)
	tracer().Infof("  Max probe: %d", stats.MaxProbe)
	tracer().Infof("  Avg probe: %.4f", stats.AverageProbe())
	tracer().Infof("  Histogram: %v", stats.Histogram)
	var memory uint64
	memory = uint64(unsafe.Sizeof(*t))
	var one slot[V]
	memory += uint64(len(t.slots)) * uint64(unsafe.Sizeof(one))
	tracer().Infof("  Memory:    %d bytes", memory)
	return stats
}
