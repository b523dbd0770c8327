package route

import (
	"hash/fnv"
	"math"
	"sync"
)

// analysisCache memoizes circuit analyses by content fingerprint. Analysis
// itself stays pure; the cache is an explicit router field, never a global.
// Eviction is FIFO so cache behavior is deterministic.
type analysisCache struct {
	mu      sync.Mutex
	size    int
	entries map[uint64]Analysis
	order   []uint64
}

// newAnalysisCache creates a cache holding up to size analyses. Size 0
// disables caching.
func newAnalysisCache(size int) *analysisCache {
	return &analysisCache{
		size:    size,
		entries: make(map[uint64]Analysis, size),
	}
}

func (ac *analysisCache) get(c *Circuit) (Analysis, bool) {
	if ac.size == 0 {
		return Analysis{}, false
	}
	key := fingerprint(c)
	ac.mu.Lock()
	defer ac.mu.Unlock()
	a, ok := ac.entries[key]
	return a, ok
}

func (ac *analysisCache) put(c *Circuit, a Analysis) {
	if ac.size == 0 {
		return
	}
	key := fingerprint(c)
	ac.mu.Lock()
	defer ac.mu.Unlock()
	if _, exists := ac.entries[key]; exists {
		return
	}
	if len(ac.order) >= ac.size {
		oldest := ac.order[0]
		ac.order = ac.order[1:]
		delete(ac.entries, oldest)
	}
	ac.entries[key] = a
	ac.order = append(ac.order, key)
}

// fingerprint hashes the full circuit content with FNV-1a. Two circuits
// with identical descriptors share a fingerprint.
func fingerprint(c *Circuit) uint64 {
	h := fnv.New64a()
	writeUint := func(u uint64) {
		var buf [8]byte
		for i := 0; i < 8; i++ {
			buf[i] = byte(u >> (8 * i))
		}
		h.Write(buf[:])
	}
	writeInt := func(v int) { writeUint(uint64(v)) }
	writeFloat := func(v float64) { writeUint(math.Float64bits(v)) }

	writeInt(c.NumQubits)
	for _, op := range c.Operations {
		h.Write([]byte(op.Name))
		h.Write([]byte{0})
		for _, q := range op.Qubits {
			writeInt(q)
		}
		for _, p := range op.Params {
			h.Write([]byte(p.Symbol))
			h.Write([]byte{0})
			writeFloat(p.Value)
		}
	}
	for _, m := range c.Measurements {
		writeInt(m.Qubit)
		writeInt(m.Bit)
		h.Write([]byte(m.Register))
		h.Write([]byte{0})
	}
	for _, reg := range c.Registers {
		h.Write([]byte(reg.Name))
		h.Write([]byte{0})
		writeInt(reg.Size)
	}
	return h.Sum64()
}
