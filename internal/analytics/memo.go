package analytics

import (
	"sync"

	"github.com/countries-explorer/explorer/internal/model"
)

// Key identifies the inputs of a computation by version or fingerprint.
type Key struct {
	Favourites uint64
	Countries  uint64
}

// Memo caches the most recent summary and recomputes only when either
// input version changes.
type Memo struct {
	mu      sync.Mutex
	opts    Options
	key     Key
	valid   bool
	summary model.AnalyticsSummary
	runs    int
}

// NewMemo creates a Memo using the given join options.
func NewMemo(opts Options) *Memo {
	return &Memo{opts: opts}
}

// Get returns the cached summary for key, computing it if the key changed.
func (m *Memo) Get(key Key, favourites []model.Favourite, countries []model.Country) model.AnalyticsSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.key == key {
		return m.summary
	}

	m.summary = ComputeWithOptions(favourites, countries, m.opts)
	m.key = key
	m.valid = true
	m.runs++
	return m.summary
}

// Runs returns how many times the summary was actually computed.
func (m *Memo) Runs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs
}
