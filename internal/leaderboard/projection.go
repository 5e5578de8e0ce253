// Package leaderboard keeps the live top-N contestants ranking.
package leaderboard

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/munera-collective/munera-platform/internal/models"
)

const DefaultSize = 5

// Projection is the ranked top-N view. Updates are applied last-write-wins
// with no ordering or deduplication of notifications.
type Projection struct {
	mu      sync.RWMutex
	size    int
	entries []models.Contestant
}

func NewProjection(size int) *Projection {
	if size <= 0 {
		size = DefaultSize
	}

	return &Projection{size: size}
}

// Reset replaces the view with entries, ranked and truncated.
func (p *Projection) Reset(entries []models.Contestant) []models.Contestant {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.entries = append(p.entries[:0:0], entries...)
	p.rank()

	return p.snapshot()
}

// Apply upserts contestant, re-sorts by tally descending and truncates.
func (p *Projection) Apply(contestant models.Contestant) []models.Contestant {
	p.mu.Lock()
	defer p.mu.Unlock()

	replaced := false
	for i := range p.entries {
		if p.entries[i].ID == contestant.ID {
			p.entries[i] = contestant
			replaced = true
			break
		}
	}

	if !replaced {
		p.entries = append(p.entries, contestant)
	}

	p.rank()

	return p.snapshot()
}

// Remove drops the contestant. It reports whether it was ranked.
func (p *Projection) Remove(id uuid.UUID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.entries {
		if p.entries[i].ID == id {
			p.entries = append(p.entries[:i], p.entries[i+1:]...)
			return true
		}
	}

	return false
}

func (p *Projection) Top() []models.Contestant {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.snapshot()
}

func (p *Projection) Size() int {
	return p.size
}

// rank sorts stably so equal tallies keep their previous order. Caller holds p.mu.
func (p *Projection) rank() {
	sort.SliceStable(p.entries, func(i, j int) bool {
		return p.entries[i].TotalVotes > p.entries[j].TotalVotes
	})

	if len(p.entries) > p.size {
		p.entries = p.entries[:p.size]
	}
}

func (p *Projection) snapshot() []models.Contestant {
	out := make([]models.Contestant, len(p.entries))
	copy(out, p.entries)

	return out
}
