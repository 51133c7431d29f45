package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator hands out order ids as a millisecond timestamp shifted left 12
// bits plus a per-millisecond counter, unique within a process up to 4096
// ids per millisecond. Reserve ids are random UUIDs; they only need to be
// unique and stable across retries of the same reservation call.
type IDGenerator struct {
	mu     sync.Mutex
	lastMs int64
	seq    int64
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

func (g *IDGenerator) NextOrderID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := time.Now().UnixMilli()
	if ms <= g.lastMs {
		g.seq++
		if g.seq > 0xfff {
			// counter exhausted for this millisecond, borrow the next one
			g.lastMs++
			g.seq = 0
		}
	} else {
		g.lastMs = ms
		g.seq = 0
	}
	return g.lastMs<<12 | g.seq
}

func (g *IDGenerator) NextReserveID() string {
	return uuid.NewString()
}
