// Package generator produces candidate batches from a taste profile
// using four weighted strategies.
package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/calebmls/attune/internal/analysis"
	"github.com/calebmls/attune/internal/library"
)

// Pool is the external search collaborator. Implementations return up
// to n tracks per call; short or empty results are normal and simply
// shrink the candidate supply.
type Pool interface {
	ByGenre(ctx context.Context, genre string, n int) ([]library.Track, error)
	ByArtist(ctx context.Context, artistID string, n int) ([]library.Track, error)
	ByDecade(ctx context.Context, decade int, n int) ([]library.Track, error)
	Random(ctx context.Context, n int) ([]library.Track, error)
}

// Batch is one generation run's output.
type Batch struct {
	ID        string
	CreatedAt time.Time
	Tracks    []library.Track
	Requested int

	// Shortfalls maps strategy name to how many slots it could not
	// fill. Absent strategies met their quota.
	Shortfalls map[string]int
}

// Produced returns len(Tracks); kept as a method so callers reporting
// requested-vs-produced don't reach into the slice.
func (b Batch) Produced() int {
	return len(b.Tracks)
}

type Generator struct {
	pool   Pool
	rng    *rand.Rand
	logger *log.Logger

	// retryFactor bounds how many draws a strategy may spend per quota
	// slot before its shortfall is absorbed.
	retryFactor int
}

func New(pool Pool, rng *rand.Rand) *Generator {
	return &Generator{
		pool:        pool,
		rng:         rng,
		logger:      log.Default(),
		retryFactor: 10,
	}
}

// SetLogger overrides the default logger; used by tests to keep output
// quiet.
func (g *Generator) SetLogger(l *log.Logger) {
	g.logger = l
}

type quota struct {
	name  string
	count int
}

// splitQuota partitions targetCount 40/30/20/10 across the strategies,
// assigning any rounding remainder to genre affinity. A nil profile
// (no taste signal) routes everything to random exploration.
func splitQuota(targetCount int, profile *analysis.Profile) []quota {
	if profile == nil {
		return []quota{{nameRandom, targetCount}}
	}

	genre := targetCount * 40 / 100
	artist := targetCount * 30 / 100
	temporal := targetCount * 20 / 100
	random := targetCount * 10 / 100
	genre += targetCount - genre - artist - temporal - random

	return []quota{
		{nameGenre, genre},
		{nameArtist, artist},
		{nameTemporal, temporal},
		{nameRandom, random},
	}
}

// Generate produces a deduplicated batch of at most targetCount tracks.
// Every strategy independently respects the exclusion set and the
// in-batch dedup key; draws rejected for exclusion or duplication do
// not consume quota. Shortfalls shrink the batch and are logged as
// warnings, never returned as errors. Output order is strategy
// insertion order, deterministic for a fixed rand seed.
func (g *Generator) Generate(ctx context.Context, profile *analysis.Profile, excluded map[string]bool, targetCount int) (Batch, error) {
	if targetCount < 0 {
		return Batch{}, fmt.Errorf("negative target count %d", targetCount)
	}

	batch := Batch{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now(),
		Requested:  targetCount,
		Shortfalls: make(map[string]int),
	}

	picked := make(map[string]bool)  // track IDs accepted this run
	seenKeys := make(map[string]bool) // normalized title|artist keys

	for _, q := range splitQuota(targetCount, profile) {
		if q.count == 0 {
			continue
		}

		s := g.newStrategy(q.name, profile)
		filled := 0
		budget := q.count * g.retryFactor

		for filled < q.count && budget > 0 {
			budget--

			t, ok, err := s.next(ctx)
			if err != nil {
				g.logger.Warn("candidate pool error, absorbing as shortfall",
					"strategy", q.name, "err", err)
				break
			}
			if !ok {
				break // pool exhausted
			}

			if t.ID == "" || excluded[t.ID] || picked[t.ID] {
				continue
			}
			if key := t.Key(); seenKeys[key] {
				continue
			}

			picked[t.ID] = true
			seenKeys[t.Key()] = true
			batch.Tracks = append(batch.Tracks, t)
			filled++
		}

		if filled < q.count {
			batch.Shortfalls[q.name] = q.count - filled
			g.logger.Warn("strategy quota shortfall",
				"strategy", q.name, "requested", q.count, "produced", filled)
		}
	}

	if batch.Produced() < targetCount {
		g.logger.Warn("batch smaller than requested",
			"requested", targetCount, "produced", batch.Produced())
	}

	return batch, nil
}
