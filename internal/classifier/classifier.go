// Package classifier turns the fuzzy approval signal from a device
// playlist into a hard partition of the pending batch.
package classifier

import (
	"sort"

	"github.com/charmbracelet/log"

	"github.com/calebmls/attune/internal/library"
)

// DefaultThreshold is the minimum similarity ratio for an approval
// match. It is a starting point, not a tuned constant; callers should
// pass their configured value.
const DefaultThreshold = 0.75

// PlaylistEntry is one loosely structured line from the device
// playlist: display text only, no stable identifier.
type PlaylistEntry struct {
	Title  string
	Artist string
	Album  string
}

func (e PlaylistEntry) text() string {
	return e.Title + " " + e.Artist
}

func (e PlaylistEntry) Display() string {
	return e.Title + " - " + e.Artist
}

// Result partitions a pending batch. Every pending track lands in
// exactly one of Approved or Rejected; Unmatched lists playlist entries
// that claimed no track (reported for auditing, never an error).
type Result struct {
	Approved  []library.Track
	Rejected  []library.Track
	Unmatched []PlaylistEntry
}

type Classifier struct {
	sim       Similarity
	threshold float64
	logger    *log.Logger
}

func New(sim Similarity, threshold float64) *Classifier {
	if sim == nil {
		sim = JaroWinkler{}
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Classifier{sim: sim, threshold: threshold, logger: log.Default()}
}

func (c *Classifier) SetLogger(l *log.Logger) {
	c.logger = l
}

type scoredPair struct {
	entry   int
	pending int
	score   float64
}

// Classify partitions pending into approved and rejected. Assignment
// is greedy one-to-one: all (entry, pending) pairs at or above the
// threshold are ranked by score and consumed best-first, so one
// playlist entry can approve at most one pending track and the
// highest-scoring track wins a contested entry.
func (c *Classifier) Classify(pending []library.Track, entries []PlaylistEntry) Result {
	var pairs []scoredPair
	for ei, e := range entries {
		for pi, p := range pending {
			score := c.sim.Ratio(e.text(), p.Title+" "+p.Artist)
			if score >= c.threshold {
				pairs = append(pairs, scoredPair{entry: ei, pending: pi, score: score})
			}
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score > pairs[j].score
		}
		// Deterministic tie-break on track identifier.
		return pending[pairs[i].pending].ID < pending[pairs[j].pending].ID
	})

	entryUsed := make([]bool, len(entries))
	approved := make([]bool, len(pending))
	for _, pr := range pairs {
		if entryUsed[pr.entry] || approved[pr.pending] {
			continue
		}
		entryUsed[pr.entry] = true
		approved[pr.pending] = true
	}

	var res Result
	for i, p := range pending {
		if approved[i] {
			res.Approved = append(res.Approved, p)
		} else {
			res.Rejected = append(res.Rejected, p)
		}
	}
	for i, e := range entries {
		if !entryUsed[i] {
			res.Unmatched = append(res.Unmatched, e)
		}
	}

	if len(res.Unmatched) > 0 {
		for _, e := range res.Unmatched {
			c.logger.Warn("playlist entry matched no pending track",
				"entry", e.Display(), "threshold", c.threshold)
		}
	}

	return res
}
