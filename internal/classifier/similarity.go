package classifier

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/calebmls/attune/internal/library"
)

// Similarity scores textual closeness of two strings on a 0.0-1.0
// scale. The classifier only depends on this interface, so the metric
// can be swapped without touching the assignment logic.
type Similarity interface {
	Ratio(a, b string) float64
}

// JaroWinkler is the default similarity metric. Both sides are
// normalized before scoring so punctuation and case differences don't
// depress the ratio.
type JaroWinkler struct{}

func (JaroWinkler) Ratio(a, b string) float64 {
	return strutil.Similarity(library.Normalize(a), library.Normalize(b), metrics.NewJaroWinkler())
}
