package graph

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trackgraph/pkg/board"
)

// Options configures a [Graph].
type Options struct {
	// Visualize keeps per-atom queue counts so [Graph.Classify] answers
	// without scanning the queue.
	Visualize bool

	// HomeAsToken seeds an untokened corporation from its home cities, as
	// if it had already placed its home token.
	HomeAsToken bool

	// NoBlocking lets the search pass through cities filled by other
	// corporations.
	NoBlocking bool

	// SkipTrack lists track types the search never enters.
	SkipTrack []board.TrackType

	// Logger receives debug events. Defaults to log.Default().
	Logger *log.Logger
}

func (o Options) skips(t board.TrackType) bool {
	return slices.Contains(o.SkipTrack, t)
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}
