// Package query provides read-only traversals over the knowledge graph:
// context expansion, path enumeration, centrality ranking, clustering and
// timelines. Every operation runs against a point-in-time snapshot of the
// store, so results are internally consistent even while ingestion continues.
package query

import (
	"go.uber.org/zap"

	"github.com/rumeelabs/braingraph/pkg/graph"
)

// DefaultMaxPaths caps the number of paths FindPaths returns. Full simple-path
// enumeration is combinatorial in dense graphs; the cap bounds both output
// size and the partial-path frontier.
const DefaultMaxPaths = 50

// Config configures an Engine.
type Config struct {
	// MaxPaths overrides DefaultMaxPaths when > 0.
	MaxPaths int

	// Logger for query diagnostics. Nil disables logging.
	Logger *zap.Logger
}

// Engine answers structural questions about the graph. All methods are
// side-effect-free and never fail on empty or missing inputs: they return
// empty collections instead.
type Engine struct {
	store    *graph.Store
	maxPaths int
	log      *zap.Logger
}

// NewEngine creates a query engine over the given store.
func NewEngine(store *graph.Store, cfg Config) *Engine {
	if cfg.MaxPaths <= 0 {
		cfg.MaxPaths = DefaultMaxPaths
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Engine{
		store:    store,
		maxPaths: cfg.MaxPaths,
		log:      cfg.Logger,
	}
}
