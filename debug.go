package dynamo

import (
	"fmt"
	"time"
)

// tickStats holds per-tick timing and write counts.
// Only populated when Engine.debug is true.
type tickStats struct {
	total       time.Duration
	transitions int
	animations  int
	writes      int
}

// debugLog logs tick stats at debug level.
func (e *Engine) debugLog(stats tickStats) {
	if !e.debug {
		return
	}
	e.logger.Debug("tick",
		"total", stats.total,
		"transitions", stats.transitions,
		"animations", stats.animations,
		"writes", stats.writes)
}

// debugCheckDisposed panics with a descriptive message when a removed node is
// used in a tree operation.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("dynamo debug: %s on disposed node %q", op, n.ID))
	}
}

// debugMaxTreeDepth is the depth beyond which AddChild logs a warning in
// debug mode.
const debugMaxTreeDepth = 64

func (s *Scene) debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		s.logger.Warn("tree depth exceeds threshold", "node", n.ID, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

// debugMaxChildCount is the child count beyond which AddChild logs a warning
// in debug mode.
const debugMaxChildCount = 1000

func (s *Scene) debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		s.logger.Warn("child count exceeds threshold", "node", n.ID, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}
