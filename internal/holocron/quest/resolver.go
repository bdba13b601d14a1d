// Package quest resolves quest prerequisite chains: given a target quest
// and a character's completion history, it finds the nearest unmet
// prerequisite blocking progress, or reports the quest itself as the next
// actionable step.
package quest

import (
	"context"
	"errors"
	"log/slog"
	"sort"
)

// ErrCycle is returned when the prerequisite graph revisits a quest on
// the current walk. Callers must not confuse this with "no blocker".
var ErrCycle = errors.New("quest prerequisite cycle")

// Graph supplies quest prerequisite edges and titles. Implementations
// may signal unknown quests with empty results rather than errors.
type Graph interface {
	Prerequisites(ctx context.Context, questID int64) ([]int64, error)
	Title(ctx context.Context, questID int64) (string, error)
}

// Blocker identifies the quest standing between a character and a
// target. When QuestID equals the original target, the target itself is
// the next actionable step (all prerequisites met).
type Blocker struct {
	QuestID int64
	Title   string
}

// Resolver walks the prerequisite graph depth-first.
type Resolver struct {
	graph  Graph
	logger *slog.Logger
}

// NewResolver creates a Resolver over the given graph.
func NewResolver(g Graph, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{graph: g, logger: logger}
}

// Solve finds the first unmet prerequisite for questID.
//
//   - questID already completed: returns (nil, nil).
//   - A prerequisite chain has an unmet leaf: returns that leaf.
//   - All prerequisites met: returns questID itself as the next step.
//   - The graph revisits a quest on the current walk: returns ErrCycle.
//
// Prerequisites are walked in ascending ID order so that the reported
// blocker is deterministic when several are simultaneously unmet.
// Lookup failures in the graph are treated as "no data" and logged, not
// propagated; completed is never mutated.
func (r *Resolver) Solve(ctx context.Context, questID int64, completed map[int64]bool) (*Blocker, error) {
	if completed[questID] {
		return nil, nil
	}
	visited := make(map[int64]bool)
	return r.solve(ctx, questID, completed, visited)
}

func (r *Resolver) solve(ctx context.Context, questID int64, completed, visited map[int64]bool) (*Blocker, error) {
	if visited[questID] {
		return nil, ErrCycle
	}
	visited[questID] = true

	prereqs, err := r.graph.Prerequisites(ctx, questID)
	if err != nil {
		r.logger.Warn("prerequisite lookup failed", "quest_id", questID, "error", err)
		prereqs = nil
	}
	sort.Slice(prereqs, func(i, j int) bool { return prereqs[i] < prereqs[j] })

	for _, p := range prereqs {
		if completed[p] {
			continue
		}
		// p is unmet: either it has an unmet ancestor of its own, or it
		// is itself the blocker.
		return r.solve(ctx, p, completed, visited)
	}

	// Every prerequisite is met but the quest is not completed, so the
	// quest itself is the next actionable step.
	return &Blocker{QuestID: questID, Title: r.title(ctx, questID)}, nil
}

func (r *Resolver) title(ctx context.Context, questID int64) string {
	title, err := r.graph.Title(ctx, questID)
	if err != nil {
		r.logger.Warn("title lookup failed", "quest_id", questID, "error", err)
		return "Unknown Quest"
	}
	if title == "" {
		return "Unknown Quest"
	}
	return title
}
