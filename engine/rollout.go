package engine

import (
	"math/rand"

	"github.com/chesscore/chesscore"
	"github.com/chesscore/chesscore/engine/enginecfg"
)

// Rollout is a random-playout reference Evaluator: it plays uniformly
// random legal moves from the position up to MaxDepth plies, then scores
// the outcome. A terminal position reached before the cap returns its exact
// terminal value; otherwise the rollout is inconclusive and scores 0.
type Rollout struct {
	MaxDepth int
	Rand     *rand.Rand
}

// DefaultRolloutDepth caps a playout when Rollout.MaxDepth is unset.
const DefaultRolloutDepth = 200

// RolloutFromConfig builds a Rollout evaluator capped at cfg's configured
// playout depth.
func RolloutFromConfig(cfg enginecfg.SearchConfig) Rollout {
	return Rollout{MaxDepth: cfg.RolloutDepth}
}

func (r Rollout) maxDepth() int {
	if r.MaxDepth <= 0 {
		return DefaultRolloutDepth
	}
	return r.MaxDepth
}

func (r Rollout) rng() *rand.Rand {
	if r.Rand == nil {
		return rand.New(rand.NewSource(1))
	}
	return r.Rand
}

func (r Rollout) Evaluate(st *chesscore.State) Evaluation {
	moves := st.LegalMoves()
	if len(moves) == 0 {
		return Evaluation{Value: noMovesValue(st, st.SideToMove())}
	}

	rootSide := st.SideToMove()
	rng := r.rng()
	scratch := st.Clone()
	cur := moves
	for depth := 0; depth < r.maxDepth(); depth++ {
		if len(cur) == 0 {
			scratch.AssumeAndUpdateTermination()
			return Evaluation{Policy: uniformPolicy(moves), Value: terminalValue(&scratch, rootSide)}
		}
		mv := cur[rng.Intn(len(cur))]
		scratch.MakeMove(mv)
		if scratch.IsGameOver() {
			return Evaluation{Policy: uniformPolicy(moves), Value: terminalValue(&scratch, rootSide)}
		}
		cur = scratch.LegalMoves()
	}
	return Evaluation{Policy: uniformPolicy(moves), Value: 0}
}
