package engine

import (
	"testing"

	"github.com/chesscore/chesscore"
	"github.com/chesscore/chesscore/engine/enginecfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedEvaluator always returns the same value, with a uniform policy over
// whatever legal moves the position has. Used to pin down the arithmetic of
// backup/flipValues without rollout randomness or material noise.
type fixedEvaluator struct {
	value float64
}

func (f fixedEvaluator) Evaluate(st *chesscore.State) Evaluation {
	moves := st.LegalMoves()
	if len(moves) == 0 {
		return Evaluation{Value: noMovesValue(st, st.SideToMove())}
	}
	return Evaluation{Policy: uniformPolicy(moves), Value: f.value}
}

// TestMCTSForcedMateInOne is scenario F: with a rollout evaluator and enough
// iterations, the search finds the only mating move in a textbook back-rank
// mate-in-one.
func TestMCTSForcedMateInOne(t *testing.T) {
	st := chesscore.Blank()
	e1 := chesscore.SquareFromFileRank(4, 0)
	a1 := chesscore.SquareFromFileRank(0, 0)
	a8 := chesscore.SquareFromFileRank(0, 7)
	g8 := chesscore.SquareFromFileRank(6, 7)
	f7 := chesscore.SquareFromFileRank(5, 6)
	g7 := chesscore.SquareFromFileRank(6, 6)
	h7 := chesscore.SquareFromFileRank(7, 6)

	st.Board().PutColoredPiece(chesscore.NewColoredPiece(chesscore.White, chesscore.King), e1)
	st.Board().PutColoredPiece(chesscore.NewColoredPiece(chesscore.White, chesscore.Rook), a1)
	st.Board().PutColoredPiece(chesscore.NewColoredPiece(chesscore.Black, chesscore.King), g8)
	st.Board().PutColoredPiece(chesscore.NewColoredPiece(chesscore.Black, chesscore.Pawn), f7)
	st.Board().PutColoredPiece(chesscore.NewColoredPiece(chesscore.Black, chesscore.Pawn), g7)
	st.Board().PutColoredPiece(chesscore.NewColoredPiece(chesscore.Black, chesscore.Pawn), h7)

	matingMove := chesscore.NewNonPromotionMove(a8, a1, chesscore.NormalMove)
	require.Contains(t, st.LegalMoves(), matingMove)

	evaluator := Rollout{MaxDepth: 1}
	mcts := NewMCTS(st, 1.4, evaluator, UCTScore)
	mcts.Run(200)

	_, mv, err := mcts.TakeBestChild()
	require.NoError(t, err)
	assert.Equal(t, matingMove, mv)
}

// TestMCTSRootValueSumAfterOneStep is the first half of scenario G: a
// single simulation from an unexpanded root selects the root itself as the
// leaf, so its value_sum changes by -v (spec.md invariant 10 with leaf
// depth 0).
func TestMCTSRootValueSumAfterOneStep(t *testing.T) {
	st := chesscore.Initial()
	mcts := NewMCTS(st, 1.4, fixedEvaluator{value: 0.5}, UCTScore)
	mcts.Run(1)

	root := mcts.Root()
	assert.Equal(t, uint32(1), root.Visits())
	assert.InDelta(t, -0.5, root.valueSum, 1e-9)
	assert.True(t, root.expanded)
	assert.NotEmpty(t, root.Children())
}

// collectValueSums walks n's subtree, recording each node's current
// valueSum keyed by pointer identity.
func collectValueSums(n *MCTSNode, into map[*MCTSNode]float64) {
	into[n] = n.valueSum
	for _, c := range n.children {
		collectValueSums(c, into)
	}
}

// TestMCTSRootAdvancementNegatesSubtree is spec.md invariant 11: after
// TakeBestChild, every node surviving into the new tree has its old
// value_sum negated, in place.
func TestMCTSRootAdvancementNegatesSubtree(t *testing.T) {
	st := chesscore.Initial()
	mcts := NewMCTS(st, 1.4, Material{}, UCTScore)
	mcts.Run(64)

	var best *MCTSNode
	for _, c := range mcts.Root().children {
		if best == nil || c.visits > best.visits {
			best = c
		}
	}
	require.NotNil(t, best)

	before := map[*MCTSNode]float64{}
	collectValueSums(best, before)

	_, _, err := mcts.TakeBestChild()
	require.NoError(t, err)

	for node, oldValue := range before {
		assert.InDelta(t, -oldValue, node.valueSum, 1e-9, "node %s should have its value_sum negated", node.metadata())
	}
	assert.Same(t, best, mcts.Root())
	assert.Nil(t, mcts.Root().parent, "promoted root must be detached from its old parent")
}

func TestMCTSTakeBestChildErrorsWhenRootHasNoChildren(t *testing.T) {
	st := chesscore.Initial()
	mcts := NewMCTS(st, 1.4, Material{}, UCTScore)
	_, _, err := mcts.TakeBestChild()
	assert.ErrorIs(t, err, chesscore.ErrNoChildren)
}

func TestMCTSTakeChildWithMoveExpandsRootWhenNeeded(t *testing.T) {
	st := chesscore.Initial()
	mcts := NewMCTS(st, 1.4, Material{}, UCTScore)

	e2, e4 := chesscore.SquareFromFileRank(4, 1), chesscore.SquareFromFileRank(4, 3)
	mv := chesscore.NewNonPromotionMove(e4, e2, chesscore.NormalMove)

	_, err := mcts.TakeChildWithMove(mv, true)
	require.NoError(t, err)
	assert.Equal(t, chesscore.Black, mcts.Root().State().SideToMove())
}

func TestMCTSTakeChildWithMoveErrorsOnUnknownMove(t *testing.T) {
	st := chesscore.Initial()
	mcts := NewMCTS(st, 1.4, Material{}, UCTScore)
	mcts.Run(4)

	bogus := chesscore.NewNonPromotionMove(chesscore.SquareFromFileRank(0, 0), chesscore.SquareFromFileRank(0, 0), chesscore.NormalMove)
	_, err := mcts.TakeChildWithMove(bogus, false)
	assert.ErrorIs(t, err, chesscore.ErrMoveNotFound)
}

// TestMCTSFromConfigWiresSearchConfigIntoSearch verifies that a loaded
// enginecfg.SearchConfig actually drives the search: its exploration
// constant reaches NewMCTSFromConfig, its rollout depth reaches
// RolloutFromConfig, and its iteration count reaches RunConfig.
func TestMCTSFromConfigWiresSearchConfigIntoSearch(t *testing.T) {
	cfg := enginecfg.SearchConfig{
		ExplorationConstant: 2.5,
		RolloutDepth:        3,
		Iterations:          10,
	}

	evaluator := RolloutFromConfig(cfg)
	assert.Equal(t, cfg.RolloutDepth, evaluator.MaxDepth)

	st := chesscore.Initial()
	mcts := NewMCTSFromConfig(st, cfg, evaluator, UCTScore)
	assert.Equal(t, cfg.ExplorationConstant, mcts.explorationParam)

	mcts.RunConfig(cfg)
	assert.Equal(t, uint32(cfg.Iterations), mcts.Root().Visits())
}

func TestMCTSPlayGameReturnsDecisiveValueOnForcedMate(t *testing.T) {
	st := chesscore.Blank()
	e1 := chesscore.SquareFromFileRank(4, 0)
	a1 := chesscore.SquareFromFileRank(0, 0)
	g8 := chesscore.SquareFromFileRank(6, 7)
	f7 := chesscore.SquareFromFileRank(5, 6)
	g7 := chesscore.SquareFromFileRank(6, 6)
	h7 := chesscore.SquareFromFileRank(7, 6)

	st.Board().PutColoredPiece(chesscore.NewColoredPiece(chesscore.White, chesscore.King), e1)
	st.Board().PutColoredPiece(chesscore.NewColoredPiece(chesscore.White, chesscore.Rook), a1)
	st.Board().PutColoredPiece(chesscore.NewColoredPiece(chesscore.Black, chesscore.King), g8)
	st.Board().PutColoredPiece(chesscore.NewColoredPiece(chesscore.Black, chesscore.Pawn), f7)
	st.Board().PutColoredPiece(chesscore.NewColoredPiece(chesscore.Black, chesscore.Pawn), g7)
	st.Board().PutColoredPiece(chesscore.NewColoredPiece(chesscore.Black, chesscore.Pawn), h7)

	mcts := NewMCTS(st, 1.4, Rollout{MaxDepth: 1}, UCTScore)
	result := mcts.PlayGame(200, 5)
	assert.Equal(t, 1.0, result, "white (to move) delivers forced mate")
}
