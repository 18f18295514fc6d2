package engine

import (
	"math"
	"testing"

	"github.com/chesscore/chesscore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialEvaluateStartingPositionIsBalanced(t *testing.T) {
	st := chesscore.Initial()
	eval := Material{}.Evaluate(&st)
	assert.InDelta(t, 0, eval.Value, 1e-9)
	assert.Len(t, eval.Policy, 20)
	var sum float64
	for _, pm := range eval.Policy {
		sum += pm.Prior
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestMaterialEvaluateFavorsMaterialAdvantage(t *testing.T) {
	st := chesscore.Blank()
	e1 := chesscore.SquareFromFileRank(4, 0)
	e8 := chesscore.SquareFromFileRank(4, 7)
	st.Board().PutColoredPiece(chesscore.NewColoredPiece(chesscore.White, chesscore.King), e1)
	st.Board().PutColoredPiece(chesscore.NewColoredPiece(chesscore.Black, chesscore.King), e8)
	st.Board().PutColoredPiece(chesscore.NewColoredPiece(chesscore.White, chesscore.Queen), chesscore.SquareFromFileRank(0, 0))

	eval := Material{}.Evaluate(&st)
	assert.Greater(t, eval.Value, 0.0, "white is up a queen, evaluation must favor white")
	assert.InDelta(t, math.Tanh(9.0/DefaultScale), eval.Value, 1e-9)
}

func TestMaterialEvaluateScaleControlsSaturation(t *testing.T) {
	st := chesscore.Blank()
	e1 := chesscore.SquareFromFileRank(4, 0)
	e8 := chesscore.SquareFromFileRank(4, 7)
	st.Board().PutColoredPiece(chesscore.NewColoredPiece(chesscore.White, chesscore.King), e1)
	st.Board().PutColoredPiece(chesscore.NewColoredPiece(chesscore.Black, chesscore.King), e8)
	st.Board().PutColoredPiece(chesscore.NewColoredPiece(chesscore.White, chesscore.Rook), chesscore.SquareFromFileRank(0, 0))

	wide := Material{Scale: 100}.Evaluate(&st)
	narrow := Material{Scale: 1}.Evaluate(&st)
	assert.Less(t, wide.Value, narrow.Value, "a larger scale should saturate more slowly")
}

func TestRolloutTerminalPositionReturnsExactValue(t *testing.T) {
	// Fool's mate: white is checkmated immediately, no rollout needed.
	st := chesscore.Initial()
	f2, f3 := chesscore.SquareFromFileRank(5, 1), chesscore.SquareFromFileRank(5, 2)
	e7, e5 := chesscore.SquareFromFileRank(4, 6), chesscore.SquareFromFileRank(4, 4)
	g2, g4 := chesscore.SquareFromFileRank(6, 1), chesscore.SquareFromFileRank(6, 3)
	d8, h4 := chesscore.SquareFromFileRank(3, 7), chesscore.SquareFromFileRank(7, 3)

	st.MakeMove(chesscore.NewNonPromotionMove(f3, f2, chesscore.NormalMove))
	st.MakeMove(chesscore.NewNonPromotionMove(e5, e7, chesscore.NormalMove))
	st.MakeMove(chesscore.NewNonPromotionMove(g4, g2, chesscore.NormalMove))
	st.MakeMove(chesscore.NewNonPromotionMove(h4, d8, chesscore.NormalMove))

	require.Empty(t, st.LegalMoves(), "white must be checkmated")
	eval := Rollout{MaxDepth: 1}.Evaluate(&st)
	assert.Equal(t, -1.0, eval.Value, "the side to move (white) was just mated")
	assert.Nil(t, eval.Policy)
}

// TestRolloutDepthCapReturnsZeroWhenInconclusive: a single random ply from
// the starting position can never end the game, so a one-ply rollout is
// deterministically inconclusive regardless of which move it picks.
func TestRolloutDepthCapReturnsZeroWhenInconclusive(t *testing.T) {
	st := chesscore.Initial()
	r := Rollout{MaxDepth: 1}
	eval := r.Evaluate(&st)
	assert.Equal(t, 0.0, eval.Value)
	assert.Len(t, eval.Policy, 20)
}

func TestRolloutMaxDepthZeroFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultRolloutDepth, Rollout{}.maxDepth())
	assert.Equal(t, 1, Rollout{MaxDepth: 1}.maxDepth())
}
