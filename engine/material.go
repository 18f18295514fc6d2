package engine

import (
	"math"

	"github.com/chesscore/chesscore"
)

// nominalValue is the classical pawn=1/knight=bishop=3/rook=5/queen=9
// weighting; the king contributes nothing since it's never captured.
func nominalValue(pt chesscore.PieceType) float64 {
	switch pt {
	case chesscore.Pawn:
		return 1
	case chesscore.Knight, chesscore.Bishop:
		return 3
	case chesscore.Rook:
		return 5
	case chesscore.Queen:
		return 9
	default:
		return 0
	}
}

// Material is the simplest reference Evaluator: a sigmoid of the material
// difference between the side to move and its opponent, with a uniform
// policy over whatever legal moves the position has.
type Material struct {
	// Scale controls how quickly the sigmoid saturates; a material
	// difference of Scale pawns maps to roughly tanh(1) ≈ 0.76. Zero falls
	// back to DefaultScale.
	Scale float64
}

// DefaultScale is the material difference, in pawns, that the sigmoid
// treats as a "one unit" advantage.
const DefaultScale = 6.0

func (m Material) scale() float64 {
	if m.Scale <= 0 {
		return DefaultScale
	}
	return m.Scale
}

func (m Material) Evaluate(st *chesscore.State) Evaluation {
	moves := st.LegalMoves()
	if len(moves) == 0 {
		return Evaluation{Value: noMovesValue(st, st.SideToMove())}
	}

	us, them := st.SideToMove(), st.SideToMove().Flip()
	board := st.Board()
	var diff float64
	for pt := chesscore.Pawn; pt <= chesscore.Queen; pt++ {
		ours := board.ColoredPieceMask(us, pt).PopCount()
		theirs := board.ColoredPieceMask(them, pt).PopCount()
		diff += float64(ours-theirs) * nominalValue(pt)
	}

	value := math.Tanh(diff / m.scale())
	return Evaluation{Policy: uniformPolicy(moves), Value: value}
}
