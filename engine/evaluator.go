// Package engine implements the single-player Monte Carlo Tree Search layer
// built on top of chesscore's State/Move machinery, plus the reference
// Evaluator implementations used to drive it.
package engine

import "github.com/chesscore/chesscore"

// PolicyMove pairs a legal move with the prior probability an Evaluator
// assigns it. Priors across a non-terminal position's policy should sum to
// 1; a terminal position's policy is empty.
type PolicyMove struct {
	Move  chesscore.Move
	Prior float64
}

// Evaluation is what an Evaluator returns for a single position: a policy
// over its legal moves and a scalar value from the side-to-move's
// perspective (+1 win, -1 loss, 0 draw/neutral).
type Evaluation struct {
	Policy []PolicyMove
	Value  float64
}

// Evaluator produces an Evaluation for a position. Implementations must not
// mutate the State they're given.
type Evaluator interface {
	Evaluate(st *chesscore.State) Evaluation
}

// uniformPolicy assigns every move in moves an equal prior (1/len(moves)),
// or returns nil for an empty move list (the terminal-position case).
func uniformPolicy(moves []chesscore.Move) []PolicyMove {
	if len(moves) == 0 {
		return nil
	}
	prior := 1.0 / float64(len(moves))
	policy := make([]PolicyMove, len(moves))
	for i, m := range moves {
		policy[i] = PolicyMove{Move: m, Prior: prior}
	}
	return policy
}

// terminalValue returns the value of a terminal state from the perspective
// of perspectiveSideToMove: +1 if that side delivered checkmate, -1 if it
// was checkmated, 0 for any drawing termination. Callers must only pass a
// State whose Termination has already been resolved (directly, or via
// AssumeAndUpdateTermination); otherwise use noMovesValue.
func terminalValue(st *chesscore.State, perspective chesscore.Color) float64 {
	term, ok := st.Termination()
	if !ok || term.IsDraw() {
		return 0
	}
	// Checkmate: the side to move in st is the side that got mated.
	if st.SideToMove() == perspective {
		return -1
	}
	return 1
}

// noMovesValue scores a position that has no legal moves but whose
// Termination hasn't been resolved yet (an Evaluator must not mutate the
// State it's given, so it can't call AssumeAndUpdateTermination itself).
// Any eager termination (InsufficientMaterial/FiftyMoveRule/
// ThreefoldRepetition) is already reflected in st.Termination() and handled
// like terminalValue; otherwise the absence of legal moves means checkmate
// if the side to move is in check, stalemate otherwise.
func noMovesValue(st *chesscore.State, perspective chesscore.Color) float64 {
	if _, ok := st.Termination(); ok {
		return terminalValue(st, perspective)
	}
	if !st.Board().IsColorInCheck(st.SideToMove()) {
		return 0 // stalemate
	}
	if st.SideToMove() == perspective {
		return -1
	}
	return 1
}
