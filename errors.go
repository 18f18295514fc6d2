package chesscore

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Sentinel errors for the illegal-operation taxonomy of spec.md §7: these
// are programmer-visible misuses of the API (unmaking a move that wasn't
// the last one applied, asking a childless node for its best child), never
// recovered internally, always propagated to the caller.
var (
	// ErrNoLastMove is returned by UnmakeMove when mv doesn't match the move
	// that produced the current Context.
	ErrNoLastMove = errors.New("chesscore: unmake_move argument was not the last move applied")

	// ErrNoChildren is returned by MCTS.TakeBestChild on a childless
	// (unexpanded or terminal) root.
	ErrNoChildren = errors.New("chesscore: no children to take (root is terminal or unexpanded)")

	// ErrMoveNotFound is returned by MCTS.TakeChildWithMove when no child's
	// incoming move matches the requested one.
	ErrMoveNotFound = errors.New("chesscore: no child with the requested move")
)

// InvalidStateError wraps the invariant violations IsUnequivocallyValid
// finds, aggregated with go-multierror so a loader can report every broken
// invariant at once instead of just the first (spec.md §7's "Inconsistent
// state" category).
type InvalidStateError struct {
	*multierror.Error
}

func newInvalidStateError(violations ...error) *InvalidStateError {
	if len(violations) == 0 {
		return nil
	}
	merr := &multierror.Error{}
	for _, v := range violations {
		merr = multierror.Append(merr, v)
	}
	return &InvalidStateError{Error: merr}
}

var (
	errInconsistentBoard     = errors.New("board: piece/color masks inconsistent")
	errInvalidKings          = errors.New("board: not exactly one king per side")
	errInvalidSideToMove     = errors.New("state: side to move doesn't match halfmove parity")
	errInvalidCastlingRights = errors.New("state: castling rights inconsistent with piece placement")
	errInvalidDoublePawnPush = errors.New("state: double pawn push file inconsistent with pawn placement")
	errInvalidHalfmoveClock  = errors.New("state: halfmove clock out of range")
	errIllegalCheck          = errors.New("state: side not to move is in check")
	errZobristMismatch       = errors.New("state: board zobrist disagrees with context snapshot")
)
