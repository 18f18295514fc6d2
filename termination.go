package chesscore

// Termination enumerates the ways a game can end.
type Termination int

const (
	Checkmate Termination = iota
	Stalemate
	InsufficientMaterial
	ThreefoldRepetition
	FiftyMoveRule
)

// IsDecisive reports whether the termination produces a winner; only
// checkmate does.
func (t Termination) IsDecisive() bool {
	return t == Checkmate
}

// IsDraw is the complement of IsDecisive.
func (t Termination) IsDraw() bool {
	return !t.IsDecisive()
}

func (t Termination) String() string {
	switch t {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case InsufficientMaterial:
		return "insufficient material"
	case ThreefoldRepetition:
		return "threefold repetition"
	case FiftyMoveRule:
		return "fifty-move rule"
	default:
		return "unknown"
	}
}
