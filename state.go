package chesscore

// Named squares/masks for castling geometry. Built from SquareFromFileRank
// rather than transcribed square indices, matching masks.go's derive-from-
// geometry convention; Square.Mask() has no dependency on the package's
// init-time tables so these are safe as ordinary package vars.
var (
	whiteKingStart  = SquareFromFileRank(4, 0) // e1
	whiteRookKingside  = SquareFromFileRank(7, 0) // h1
	whiteRookQueenside = SquareFromFileRank(0, 0) // a1
	blackKingStart  = SquareFromFileRank(4, 7) // e8
	blackRookKingside  = SquareFromFileRank(7, 7) // h8
	blackRookQueenside = SquareFromFileRank(0, 7) // a8

	castlingGapKingside = [2]Bitboard{
		SquareFromFileRank(5, 0).Mask() | SquareFromFileRank(6, 0).Mask(),
		SquareFromFileRank(5, 7).Mask() | SquareFromFileRank(6, 7).Mask(),
	}
	castlingGapQueenside = [2]Bitboard{
		SquareFromFileRank(1, 0).Mask() | SquareFromFileRank(2, 0).Mask() | SquareFromFileRank(3, 0).Mask(),
		SquareFromFileRank(1, 7).Mask() | SquareFromFileRank(2, 7).Mask() | SquareFromFileRank(3, 7).Mask(),
	}
	castlingCheckMaskKingside = [2]Bitboard{
		SquareFromFileRank(4, 0).Mask() | SquareFromFileRank(5, 0).Mask() | SquareFromFileRank(6, 0).Mask(),
		SquareFromFileRank(4, 7).Mask() | SquareFromFileRank(5, 7).Mask() | SquareFromFileRank(6, 7).Mask(),
	}
	castlingCheckMaskQueenside = [2]Bitboard{
		SquareFromFileRank(2, 0).Mask() | SquareFromFileRank(3, 0).Mask() | SquareFromFileRank(4, 0).Mask(),
		SquareFromFileRank(2, 7).Mask() | SquareFromFileRank(3, 7).Mask() | SquareFromFileRank(4, 7).Mask(),
	}
)

// State is a complete chess position: piece placement (Board), whose turn it
// is, the halfmove counter, a resolved Termination if the game has ended,
// and the reversible per-ply Context chain. positionCounts backs threefold
// repetition detection, keyed on the placement-only Zobrist hash.
type State struct {
	board          Board
	sideToMove     Color
	halfmove       uint16
	termination    *Termination
	context        *Context
	positionCounts map[uint64]int
}

// Blank returns an empty board, White to move, no castling rights.
func Blank() State {
	board := BlankBoard()
	return State{
		board:          board,
		sideToMove:     White,
		halfmove:       0,
		context:        BlankContext(board.Zobrist()),
		positionCounts: map[uint64]int{},
	}
}

// Initial returns the standard starting position.
func Initial() State {
	board := InitialBoard()
	st := State{
		board:          board,
		sideToMove:     White,
		halfmove:       0,
		context:        InitialContext(board.Zobrist()),
		positionCounts: map[uint64]int{},
	}
	st.positionCounts[board.Zobrist()] = 1
	return st
}

// Board returns the position's bitboards.
func (st *State) Board() *Board { return &st.board }

// SideToMove returns whose turn it is.
func (st *State) SideToMove() Color { return st.sideToMove }

// Halfmove returns the number of halfmoves (plies) played since the start
// of the game.
func (st *State) Halfmove() uint16 { return st.halfmove }

// Fullmove returns the conventional fullmove number (starts at 1).
func (st *State) Fullmove() uint16 { return st.halfmove/2 + 1 }

// Context returns the current ply's reversible metadata.
func (st *State) Context() *Context { return st.context }

// Termination returns the resolved game-ending reason, if any.
func (st *State) Termination() (Termination, bool) {
	if st.termination == nil {
		return 0, false
	}
	return *st.termination, true
}

// IsGameOver reports whether a termination has been resolved.
func (st *State) IsGameOver() bool {
	return st.termination != nil
}

// AssumeAndUpdateTermination resolves Checkmate/Stalemate lazily: if no
// termination has already been recorded (InsufficientMaterial/FiftyMoveRule/
// ThreefoldRepetition are detected eagerly in MakeMove), the side to move is
// in checkmate if in check, else stalemate. Callers call this once they know
// the side to move has no legal moves.
func (st *State) AssumeAndUpdateTermination() Termination {
	if st.termination != nil {
		return *st.termination
	}
	var result Termination
	if st.board.IsColorInCheck(st.sideToMove) {
		result = Checkmate
	} else {
		result = Stalemate
	}
	st.termination = &result
	return result
}

func (st *State) hasCastlingRightsKingside(c Color) bool {
	return st.context.CastlingRights().Has(kingsideRights(c))
}

func (st *State) hasCastlingRightsQueenside(c Color) bool {
	return st.context.CastlingRights().Has(queensideRights(c))
}

func (st *State) hasCastlingSpaceKingside(c Color) bool {
	return castlingGapKingside[c]&st.board.AllPieces() == 0
}

func (st *State) hasCastlingSpaceQueenside(c Color) bool {
	return castlingGapQueenside[c]&st.board.AllPieces() == 0
}

// CanCastleKingside reports whether c may currently castle kingside: the
// right hasn't been lost, the squares between king and rook are empty, and
// the king doesn't start, pass through, or land on an attacked square.
func (st *State) CanCastleKingside(c Color) bool {
	return st.hasCastlingRightsKingside(c) &&
		st.hasCastlingSpaceKingside(c) &&
		!st.board.IsMaskAttackedBy(castlingCheckMaskKingside[c], c.Flip())
}

// CanCastleQueenside reports the queenside equivalent of CanCastleKingside.
func (st *State) CanCastleQueenside(c Color) bool {
	return st.hasCastlingRightsQueenside(c) &&
		st.hasCastlingSpaceQueenside(c) &&
		!st.board.IsMaskAttackedBy(castlingCheckMaskQueenside[c], c.Flip())
}

// IsProbablyValid is a cheap post-pseudo-legal-move sanity check: exactly one
// king per side, and the side that just moved isn't left in check (i.e. the
// move didn't leave its own king exposed).
func (st *State) IsProbablyValid() bool {
	return st.board.HasValidKings() && !st.board.IsColorInCheck(st.sideToMove.Flip())
}

// IsUnequivocallyValid performs the full invariant audit: board consistency,
// side-to-move/halfmove parity, castling rights matching piece placement,
// double-pawn-push bookkeeping, halfmove-clock bounds, no illegal check, and
// Zobrist agreement between the board and its Context snapshot. Unlike
// spec.md §6.1's plain bool, every violated invariant is collected and
// returned via InvalidStateError so a loader can report all of them at once
// (SPEC_FULL.md §4) instead of just the first.
func (st *State) IsUnequivocallyValid() (bool, error) {
	var violations []error
	if !st.board.IsConsistent() {
		violations = append(violations, errInconsistentBoard)
	}
	if !st.board.HasValidKings() {
		violations = append(violations, errInvalidKings)
	}
	if !st.hasValidSideToMove() {
		violations = append(violations, errInvalidSideToMove)
	}
	if !st.hasValidCastlingRights() {
		violations = append(violations, errInvalidCastlingRights)
	}
	if !st.hasValidDoublePawnPush() {
		violations = append(violations, errInvalidDoublePawnPush)
	}
	if !st.hasValidHalfmoveClock() {
		violations = append(violations, errInvalidHalfmoveClock)
	}
	if st.board.IsColorInCheck(st.sideToMove.Flip()) {
		violations = append(violations, errIllegalCheck)
	}
	if !st.isZobristConsistent() {
		violations = append(violations, errZobristMismatch)
	}
	if len(violations) == 0 {
		return true, nil
	}
	return false, newInvalidStateError(violations...)
}

func (st *State) isZobristConsistent() bool {
	return st.board.Zobrist() == st.context.Zobrist()
}

func (st *State) hasValidSideToMove() bool {
	return Color(st.halfmove%2) == st.sideToMove
}

func (st *State) hasValidHalfmoveClock() bool {
	return st.context.HasValidHalfmoveClock() && uint16(st.context.HalfmoveClock()) <= st.halfmove
}

func (st *State) hasValidCastlingRights() bool {
	rights := st.context.CastlingRights()
	kings := st.board.PieceTypeMask(King)
	rooks := st.board.PieceTypeMask(Rook)
	white, black := st.board.ColorPieces(White), st.board.ColorPieces(Black)

	if kings&white&whiteKingStart.Mask() == 0 && rights&bothSidesRights(White) != 0 {
		return false
	}
	if kings&black&blackKingStart.Mask() == 0 && rights&bothSidesRights(Black) != 0 {
		return false
	}
	if rooks&white&whiteRookKingside.Mask() == 0 && rights.Has(WhiteKingside) {
		return false
	}
	if rooks&white&whiteRookQueenside.Mask() == 0 && rights.Has(WhiteQueenside) {
		return false
	}
	if rooks&black&blackRookKingside.Mask() == 0 && rights.Has(BlackKingside) {
		return false
	}
	if rooks&black&blackRookQueenside.Mask() == 0 && rights.Has(BlackQueenside) {
		return false
	}
	return true
}

func (st *State) hasValidDoublePawnPush() bool {
	file, ok := st.context.DoublePawnPushFile()
	if !ok {
		return true
	}
	if file < 0 || file > 7 || st.halfmove < 1 {
		return false
	}
	justMoved := st.sideToMove.Flip()
	pawns := st.board.ColoredPieceMask(justMoved, Pawn)
	pushRank := rank4
	if justMoved == Black {
		pushRank = rank5
	}
	return pawns&fileMasks[file]&rankMasks[pushRank] != 0
}
