package chesscore

import "github.com/pkg/errors"

// rightForRookSquare returns the castling right a rook sitting on sq
// protects, or 0 if sq isn't one of the four rook starting squares. Used
// both when a rook moves off its starting square and when a rook is
// captured there — either way that right is gone for good (rights only
// ever decrease, never come back).
func rightForRookSquare(sq Square) CastlingRights {
	switch sq {
	case whiteRookKingside:
		return WhiteKingside
	case whiteRookQueenside:
		return WhiteQueenside
	case blackRookKingside:
		return BlackKingside
	case blackRookQueenside:
		return BlackQueenside
	default:
		return 0
	}
}

// applyResult accumulates what MakeMove needs to fold into the new Context,
// built up across the per-flag handlers before being frozen into a Context.
type applyResult struct {
	capturedPiece  PieceType
	revoke         CastlingRights
	doublePawnPush int8
	isCaptureOrPawnMove bool
}

// removeCapturedPieceAt removes whatever sits at dst (if anything) before
// the mover's own piece lands there. them is passed explicitly rather than
// read off the board, so it doesn't matter whether this runs before or
// after a color-mask update at dst.
func (st *State) removeCapturedPieceAt(dst Square, them Color, res *applyResult) {
	captured := st.board.PieceTypeAt(dst)
	if captured == NoPieceType {
		return
	}
	st.board.RemoveColoredPiece(NewColoredPiece(them, captured), dst)
	res.capturedPiece = captured
	res.revoke |= rightForRookSquare(dst)
	res.isCaptureOrPawnMove = true
}

func (st *State) applyNormal(dst, src Square, res *applyResult) {
	them := st.sideToMove.Flip()
	st.removeCapturedPieceAt(dst, them, res)

	movedPiece := st.board.PieceTypeAt(src)
	st.board.MovePieceTypeForColor(movedPiece, st.sideToMove, dst, src)

	if movedPiece == Pawn {
		res.isCaptureOrPawnMove = true
		if src.Rank() == 1 && dst.Rank() == 3 || src.Rank() == 6 && dst.Rank() == 4 {
			res.doublePawnPush = int8(src.File())
		}
	}
	if movedPiece == King {
		res.revoke |= bothSidesRights(st.sideToMove)
	}
	if movedPiece == Rook {
		res.revoke |= rightForRookSquare(src)
	}
}

func (st *State) applyPromotion(dst, src Square, promotion PieceType, res *applyResult) {
	them := st.sideToMove.Flip()
	st.removeCapturedPieceAt(dst, them, res)

	us := st.sideToMove
	st.board.RemoveColoredPiece(NewColoredPiece(us, Pawn), src)
	st.board.PutColoredPiece(NewColoredPiece(us, promotion), dst)
	res.isCaptureOrPawnMove = true
}

func (st *State) applyEnPassant(dst, src Square, res *applyResult) {
	them := st.sideToMove.Flip()
	var captureSquare Square
	if st.sideToMove == White {
		captureSquare = Square(int(dst) + 8)
	} else {
		captureSquare = Square(int(dst) - 8)
	}

	st.board.MovePieceTypeForColor(Pawn, st.sideToMove, dst, src)
	st.board.RemoveColoredPiece(NewColoredPiece(them, Pawn), captureSquare)

	res.capturedPiece = Pawn
	res.isCaptureOrPawnMove = true
}

func (st *State) applyCastling(dst, src Square, res *applyResult) {
	us := st.sideToMove
	st.board.MovePieceTypeForColor(King, us, dst, src)

	isKingside := int(dst) == int(src)+2
	var rookSrc, rookDst Square
	if isKingside {
		rookSrc = Square(int(src) + 3)
		rookDst = Square(int(src) + 1)
	} else {
		rookSrc = Square(int(src) - 4)
		rookDst = Square(int(src) - 1)
	}
	st.board.MoveColoredPiece(NewColoredPiece(us, Rook), rookDst, rookSrc)

	res.revoke |= bothSidesRights(us)
}

// MakeMove applies mv, which is assumed to be at least pseudo-legal for the
// current side to move. It updates the board, advances the Context chain,
// flips side to move, and eagerly resolves InsufficientMaterial/
// FiftyMoveRule/ThreefoldRepetition terminations (Checkmate/Stalemate are
// resolved lazily via AssumeAndUpdateTermination once the caller has
// confirmed there are no legal replies).
func (st *State) MakeMove(mv Move) {
	dst, src, flag := mv.Dst(), mv.Src(), mv.Flag()
	us := st.sideToMove

	st.board.MoveColor(us, dst, src)

	res := applyResult{capturedPiece: NoPieceType, doublePawnPush: noDoublePawnPushFile}
	switch flag {
	case NormalMove:
		st.applyNormal(dst, src, &res)
	case PromotionMove:
		st.applyPromotion(dst, src, mv.Promotion(), &res)
	case EnPassantMove:
		st.applyEnPassant(dst, src, &res)
	case CastlingMove:
		st.applyCastling(dst, src, &res)
	}

	prev := st.context
	halfmoveClock := prev.halfmoveClock + 1
	if res.isCaptureOrPawnMove {
		halfmoveClock = 0
	}

	newCtx := &Context{
		halfmoveClock:   halfmoveClock,
		doublePawnPush:  res.doublePawnPush,
		castlingRights:  prev.castlingRights &^ res.revoke,
		capturedPiece:   res.capturedPiece,
		zobristSnapshot: st.board.Zobrist(),
		move:            mv,
		previous:        prev,
	}

	st.halfmove++
	st.sideToMove = us.Flip()
	st.context = newCtx

	switch {
	case st.board.InsufficientMaterial():
		t := InsufficientMaterial
		st.termination = &t
	case newCtx.halfmoveClock >= 100:
		t := FiftyMoveRule
		st.termination = &t
	default:
		count := st.incrementPositionCount()
		if count == 3 {
			t := ThreefoldRepetition
			st.termination = &t
		}
	}
}

func (st *State) incrementPositionCount() int {
	hash := st.board.Zobrist()
	st.positionCounts[hash]++
	return st.positionCounts[hash]
}

func (st *State) decrementPositionCount() {
	hash := st.board.Zobrist()
	st.positionCounts[hash]--
	if st.positionCounts[hash] <= 0 {
		delete(st.positionCounts, hash)
	}
}

func (st *State) unapplyNormal(dst, src Square) {
	mover := st.sideToMove.Flip()
	moved := st.board.PieceTypeAt(dst)
	st.board.MovePieceTypeForColor(moved, mover, src, dst)
	st.restoreCapture(dst)
}

func (st *State) unapplyPromotion(dst, src Square, promotion PieceType) {
	mover := st.sideToMove.Flip()
	st.board.RemoveColoredPiece(NewColoredPiece(mover, promotion), dst)
	st.board.PutColoredPiece(NewColoredPiece(mover, Pawn), src)
	st.restoreCapture(dst)
}

// restoreCapture puts back whatever st.context (the Context produced by the
// move being undone) recorded as captured, using the side to move at the
// time of undo: MakeMove already advanced side_to_move, so the mover of the
// move being undone is the opposite of the current (pre-flip) side_to_move,
// which is exactly the side whose piece was captured.
func (st *State) restoreCapture(dst Square) {
	captured := st.context.capturedPiece
	if captured == NoPieceType {
		return
	}
	st.board.PutColoredPiece(NewColoredPiece(st.sideToMove, captured), dst)
}

func (st *State) unapplyEnPassant(dst, src Square) {
	// st.sideToMove still holds the mover's opponent here (MakeMove's flip
	// hasn't been undone yet), so the mover is its flip — White moved the
	// capturing pawn one rank further from rank1 than the captured pawn, so
	// the captured square is dst+8; Black's is dst-8.
	mover := st.sideToMove.Flip()
	var captureSquare Square
	if mover == White {
		captureSquare = Square(int(dst) + 8)
	} else {
		captureSquare = Square(int(dst) - 8)
	}
	st.board.MovePieceTypeForColor(Pawn, mover, src, dst)
	st.board.PutColoredPiece(NewColoredPiece(st.sideToMove, Pawn), captureSquare)
}

func (st *State) unapplyCastling(dst, src Square) {
	mover := st.sideToMove.Flip()
	st.board.MovePieceTypeForColor(King, mover, src, dst)

	isKingside := int(dst) == int(src)+2
	var rookSrc, rookDst Square
	if isKingside {
		rookSrc = Square(int(src) + 3)
		rookDst = Square(int(src) + 1)
	} else {
		rookSrc = Square(int(src) - 4)
		rookDst = Square(int(src) - 1)
	}
	st.board.MoveColoredPiece(NewColoredPiece(mover, Rook), rookSrc, rookDst)
}

// UnmakeMove undoes mv, which must have been the last move applied via
// MakeMove (regardless of whether it turned out to be legal). Restores the
// board, the Context chain, the halfmove counter, side to move, and the
// repetition table. Returns ErrNoLastMove (spec.md §7's illegal-operation
// category) without mutating st if mv doesn't match the move that produced
// the current Context.
func (st *State) UnmakeMove(mv Move) error {
	if st.context.move != mv {
		return errors.Wrapf(ErrNoLastMove, "got %s, last applied was %s", mv, st.context.move)
	}

	dst, src, flag := mv.Dst(), mv.Src(), mv.Flag()

	// positionCounts was only incremented by MakeMove when neither
	// InsufficientMaterial nor FiftyMoveRule short-circuited the repetition
	// check (see MakeMove); ThreefoldRepetition itself is detected inside
	// that same incrementing branch, so it must still be undone here, as must
	// a Checkmate/Stalemate assumed after the move.
	if st.termination == nil || (*st.termination != InsufficientMaterial && *st.termination != FiftyMoveRule) {
		st.decrementPositionCount()
	}

	mover := st.sideToMove.Flip()
	st.board.MoveColor(mover, src, dst)

	switch flag {
	case NormalMove:
		st.unapplyNormal(dst, src)
	case PromotionMove:
		st.unapplyPromotion(dst, src, mv.Promotion())
	case EnPassantMove:
		st.unapplyEnPassant(dst, src)
	case CastlingMove:
		st.unapplyCastling(dst, src)
	}

	st.halfmove--
	st.sideToMove = mover
	st.context = st.context.previous
	st.termination = nil
	return nil
}
