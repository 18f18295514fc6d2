package chesscore

// Pseudo-legal move generation, per piece type, followed by a legality
// filter that applies each candidate and rejects it if it leaves the mover's
// own king in check (spec.md §4.4's make/unmake filter, the same approach
// get_legal_moves uses rather than an in-place pin analysis).

func (st *State) addPawnMoves(moves []Move) []Move {
	us := st.sideToMove
	them := us.Flip()
	ourPawns := st.board.ColoredPieceMask(us, Pawn)
	theirPieces := st.board.ColorPieces(them)
	occupied := st.board.AllPieces()

	promotionRank := rank8
	if us == Black {
		promotionRank = rank1
	}
	singlePushRank := rank3
	if us == Black {
		singlePushRank = rank6
	}

	squaresOf(ourPawns, func(src Square) {
		srcMask := src.Mask()

		captures := multiPawnAttacks(srcMask, us) & theirPieces
		squaresOf(captures, func(dst Square) {
			moves = appendPawnTarget(moves, src, dst, promotionRank)
		})

		singleDst := multiPawnPushes(srcMask, us) &^ occupied
		if singleDst == 0 {
			return
		}
		dstSq := squareOfSingleBit(singleDst)

		if singleDst&rankMasks[singlePushRank] != 0 {
			doubleDst := multiPawnPushes(singleDst, us) &^ occupied
			if doubleDst != 0 {
				moves = append(moves, NewNonPromotionMove(squareOfSingleBit(doubleDst), src, NormalMove))
			}
		}
		moves = appendPawnTarget(moves, src, dstSq, promotionRank)
	})

	return st.addEnPassantMoves(moves)
}

func appendPawnTarget(moves []Move, src, dst Square, promotionRank int) []Move {
	if dst.Mask()&rankMasks[promotionRank] != 0 {
		for _, promo := range promotionPieceTypes {
			moves = append(moves, NewMove(dst, src, promo, PromotionMove))
		}
		return moves
	}
	return append(moves, NewNonPromotionMove(dst, src, NormalMove))
}

func (st *State) addEnPassantMoves(moves []Move) []Move {
	epFile, ok := st.context.DoublePawnPushFile()
	if !ok {
		return moves
	}
	us := st.sideToMove
	ourPawns := st.board.ColoredPieceMask(us, Pawn)

	srcRank := rank5
	dstRank := rank6
	if us == Black {
		srcRank, dstRank = rank4, rank3
	}

	for _, df := range [2]int{-1, 1} {
		srcFile := epFile + df
		if srcFile < 0 || srcFile > 7 {
			continue
		}
		candidates := ourPawns & fileMasks[srcFile] & rankMasks[srcRank]
		if candidates == 0 {
			continue
		}
		src := squareOfSingleBit(candidates)
		dst := SquareFromFileRank(epFile, dstRank)
		moves = append(moves, NewNonPromotionMove(dst, src, EnPassantMove))
	}
	return moves
}

func (st *State) addKnightMoves(moves []Move) []Move {
	us := st.sideToMove
	ourPieces := st.board.ColorPieces(us)
	squaresOf(st.board.ColoredPieceMask(us, Knight), func(src Square) {
		targets := singleKnightAttacks(src) &^ ourPieces
		squaresOf(targets, func(dst Square) {
			moves = append(moves, NewNonPromotionMove(dst, src, NormalMove))
		})
	})
	return moves
}

func (st *State) addKingMoves(moves []Move) []Move {
	us := st.sideToMove
	ourPieces := st.board.ColorPieces(us)
	kingMask := st.board.ColoredPieceMask(us, King)
	if kingMask == 0 {
		return moves
	}
	src := squareOfSingleBit(kingMask)
	targets := singleKingAttacks(src) &^ ourPieces
	squaresOf(targets, func(dst Square) {
		moves = append(moves, NewNonPromotionMove(dst, src, NormalMove))
	})
	return moves
}

func (st *State) addSlidingMoves(moves []Move, pt PieceType, attacksFn func(Square, Bitboard) Bitboard) []Move {
	us := st.sideToMove
	ourPieces := st.board.ColorPieces(us)
	occupied := st.board.AllPieces()
	squaresOf(st.board.ColoredPieceMask(us, pt), func(src Square) {
		targets := attacksFn(src, occupied) &^ ourPieces
		squaresOf(targets, func(dst Square) {
			moves = append(moves, NewNonPromotionMove(dst, src, NormalMove))
		})
	})
	return moves
}

func (st *State) addQueenMoves(moves []Move) []Move {
	us := st.sideToMove
	ourPieces := st.board.ColorPieces(us)
	occupied := st.board.AllPieces()
	squaresOf(st.board.ColoredPieceMask(us, Queen), func(src Square) {
		targets := queenAttacks(src, occupied) &^ ourPieces
		squaresOf(targets, func(dst Square) {
			moves = append(moves, NewNonPromotionMove(dst, src, NormalMove))
		})
	})
	return moves
}

func (st *State) addCastlingMoves(moves []Move) []Move {
	us := st.sideToMove
	kingSrc := whiteKingStart
	if us == Black {
		kingSrc = blackKingStart
	}
	if st.CanCastleKingside(us) {
		moves = append(moves, NewNonPromotionMove(Square(int(kingSrc)+2), kingSrc, CastlingMove))
	}
	if st.CanCastleQueenside(us) {
		moves = append(moves, NewNonPromotionMove(Square(int(kingSrc)-2), kingSrc, CastlingMove))
	}
	return moves
}

// PseudoLegalMoves returns every move that is geometrically legal for the
// side to move, without checking whether it leaves that side's own king in
// check.
func (st *State) PseudoLegalMoves() []Move {
	moves := make([]Move, 0, 48)
	moves = st.addPawnMoves(moves)
	moves = st.addKnightMoves(moves)
	moves = st.addSlidingMoves(moves, Bishop, bishopAttacks)
	moves = st.addSlidingMoves(moves, Rook, rookAttacks)
	moves = st.addQueenMoves(moves)
	moves = st.addKingMoves(moves)
	moves = st.addCastlingMoves(moves)
	return moves
}

// LegalMoves filters PseudoLegalMoves down to moves that don't leave the
// mover's own king in check, by making each candidate on a fresh scratch
// copy of st.
func (st *State) LegalMoves() []Move {
	pseudo := st.PseudoLegalMoves()
	legal := make([]Move, 0, len(pseudo))
	mover := st.sideToMove
	for _, mv := range pseudo {
		scratch := st.Clone()
		scratch.MakeMove(mv)
		if scratch.IsProbablyValid() && !scratch.board.IsColorInCheck(mover) {
			legal = append(legal, mv)
		}
	}
	return legal
}

// Clone returns a deep copy of st suitable for speculative move application
// (used by LegalMoves and by MCTS node expansion); the Context chain itself
// is shared (Contexts are immutable once built) but positionCounts is
// duplicated so mutating the clone's repetition table never affects st's.
func (st *State) Clone() State {
	counts := make(map[uint64]int, len(st.positionCounts))
	for k, v := range st.positionCounts {
		counts[k] = v
	}
	clone := *st
	clone.positionCounts = counts
	return clone
}
