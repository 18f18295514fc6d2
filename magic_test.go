package chesscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMagicAttacksMatchManualRayAttacks is spec.md invariant 9: for every
// square and every occupancy subset of that square's relevant mask, the
// magic-table lookup must agree with the on-the-fly ray walker it was built
// to replace.
func TestMagicAttacksMatchManualRayAttacks(t *testing.T) {
	for sq := Square(0); sq < NumSquares; sq++ {
		relevant := calcBishopRelevantMask(sq)
		forEachSubset(relevant, func(occ Bitboard) {
			want := manualSingleBishopAttacks(sq, occ)
			got := bishopAttacks(sq, occ)
			assert.Equal(t, want, got, "bishop attacks disagree at %s for occupancy %016x", sq, uint64(occ))
		})
	}
}

func TestMagicRookAttacksMatchManualRayAttacks(t *testing.T) {
	for sq := Square(0); sq < NumSquares; sq++ {
		relevant := calcRookRelevantMask(sq)
		forEachSubset(relevant, func(occ Bitboard) {
			want := manualSingleRookAttacks(sq, occ)
			got := rookAttacks(sq, occ)
			assert.Equal(t, want, got, "rook attacks disagree at %s for occupancy %016x", sq, uint64(occ))
		})
	}
}

func TestQueenAttacksIsBishopUnionRook(t *testing.T) {
	occ := SquareFromFileRank(3, 3).Mask() | SquareFromFileRank(4, 4).Mask()
	sq := SquareFromFileRank(3, 0)
	assert.Equal(t, bishopAttacks(sq, occ)|rookAttacks(sq, occ), queenAttacks(sq, occ))
}

func TestRookAttacksEmptyBoardCorner(t *testing.T) {
	a1 := SquareFromFileRank(0, 0)
	attacks := rookAttacks(a1, EmptyBitboard)
	assert.Equal(t, (fileMasks[0]|rankMasks[0])&^a1.Mask(), attacks)
}
