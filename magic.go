package chesscore

import (
	"math/rand"

	"github.com/chesscore/chesscore/internal/xlog"
)

// Magic-bitboard lookup for sliding pieces. For each square we hold a
// relevant-occupancy mask, a magic multiplier, a right-shift amount, and an
// offset into one contiguous attack table; magicInfo.index implements
// ((occupied & relevant) * magic) >> shift + offset, per spec.md §4.2.

type magicInfo struct {
	relevantMask Bitboard
	magicNumber  Bitboard
	shift        uint
	offset       int
}

func (m *magicInfo) index(occupied Bitboard) int {
	blockers := occupied & m.relevantMask
	hash := uint64(blockers) * uint64(m.magicNumber)
	return m.offset + int(hash>>m.shift)
}

var (
	rookRelevantMasks   [NumSquares]Bitboard
	bishopRelevantMasks [NumSquares]Bitboard

	rookMagics   [NumSquares]magicInfo
	bishopMagics [NumSquares]magicInfo

	rookAttackTable   []Bitboard
	bishopAttackTable []Bitboard
)

var magicLog = xlog.Get("chesscore/magic")

func calcRookRelevantMask(sq Square) Bitboard {
	fileMask := fileMasks[sq.File()]
	rankMask := rankMasks[sq.Rank()]
	res := (fileMask | rankMask) &^ sq.Mask()
	edges := [4]Bitboard{fileMasks[fileA], fileMasks[fileH], rankMasks[rank1], rankMasks[rank8]}
	for _, edge := range edges {
		if fileMask != edge && rankMask != edge {
			res &^= edge
		}
	}
	return res
}

func diagonalMaskThrough(sq Square) Bitboard {
	f, r := sq.File(), sq.Rank()
	var mask Bitboard
	for other := Square(0); int(other) < NumSquares; other++ {
		if other.File()-other.Rank() == f-r {
			mask |= other.Mask()
		}
	}
	return mask
}

func antidiagonalMaskThrough(sq Square) Bitboard {
	f, r := sq.File(), sq.Rank()
	var mask Bitboard
	for other := Square(0); int(other) < NumSquares; other++ {
		if other.File()+other.Rank() == f+r {
			mask |= other.Mask()
		}
	}
	return mask
}

func calcBishopRelevantMask(sq Square) Bitboard {
	outerRing := fileMasks[fileA] | fileMasks[fileH] | rankMasks[rank1] | rankMasks[rank8]
	res := diagonalMaskThrough(sq) | antidiagonalMaskThrough(sq)
	return res &^ sq.Mask() &^ outerRing
}

// magicRNG is seeded deterministically so the generated tables (and which
// candidates are rejected along the way) are reproducible across builds, per
// spec.md §9's "seed the RNG for reproducible builds" design note.
var magicRNG = rand.New(rand.NewSource(0xC0FFEE))

func genRandomMagicCandidate() Bitboard {
	return Bitboard(magicRNG.Uint64() & magicRNG.Uint64() & magicRNG.Uint64())
}

// findMagicForSquare searches for a magic multiplier for sq's relevant mask,
// filling table[offset:offset+size] with the resulting attack sets. size
// must equal 1 << popcount(relevantMask).
func findMagicForSquare(sq Square, relevantMask Bitboard, offset int, table []Bitboard, rayAttacksAt func(Square, Bitboard) Bitboard) magicInfo {
	numBits := relevantMask.PopCount()
	shift := uint(64 - numBits)
	size := 1 << uint(numBits)

	occupancies := subsetsOf(relevantMask)
	trueAttacks := make([]Bitboard, len(occupancies))
	for i, occ := range occupancies {
		trueAttacks[i] = rayAttacksAt(sq, occ)
	}

	used := make([]Bitboard, size)
	for {
		candidate := genRandomMagicCandidate()

		// Quick heuristic: reject candidates unlikely to spread bits into
		// the table's high byte.
		if Bitboard(uint64(relevantMask)*uint64(candidate)&0xFF00000000000000).PopCount() < 6 {
			continue
		}

		for i := range used {
			used[i] = 0
		}

		info := magicInfo{relevantMask: relevantMask, magicNumber: candidate, shift: shift, offset: 0}
		failed := false
		for i, occ := range occupancies {
			idx := info.index(occ)
			if used[idx] == 0 {
				used[idx] = trueAttacks[i]
			} else if used[idx] != trueAttacks[i] {
				failed = true
				break
			}
		}
		if failed {
			continue
		}

		copy(table[offset:offset+size], used)
		info.offset = offset
		magicLog.Debugf("magic number found for square %s: %#016x", sq, uint64(candidate))
		return info
	}
}

func buildMagicTables() {
	var totalRookSize, totalBishopSize int
	for sq := Square(0); int(sq) < NumSquares; sq++ {
		rookRelevantMasks[sq] = calcRookRelevantMask(sq)
		bishopRelevantMasks[sq] = calcBishopRelevantMask(sq)
		totalRookSize += 1 << uint(rookRelevantMasks[sq].PopCount())
		totalBishopSize += 1 << uint(bishopRelevantMasks[sq].PopCount())
	}

	rookAttackTable = make([]Bitboard, totalRookSize)
	bishopAttackTable = make([]Bitboard, totalBishopSize)

	rookOffset, bishopOffset := 0, 0
	for sq := Square(0); int(sq) < NumSquares; sq++ {
		rookMagics[sq] = findMagicForSquare(sq, rookRelevantMasks[sq], rookOffset, rookAttackTable, manualSingleRookAttacks)
		rookOffset += 1 << uint(rookRelevantMasks[sq].PopCount())

		bishopMagics[sq] = findMagicForSquare(sq, bishopRelevantMasks[sq], bishopOffset, bishopAttackTable, manualSingleBishopAttacks)
		bishopOffset += 1 << uint(bishopRelevantMasks[sq].PopCount())
	}
}

func rookAttacks(sq Square, occupied Bitboard) Bitboard {
	return rookAttackTable[rookMagics[sq].index(occupied)]
}

func bishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return bishopAttackTable[bishopMagics[sq].index(occupied)]
}

func queenAttacks(sq Square, occupied Bitboard) Bitboard {
	return rookAttacks(sq, occupied) | bishopAttacks(sq, occupied)
}
