package chesscore

// Precomputed file and rank masks, built once from Square/File/Rank
// rather than hand-transcribed hex constants (matching
// original_source/src/masks.rs's approach of deriving masks from square
// iteration instead of inlining magic numbers).

var fileMasks [8]Bitboard // index by File(): A=0 .. H=7
var rankMasks [8]Bitboard // index by Rank(): rank1=0 .. rank8=7

const (
	fileA = 0
	fileB = 1
	fileG = 6
	fileH = 7

	rank1 = 0
	rank2 = 1
	rank3 = 2
	rank4 = 3
	rank5 = 4
	rank6 = 5
	rank7 = 6
	rank8 = 7
)

var notFileA, notFileH, notFileAB, notFileGH Bitboard

// buildMasks fills fileMasks/rankMasks/notFile* from Square iteration rather
// than hand-transcribed hex constants. Called once from the package's single
// bootstrap init() in tables.go, strictly before buildStepAttackTables and
// buildMagicTables, both of which read these masks.
func buildMasks() {
	for sq := Square(0); int(sq) < NumSquares; sq++ {
		fileMasks[sq.File()] |= sq.Mask()
		rankMasks[sq.Rank()] |= sq.Mask()
	}
	notFileA = ^fileMasks[fileA]
	notFileH = ^fileMasks[fileH]
	notFileAB = ^(fileMasks[fileA] | fileMasks[fileB])
	notFileGH = ^(fileMasks[fileG] | fileMasks[fileH])
}
