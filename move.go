package chesscore

import "fmt"

// MoveFlag distinguishes the four move shapes that need special apply/unmake
// handling beyond "piece goes from src to dst".
type MoveFlag uint16

const (
	NormalMove    MoveFlag = 0
	PromotionMove MoveFlag = 1
	EnPassantMove MoveFlag = 2
	CastlingMove  MoveFlag = 3
)

// Move packs a single ply into 16 bits: dst(6) | src(6) | promotion(2) |
// flag(2), matching spec.md §4.1's wire-sized move representation.
type Move uint16

const (
	moveDstShift   = 10
	moveSrcShift   = 4
	movePromoShift = 2

	moveSquareMask = 0x3F
	movePromoMask  = 0x3
	moveFlagMask   = 0x3
)

// promotionPieceTypes indexes the 2-bit promotion field to a PieceType:
// only underpromotion targets plus queen need encoding (0..3).
var promotionPieceTypes = [4]PieceType{Knight, Bishop, Rook, Queen}

func promotionCode(pt PieceType) uint16 {
	for i, p := range promotionPieceTypes {
		if p == pt {
			return uint16(i)
		}
	}
	return 0
}

// NewMove builds a Move with an explicit promotion piece type (ignored
// unless flag == PromotionMove).
func NewMove(dst, src Square, promotion PieceType, flag MoveFlag) Move {
	return Move(uint16(dst)<<moveDstShift |
		uint16(src)<<moveSrcShift |
		promotionCode(promotion)<<movePromoShift |
		uint16(flag))
}

// NewNonPromotionMove builds a Move with no promotion payload.
func NewNonPromotionMove(dst, src Square, flag MoveFlag) Move {
	return NewMove(dst, src, Knight, flag)
}

// Dst returns the destination square.
func (m Move) Dst() Square {
	return Square(uint16(m) >> moveDstShift & moveSquareMask)
}

// Src returns the source square.
func (m Move) Src() Square {
	return Square(uint16(m) >> moveSrcShift & moveSquareMask)
}

// Flag returns the move's special-case flag.
func (m Move) Flag() MoveFlag {
	return MoveFlag(uint16(m) & moveFlagMask)
}

// Promotion returns the promotion piece type. Only meaningful if Flag() ==
// PromotionMove.
func (m Move) Promotion() PieceType {
	return promotionPieceTypes[uint16(m)>>movePromoShift&movePromoMask]
}

// IsNull reports whether m is the zero Move (A8->A8, NormalMove): never a
// legal move, used as a sentinel for "no move" in contexts and root nodes.
func (m Move) IsNull() bool {
	return m == 0
}

func (m Move) String() string {
	switch m.Flag() {
	case PromotionMove:
		return fmt.Sprintf("%s%s=%s", m.Src(), m.Dst(), m.Promotion())
	case EnPassantMove:
		return fmt.Sprintf("%s%sep", m.Src(), m.Dst())
	case CastlingMove:
		return fmt.Sprintf("%s%sO", m.Src(), m.Dst())
	default:
		return fmt.Sprintf("%s%s", m.Src(), m.Dst())
	}
}
