package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chesscore/chesscore"
	"github.com/chesscore/chesscore/engine/enginecfg"
	"github.com/chesscore/chesscore/internal/xlog"
)

var logger = xlog.Get("chesscore/engine/mcts")

// MCTSNode is one node of the search tree: the position reached by playing
// incomingMove from the parent, plus the UCT/PUCT bookkeeping (visits,
// valueSum, prior) and ownership links. Go's garbage collector handles the
// parent<->children reference cycle without help, so parent is a plain
// pointer rather than a weak reference — it's never itself a source of a
// leak, only overwritten to nil on detach (TakeBestChild/TakeChildWithMove)
// so a pruned subtree has nothing pointing back into the live tree.
type MCTSNode struct {
	stateAfterMove chesscore.State
	incomingMove   chesscore.Move // null (IsNull()) at the root
	visits         uint32
	valueSum       float64
	prior          float64
	expanded       bool
	parent         *MCTSNode
	children       []*MCTSNode
}

func newNode(state chesscore.State, incomingMove chesscore.Move, prior float64, parent *MCTSNode) *MCTSNode {
	return &MCTSNode{
		stateAfterMove: state,
		incomingMove:   incomingMove,
		prior:          prior,
		parent:         parent,
	}
}

// State returns the position this node represents.
func (n *MCTSNode) State() *chesscore.State { return &n.stateAfterMove }

// IncomingMove returns the move that produced this node, or a null Move at
// the root.
func (n *MCTSNode) IncomingMove() chesscore.Move { return n.incomingMove }

// Visits returns the number of times this node has been backed up through.
func (n *MCTSNode) Visits() uint32 { return n.visits }

// Children returns this node's children (empty until expanded).
func (n *MCTSNode) Children() []*MCTSNode { return n.children }

// flipValues negates valueSum across the whole subtree rooted at n, used to
// re-anchor perspective when a subtree is detached and promoted to root
// (the new root's side to move is the old root's opponent).
func (n *MCTSNode) flipValues() {
	n.valueSum = -n.valueSum
	for _, c := range n.children {
		c.flipValues()
	}
}

// expand turns a freshly evaluated leaf into an internal node: one child
// per (move, prior) pair in policy, each holding the state reached by
// playing that move. An empty policy means the position is terminal; the
// node is still marked expanded (so repeated selection finds it again
// instead of re-evaluating), and the state's termination is resolved.
func (n *MCTSNode) expand(policy []PolicyMove) {
	n.expanded = true
	if len(policy) == 0 {
		n.stateAfterMove.AssumeAndUpdateTermination()
		return
	}
	n.children = make([]*MCTSNode, 0, len(policy))
	for _, pm := range policy {
		childState := n.stateAfterMove.Clone()
		childState.MakeMove(pm.Move)
		n.children = append(n.children, newNode(childState, pm.Move, pm.Prior, n))
	}
}

// backup propagates a leaf evaluation up to the root, flipping sign at
// every step: the value is always stored from the perspective of the side
// whose move produced that node, so a value good for the leaf's mover is
// bad for the node above it.
func (n *MCTSNode) backup(value float64) {
	v := value
	for node := n; node != nil; node = node.parent {
		node.visits++
		node.valueSum -= v
		v = -v
	}
}

func (n *MCTSNode) metadata() string {
	move := "root"
	if !n.incomingMove.IsNull() {
		move = n.incomingMove.String()
	}
	return fmt.Sprintf("MCTSNode(move: %s, prior: %.3f, visits: %d, value: %.3f)",
		move, n.prior, n.visits, n.valueSum)
}

// DebugTree renders the subtree rooted at n down to maxDepth levels, one
// line per node, indented by depth.
func (n *MCTSNode) DebugTree(maxDepth int) string {
	var b strings.Builder
	n.debugTree(&b, 0, maxDepth)
	return b.String()
}

func (n *MCTSNode) debugTree(b *strings.Builder, depth, maxDepth int) {
	b.WriteString(strings.Repeat("| ", depth))
	b.WriteString(n.metadata())
	b.WriteByte('\n')
	if depth >= maxDepth {
		return
	}
	for _, c := range n.children {
		c.debugTree(b, depth+1, maxDepth)
	}
}

func (n *MCTSNode) String() string { return n.DebugTree(1) }

// ScoreFunc ranks a child during selection, given the child node, its
// parent's visit count, and the search's exploration constant.
type ScoreFunc func(node *MCTSNode, parentVisits uint32, c float64) float64

// UCTScore is the classic UCB1-for-trees score: unvisited nodes score
// +Inf (guaranteeing every child is tried once before any is revisited).
func UCTScore(node *MCTSNode, parentVisits uint32, c float64) float64 {
	if node.visits == 0 {
		return math.Inf(1)
	}
	exploitation := node.valueSum / float64(node.visits)
	exploration := c * math.Sqrt(math.Log(float64(parentVisits))/float64(node.visits))
	return exploitation + exploration
}

// PUCTScore is the prior-weighted AlphaZero-style score: exploration is
// driven by the evaluator's prior even before a node has been visited.
func PUCTScore(node *MCTSNode, parentVisits uint32, c float64) float64 {
	exploration := c * node.prior * math.Sqrt(float64(parentVisits)) / (1 + float64(node.visits))
	if node.visits == 0 {
		return exploration
	}
	return node.valueSum/float64(node.visits) + exploration
}

// selectBestChild returns the child maximizing score(child, n.visits, c),
// or nil if n has no children (either never expanded, or expanded-but-
// terminal). Ties are broken by keeping the first maximal child found,
// which is arbitrary but deterministic given a fixed children order.
func (n *MCTSNode) selectBestChild(score ScoreFunc, c float64) *MCTSNode {
	var best *MCTSNode
	var bestScore float64
	for _, child := range n.children {
		s := score(child, n.visits, c)
		if best == nil || s > bestScore {
			best, bestScore = child, s
		}
	}
	return best
}

// MCTS drives single-player Monte Carlo Tree Search over chesscore.State,
// with a pluggable Evaluator for leaf evaluation and a pluggable ScoreFunc
// (UCTScore or PUCTScore) for selection.
type MCTS struct {
	root             *MCTSNode
	explorationParam float64
	evaluator        Evaluator
	score            ScoreFunc
}

// NewMCTS constructs a search tree rooted at state. state is cloned before
// storage, so the tree never aliases the caller's positionCounts map.
func NewMCTS(state chesscore.State, explorationParam float64, evaluator Evaluator, score ScoreFunc) *MCTS {
	return &MCTS{
		root:             newNode(state.Clone(), chesscore.Move(0), 0, nil),
		explorationParam: explorationParam,
		evaluator:        evaluator,
		score:            score,
	}
}

// NewMCTSFromConfig builds a search tree the same way NewMCTS does, but
// takes its exploration constant from cfg (typically loaded once at
// startup via enginecfg.Load) instead of a bare float.
func NewMCTSFromConfig(state chesscore.State, cfg enginecfg.SearchConfig, evaluator Evaluator, score ScoreFunc) *MCTS {
	return NewMCTS(state, cfg.ExplorationConstant, evaluator, score)
}

// Root returns the current root node.
func (t *MCTS) Root() *MCTSNode { return t.root }

func (t *MCTS) selectLeaf() *MCTSNode {
	node := t.root
	for {
		child := node.selectBestChild(t.score, t.explorationParam)
		if child == nil {
			return node
		}
		node = child
	}
}

// Run performs n iterations of selection, leaf evaluation, expansion, and
// backup. Safe to call when the root is terminal: each iteration simply
// re-selects the root and backs up its (constant) terminal value.
func (t *MCTS) Run(n int) {
	for i := 0; i < n; i++ {
		leaf := t.selectLeaf()

		var eval Evaluation
		if leaf.expanded || leaf.stateAfterMove.IsGameOver() {
			eval = Evaluation{Value: terminalValue(&leaf.stateAfterMove, leaf.stateAfterMove.SideToMove())}
		} else {
			eval = t.evaluator.Evaluate(&leaf.stateAfterMove)
		}

		leaf.expand(eval.Policy)
		leaf.backup(eval.Value)

		logger.Debugf("iteration %d: root visits=%d value=%.3f", i, t.root.visits, t.root.valueSum)
	}
}

// RunConfig runs cfg.Iterations iterations, the per-move search budget a
// caller reads out of its SearchConfig instead of hard-coding.
func (t *MCTS) RunConfig(cfg enginecfg.SearchConfig) {
	t.Run(cfg.Iterations)
}

// TakeBestChild promotes the child with the largest visit count to root,
// detaching it from its parent and re-anchoring its subtree's perspective.
// Returns ErrNoChildren if the root has no children (it's terminal, or
// Run has never been called).
func (t *MCTS) TakeBestChild() (chesscore.State, chesscore.Move, error) {
	var best *MCTSNode
	for _, child := range t.root.children {
		if best == nil || child.visits > best.visits {
			best = child
		}
	}
	if best == nil {
		return chesscore.State{}, 0, chesscore.ErrNoChildren
	}
	return t.promote(best), best.incomingMove, nil
}

// TakeChildWithMove promotes the child whose incoming move equals mv. If
// the root hasn't been expanded yet and expandIfNeeded is true, it is
// expanded first (one evaluator call) before searching for mv. Returns
// ErrMoveNotFound if no child matches.
func (t *MCTS) TakeChildWithMove(mv chesscore.Move, expandIfNeeded bool) (chesscore.State, error) {
	if !t.root.expanded {
		if !expandIfNeeded {
			return chesscore.State{}, chesscore.ErrNoChildren
		}
		eval := t.evaluator.Evaluate(&t.root.stateAfterMove)
		t.root.expand(eval.Policy)
	}
	for _, child := range t.root.children {
		if child.incomingMove == mv {
			return t.promote(child), nil
		}
	}
	return chesscore.State{}, chesscore.ErrMoveNotFound
}

// promote detaches child from its parent, re-anchors its subtree's
// perspective, and installs it as the new root. The returned State is a
// Clone of the node's internal state, not a raw field copy: State carries
// a positionCounts map, and a bare struct copy would alias that map with
// the node still owned by the tree.
func (t *MCTS) promote(child *MCTSNode) chesscore.State {
	child.parent = nil
	child.flipValues()
	t.root = child
	return child.stateAfterMove.Clone()
}

// PlayGame repeatedly runs itersPerMove iterations and advances the root
// via TakeBestChild, up to maxDepth plies, and returns the terminal value
// of the game from the perspective of the side to move when PlayGame was
// called. Returns 0 if maxDepth is reached without the game ending.
func (t *MCTS) PlayGame(itersPerMove, maxDepth int) float64 {
	initialSide := t.root.stateAfterMove.SideToMove()
	for depth := 0; depth < maxDepth; depth++ {
		t.Run(itersPerMove)
		if _, _, err := t.TakeBestChild(); err != nil {
			return terminalValue(&t.root.stateAfterMove, initialSide)
		}
	}
	return 0
}
