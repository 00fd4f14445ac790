package searcher

import "connect4/game"

type crumb struct {
	parent *node // Parent with the focused child detached
	index  int   // Slot the focused child occupied in parent.children
}

// Zipper is a cursor with exclusive ownership of its focused node. The
// ancestors of the focus are held on path, each missing the child that was
// descended into, so no node refers back to its parent.
type Zipper struct {
	focus *node
	path  []crumb
}

// NewZipper returns a cursor on a fresh root carrying the empty move.
func NewZipper() *Zipper {
	return &Zipper{focus: newNode(game.NoMove)}
}

func (z *Zipper) IsRoot() bool {
	return len(z.path) == 0
}

func (z *Zipper) Depth() int {
	return len(z.path)
}

// Move returns the move leading to the focused node.
func (z *Zipper) Move() game.Move {
	return z.focus.move
}

// descend detaches the i-th child and moves the focus onto it. The last child
// takes its slot until ascend puts it back.
func (z *Zipper) descend(i int) {
	parent := z.focus
	child := parent.children[i]
	last := len(parent.children) - 1
	parent.children[i] = parent.children[last]
	parent.children[last] = nil
	parent.children = parent.children[:last]

	z.path = append(z.path, crumb{parent: parent, index: i})
	z.focus = child
}

// ascend reattaches the focus at its original index and moves the focus to
// the parent.
func (z *Zipper) ascend() {
	top := len(z.path) - 1
	c := z.path[top]
	z.path[top] = crumb{}
	z.path = z.path[:top]

	parent := c.parent
	parent.children = append(parent.children, z.focus)
	last := len(parent.children) - 1
	parent.children[c.index], parent.children[last] = parent.children[last], parent.children[c.index]
	z.focus = parent
}

// Select descends through fully expanded nodes by UCB1, playing each chosen
// move on pos. It stops on the first node with unexplored moves or a terminal
// position. Every node passed through, including the one stopped on, gains a
// visit.
func (z *Zipper) Select(pos *game.Position, rounds int) {
	for {
		z.focus.visits++
		if len(z.focus.children) < pos.LegalMoves().Len() || pos.IsTerminal() {
			return
		}
		z.descend(z.pickChild(rounds))
		pos.Play(z.focus.move)
	}
}

func (z *Zipper) pickChild(rounds int) int {
	return newUCB(rounds).pick(z.focus.children)
}

// Expand adds the next unexplored move as a child and focuses on it. Moves
// are taken in legal move order, so each is tried exactly once per node.
// Terminal positions are left as they are.
func (z *Zipper) Expand(pos *game.Position) {
	if pos.IsTerminal() {
		return
	}

	i := len(z.focus.children)
	move := pos.LegalMoves().Moves()[i]
	pos.Play(move)
	z.focus.children = append(z.focus.children, newNode(move))
	z.descend(i)
}

// Backpropagate credits outcome to every node from the focus up to the root,
// undoing each node's move on pos and flipping the outcome at every level.
// The root carries no move, so pos is back to the searched position when the
// focus returns to the root.
func (z *Zipper) Backpropagate(pos *game.Position, outcome Outcome) {
	for {
		if !z.IsRoot() {
			pos.Unplay(z.focus.move)
		}
		z.focus.rewards += outcome.Reward()
		outcome = outcome.Negate()

		if z.IsRoot() {
			return
		}
		z.ascend()
	}
}

// IntoTree returns the tree under a cursor focused at the root.
func (z *Zipper) IntoTree() *Tree {
	if !z.IsRoot() {
		panic("zipper is not focused at the root")
	}
	return &Tree{root: z.focus}
}
