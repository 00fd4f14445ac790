package searcher

import (
	"connect4/game"
	"math"
)

// Tree is a search tree at rest. Use Zipper to walk and grow it.
type Tree struct {
	root *node
}

type ChildStats struct {
	Move    game.Move
	Visits  int
	Rewards float64
}

func NewTree() *Tree {
	return &Tree{root: newNode(game.NoMove)}
}

// Zipper hands the root over to a cursor. The tree is empty until the cursor
// is turned back with IntoTree.
func (t *Tree) Zipper() *Zipper {
	if t.root == nil {
		panic("tree root is held by a zipper")
	}
	z := &Zipper{focus: t.root}
	t.root = nil
	return z
}

// Best returns the move of the root child with the highest expected reward.
// Ties go to the first child explored.
func (t *Tree) Best() game.Move {
	if len(t.root.children) == 0 {
		panic("node has no children")
	}

	best := game.NoMove
	maxValue := math.Inf(-1)
	for _, child := range t.root.children {
		if v := child.expected(); v > maxValue {
			maxValue = v
			best = child.move
		}
	}
	return best
}

// FlipRootPerspective negates the rewards of the root's children. Each child
// banks rewards for the player to move after its move; Best reads them for
// the player to move at the root.
func (t *Tree) FlipRootPerspective() {
	for _, child := range t.root.children {
		child.rewards = -child.rewards
	}
}

// Children reports the statistics of the root's children in expansion order.
func (t *Tree) Children() []ChildStats {
	stats := make([]ChildStats, 0, len(t.root.children))
	for _, child := range t.root.children {
		stats = append(stats, ChildStats{Move: child.move, Visits: child.visits, Rewards: child.rewards})
	}
	return stats
}
