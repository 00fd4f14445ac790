package searcher

import (
	"connect4/game"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func moveAt(idx int) game.Move {
	return game.NewMove(game.Idx(idx))
}

func TestZipperDescendAscend(t *testing.T) {
	t.Run("ascending restores the child at its index", func(t *testing.T) {
		for i := range 4 {
			children := []*node{newNode(moveAt(0)), newNode(moveAt(1)), newNode(moveAt(2)), newNode(moveAt(3))}
			root := &node{children: append([]*node{}, children...)}
			z := &Zipper{focus: root}

			z.descend(i)
			require.Equal(t, children[i], z.focus, "Focus should be the chosen child")
			require.Equal(t, 1, z.Depth())
			require.Len(t, root.children, 3, "Focused child should be detached from its parent")
			require.NotContains(t, root.children, children[i])

			z.ascend()
			require.True(t, z.IsRoot())
			require.Equal(t, root, z.focus)
			require.Equal(t, children, root.children, "Children order should be restored")
		}
	})

	t.Run("nested descents unwind in order", func(t *testing.T) {
		grandChild := newNode(moveAt(9))
		child := &node{move: moveAt(1), children: []*node{newNode(moveAt(8)), grandChild}}
		root := &node{children: []*node{newNode(moveAt(0)), child, newNode(moveAt(2))}}
		z := &Zipper{focus: root}

		z.descend(1)
		z.descend(1)
		require.Equal(t, grandChild, z.focus)
		require.Equal(t, 2, z.Depth())

		z.ascend()
		z.ascend()
		require.Equal(t, child, root.children[1])
		require.Equal(t, grandChild, child.children[1])
	})
}

func TestSelect(t *testing.T) {
	t.Run("stops at a node with unexplored moves", func(t *testing.T) {
		pos := game.NewPosition()
		z := NewZipper()
		z.focus.children = []*node{newNode(moveAt(0))}

		z.Select(&pos, 1)

		require.True(t, z.IsRoot(), "Root with unexplored moves should be selected")
		require.Equal(t, 2, z.focus.visits, "Selected node should gain a visit")
		require.Equal(t, game.NewPosition(), pos, "Position should not change")
	})

	t.Run("stops at a terminal position", func(t *testing.T) {
		pos := game.NewCustomPosition(0, game.FileA&0xffffffff, game.Red)
		start := pos
		z := NewZipper()

		z.Select(&pos, 1)
		z.Expand(&pos)

		require.True(t, z.IsRoot(), "Terminal node should not be expanded")
		require.Empty(t, z.focus.children)
		require.Equal(t, start, pos)
	})

	t.Run("picks the child that is worst for the opponent", func(t *testing.T) {
		z := &Zipper{focus: &node{
			visits: 2,
			children: []*node{
				{visits: 1, rewards: 1, move: moveAt(0)},
				{visits: 1, rewards: -1, move: moveAt(1)},
			},
		}}

		require.Equal(t, 1, z.pickChild(2), "Child with the lowest opponent reward should be picked")
	})

	t.Run("descends through a fully expanded root", func(t *testing.T) {
		pos := game.NewPosition()
		z := NewZipper()
		for _, mv := range pos.LegalMoves().Moves() {
			z.focus.children = append(z.focus.children, newNode(mv))
		}
		z.focus.children[5].rewards = -1 // Opponent lost from here

		z.Select(&pos, 8)

		require.Equal(t, 1, z.Depth(), "Selection should stop below the root")
		require.Equal(t, moveAt(5), z.Move())
		require.Equal(t, game.Idx(5), pos.Occupancy[game.Yellow], "Selected move should be played")
		require.Equal(t, 2, z.focus.visits)
	})
}

func TestExpand(t *testing.T) {
	t.Run("children follow legal move order", func(t *testing.T) {
		pos := game.NewPosition()
		z := NewZipper()
		rng := rand.New(rand.NewSource(3))

		for rounds := 1; rounds <= game.Columns; rounds++ {
			z.Select(&pos, rounds)
			z.Expand(&pos)
			require.Equal(t, 1, z.Depth(), "Each round should expand a root child")
			z.Backpropagate(&pos, simulate(&pos, rng))
		}

		tree := z.IntoTree()
		for i, child := range tree.Children() {
			require.Equal(t, i, child.Move.Column(), "Child %d should play column %d", i, i)
			require.Equal(t, 1, child.Visits, "New children start with one visit")
		}
	})

	t.Run("new child is focused and played", func(t *testing.T) {
		pos := game.NewPosition()
		z := NewZipper()

		z.Expand(&pos)

		require.Equal(t, 1, z.Depth())
		require.Equal(t, moveAt(0), z.Move())
		require.Equal(t, game.Red, pos.Turn)
		require.Zero(t, z.focus.rewards)
	})
}

func TestBackpropagate(t *testing.T) {
	t.Run("alternates rewards and restores the position", func(t *testing.T) {
		pos := game.NewPosition()
		start := pos
		z := NewZipper()
		z.Expand(&pos)
		child := z.focus

		z.Backpropagate(&pos, Won)

		require.True(t, z.IsRoot())
		require.Equal(t, WIN, child.rewards, "Expanded node should bank the outcome")
		require.Equal(t, LOSS, z.focus.rewards, "Parent should bank the negated outcome")
		require.Equal(t, start, pos, "Position should be restored")
	})

	t.Run("draws are neutral", func(t *testing.T) {
		pos := game.NewPosition()
		z := NewZipper()
		z.Expand(&pos)
		child := z.focus

		z.Backpropagate(&pos, Drawn)

		require.Equal(t, DRAW, child.rewards)
		require.Equal(t, DRAW, z.focus.rewards)
	})
}

func TestRoundLeavesPositionUntouched(t *testing.T) {
	starts := []game.Position{
		game.NewPosition(),
		game.NewCustomPosition(0x0000000000010206, 0x0000000000000109, game.Yellow),
	}
	starts[1].Turn = game.Red
	rng := rand.New(rand.NewSource(7))

	for _, start := range starts {
		require.NoError(t, start.Validate())
		pos := start
		z := NewZipper()

		for rounds := 1; rounds <= 500; rounds++ {
			z.Select(&pos, rounds)
			z.Expand(&pos)
			z.Backpropagate(&pos, simulate(&pos, rng))

			require.Equal(t, start, pos, "Round %d should leave the position unchanged", rounds)
			require.True(t, z.IsRoot(), "Round %d should end at the root", rounds)
		}
	}
}

func TestSimulate(t *testing.T) {
	t.Run("restores the position", func(t *testing.T) {
		rng := rand.New(rand.NewSource(11))
		pos := game.NewPosition()
		start := pos

		for range 100 {
			simulate(&pos, rng)
			require.Equal(t, start, pos)
		}
	})

	t.Run("terminal position is scored for the player to move", func(t *testing.T) {
		rng := rand.New(rand.NewSource(11))
		pos := game.NewCustomPosition(0, game.FileA&0xffffffff, game.Red)

		require.Equal(t, Lost, simulate(&pos, rng), "Red to move after Yellow's four should lose")
	})
}

func TestTree(t *testing.T) {
	t.Run("best maximises expected reward", func(t *testing.T) {
		tree := &Tree{root: &node{children: []*node{
			{visits: 4, rewards: 1, move: moveAt(0)},
			{visits: 2, rewards: 1, move: moveAt(1)},
			{visits: 10, rewards: 3, move: moveAt(2)},
		}}}

		require.Equal(t, moveAt(1), tree.Best())
	})

	t.Run("ties go to the first child", func(t *testing.T) {
		tree := &Tree{root: &node{children: []*node{
			{visits: 2, rewards: 1, move: moveAt(3)},
			{visits: 4, rewards: 2, move: moveAt(4)},
		}}}

		require.Equal(t, moveAt(3), tree.Best())
	})

	t.Run("flip negates root children only", func(t *testing.T) {
		grandChild := &node{visits: 1, rewards: 1}
		tree := &Tree{root: &node{rewards: 5, children: []*node{
			{visits: 2, rewards: 2, children: []*node{grandChild}},
			{visits: 2, rewards: -1},
		}}}

		tree.FlipRootPerspective()

		require.Equal(t, -2.0, tree.root.children[0].rewards)
		require.Equal(t, 1.0, tree.root.children[1].rewards)
		require.Equal(t, 5.0, tree.root.rewards, "Root should be untouched")
		require.Equal(t, 1.0, grandChild.rewards, "Grandchildren should be untouched")
	})

	t.Run("best panics without children", func(t *testing.T) {
		require.Panics(t, func() { NewTree().Best() })
	})

	t.Run("zipper takes the root", func(t *testing.T) {
		tree := NewTree()
		z := tree.Zipper()

		require.Panics(t, func() { tree.Zipper() }, "Root should be owned by one zipper")

		pos := game.NewPosition()
		z.Expand(&pos)
		require.Panics(t, func() { z.IntoTree() }, "Only a root cursor can become a tree")
	})
}
