package searcher

import "connect4/game"

type node struct {
	visits   int
	move     game.Move
	rewards  float64 // Sum of rewards, from the perspective of the player to move after move
	children []*node // Explored moves only, in expansion order
}

func newNode(move game.Move) *node {
	return &node{visits: 1, move: move}
}

func (n *node) expected() float64 {
	if n.visits == 0 {
		panic("cannot compute expected reward: 0 visits")
	}
	return n.rewards / float64(n.visits)
}
