package searcher

import "math"

// ucb scores the children of a fully expanded node for the player choosing
// there. Child rewards are banked for the opponent, so they count negatively.
type ucb struct {
	exploration float64 // CSquared * ln(rounds)
}

func newUCB(rounds int) ucb {
	if rounds < 1 {
		panic("ucb needs at least one round")
	}
	return ucb{exploration: CSquared * math.Log(float64(rounds))}
}

// score is -(rewards/visits) + 2*sqrt(ln(rounds)/visits).
func (u ucb) score(child *node) float64 {
	return -child.expected() + math.Sqrt(u.exploration/float64(child.visits))
}

// pick returns the index of the highest scoring child, the first on ties.
func (u ucb) pick(children []*node) int {
	best := -1
	bestScore := math.Inf(-1)
	for i, child := range children {
		if s := u.score(child); s > bestScore {
			bestScore = s
			best = i
		}
	}
	return best
}
