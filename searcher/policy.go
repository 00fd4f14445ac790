package searcher

// Hyperparameters for MCTS

const CSquared = 4.0 // Exploration constant (c = 2)

const WIN = 1.0   // Reward for winning outcome
const LOSS = -WIN // Reward for loss outcome (negate from opponent perspective)
const DRAW = 0.0  // Reward for drawn outcome

// CheckInterval is the number of rounds between checks of the time budget
// and the stop flag.
const CheckInterval = 1024
