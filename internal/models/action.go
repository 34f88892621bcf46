package models

// Action captures a player's in-game move after the transport layer has
// decoded it. CardIndex and CardIndices are only meaningful for the action
// types that carry them.
type Action struct {
	Type        string `json:"type"`
	CardIndex   int    `json:"cardIndex"`
	CardIndices []int  `json:"cardIndices"`
}

// Action types routed into a room once the connection is seated.
const (
	ActionStartGame          = "startGame"
	ActionSelectInitialCards = "selectInitialCards"
	ActionDrawFromPile       = "drawFromPile"
	ActionDrawFromDiscard    = "drawFromDiscard"
	ActionRevealCard         = "revealCard"
	ActionSwapCard           = "swapCard"
	ActionDiscardDrawn       = "discardDrawn"
	ActionKnock              = "knock"
	ActionNewRound           = "newRound"
)
