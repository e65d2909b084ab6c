package entity

// RenderTask asks the processor to refresh the cached render of one card.
type RenderTask struct {
	CardID string `json:"card_id"`
	Hash   string `json:"hash,omitempty"`
}
