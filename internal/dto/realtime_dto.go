package dto

// TriggerRequest represents a server-side fan-out request: publish a named
// event to every subscriber of a channel. The payload carries identifiers
// only, never entity state.
type TriggerRequest struct {
	Channel string                 `json:"channel" binding:"required"`
	Event   string                 `json:"event" binding:"required"`
	Data    map[string]interface{} `json:"data"`
}
