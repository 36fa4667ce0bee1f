package mq

import (
	"github.com/rs/zerolog/log"
)

type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id"`
	ItemType   string `json:"item_type"`
}

// Emit hands a domain event to the (future) indexing pipeline.
// Fire-and-forget; chat flow never depends on it.
func Emit(eventName string, content Index) {
	log.Debug().Str("event", eventName).Interface("content", content).Msg("emitted")
}
