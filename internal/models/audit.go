package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditEntry is a single recorded admin action, stored in MongoDB.
type AuditEntry struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ActorID   int64              `json:"actorId" bson:"actor_id"`
	Action    string             `json:"action" bson:"action"`
	Entity    string             `json:"entity" bson:"entity"`
	EntityID  string             `json:"entityId" bson:"entity_id"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
}
