// Package audit records admin actions for later review.
package audit

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tghbhs/science-carnival/backend/internal/models"
)

// Recorder persists audit entries. Mongo implements it for production and
// Memory for tests.
type Recorder interface {
	Record(ctx context.Context, e *models.AuditEntry) error
	Recent(ctx context.Context, limit int64) ([]models.AuditEntry, error)
}

// Log records an admin action. Failures are logged and otherwise ignored so
// a broken audit store never blocks the action itself.
func Log(ctx context.Context, rec Recorder, actorID int64, action, entity string, entityID int64) {
	if rec == nil {
		return
	}
	e := &models.AuditEntry{
		ActorID:  actorID,
		Action:   action,
		Entity:   entity,
		EntityID: strconv.FormatInt(entityID, 10),
	}
	if err := rec.Record(ctx, e); err != nil {
		log.Printf("audit record %s %s/%s: %v", action, entity, e.EntityID, err)
	}
}

// Mongo stores audit entries in a MongoDB collection.
type Mongo struct {
	col *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{col: db.Collection("audit")}
}

func (m *Mongo) Record(ctx context.Context, e *models.AuditEntry) error {
	e.CreatedAt = time.Now()
	if _, err := m.col.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("mongo insert: %w", err)
	}
	return nil
}

func (m *Mongo) Recent(ctx context.Context, limit int64) ([]models.AuditEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []models.AuditEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Memory is an in-process Recorder for tests.
type Memory struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Record(_ context.Context, e *models.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = primitive.NewObjectID()
	e.CreatedAt = time.Now()
	m.entries = append(m.entries, *e)
	return nil
}

func (m *Memory) Recent(_ context.Context, limit int64) ([]models.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := []models.AuditEntry{}
	for i := len(m.entries) - 1; i >= 0 && int64(len(entries)) < limit; i-- {
		entries = append(entries, m.entries[i])
	}
	return entries, nil
}
