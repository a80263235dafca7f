package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SkillNet-official/telegram-reminder-bot/internal/domain"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/shared/mongodb"
)

const remindersCollection = "reminders"

// ReminderRepository is the durable reminder store. The client writes with
// majority write concern, so Put and Remove are durable before they return.
type ReminderRepository struct {
	client *mongodb.MongoClient
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(client *mongodb.MongoClient) *ReminderRepository {
	return &ReminderRepository{client: client}
}

// EnsureIndexes creates necessary indexes for optimal query performance
func (r *ReminderRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "fire_at", Value: 1},
			},
			Options: options.Index().SetName("owner_fire_at_idx"),
		},
	}

	return r.client.CreateIndexes(ctx, remindersCollection, indexes)
}

// Put inserts or overwrites the reminder keyed by its id. Resubmitting the
// same (owner, fire time) pair is an idempotent overwrite, replacing the
// label rather than failing.
func (r *ReminderRepository) Put(ctx context.Context, reminder *domain.Reminder) error {
	filter := bson.M{"_id": reminder.ID}
	opts := options.Replace().SetUpsert(true)

	_, err := r.client.Collection(remindersCollection).ReplaceOne(ctx, filter, reminder, opts)
	return err
}

// Remove deletes a reminder by id. Returns false when no such reminder
// exists; deletion is idempotent, not an error.
func (r *ReminderRepository) Remove(ctx context.Context, id string) (bool, error) {
	res, err := r.client.Collection(remindersCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// FindByID finds a reminder by id. Returns (nil, nil) when absent: the fire
// path uses absence to detect deletion racing a pending timer.
func (r *ReminderRepository) FindByID(ctx context.Context, id string) (*domain.Reminder, error) {
	var reminder domain.Reminder
	err := r.client.Collection(remindersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&reminder)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}

// ListByOwner returns the owner's reminders ordered by fire time ascending.
func (r *ReminderRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Reminder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fire_at", Value: 1}})
	cursor, err := r.client.Collection(remindersCollection).Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reminders []*domain.Reminder
	if err = cursor.All(ctx, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}

// LoadAll returns every stored reminder. Used only at startup reconciliation
// and by the expiry sweep.
func (r *ReminderRepository) LoadAll(ctx context.Context) ([]*domain.Reminder, error) {
	cursor, err := r.client.Collection(remindersCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reminders []*domain.Reminder
	if err = cursor.All(ctx, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}
