package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SkillNet-official/telegram-reminder-bot/internal/domain"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/shared/mongodb"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/timezone"
)

const timezonesCollection = "user_timezones"

// PreferencesRepository stores per-owner timezone preferences
type PreferencesRepository struct {
	client *mongodb.MongoClient
}

// NewPreferencesRepository creates a new preferences repository
func NewPreferencesRepository(client *mongodb.MongoClient) *PreferencesRepository {
	return &PreferencesRepository{client: client}
}

// GetTimezone retrieves an owner's timezone, defaulting to UTC when unset.
func (r *PreferencesRepository) GetTimezone(ctx context.Context, ownerID string) (string, error) {
	var pref domain.UserTimezone
	err := r.client.Collection(timezonesCollection).FindOne(ctx, bson.M{"_id": ownerID}).Decode(&pref)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return timezone.Default, nil
	}
	if err != nil {
		return "", err
	}
	return pref.Timezone, nil
}

// SetTimezone stores an owner's timezone preference. Existing reminders are
// not re-resolved; the preference applies to future input only.
func (r *PreferencesRepository) SetTimezone(ctx context.Context, ownerID, tz string) error {
	pref := domain.UserTimezone{
		OwnerID:   ownerID,
		Timezone:  tz,
		UpdatedAt: time.Now().UTC(),
	}

	filter := bson.M{"_id": ownerID}
	opts := options.Replace().SetUpsert(true)

	_, err := r.client.Collection(timezonesCollection).ReplaceOne(ctx, filter, pref, opts)
	return err
}
