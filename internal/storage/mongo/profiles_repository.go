package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/devmetrics/gitpulse/internal/infrastructure/db"
	"github.com/devmetrics/gitpulse/internal/processing/profiles"
	"github.com/devmetrics/gitpulse/internal/processing/shares"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProfilesRepository struct {
	coll *mongo.Collection
}

type profileDoc struct {
	UserID         string    `bson:"userId"`
	GitHubID       int64     `bson:"githubId"`
	GitHubUsername string    `bson:"githubUsername"`
	GitHubToken    string    `bson:"githubToken"`
	Avatar         string    `bson:"avatar,omitempty"`
	Theme          string    `bson:"theme,omitempty"`
	EmailUpdates   bool      `bson:"emailUpdates"`
	CreatedAt      time.Time `bson:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt"`
}

func NewProfilesRepository(m *db.Mongo) (*ProfilesRepository, error) {
	repo := &ProfilesRepository{coll: m.Collection("users")}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_userId"),
		},
		{
			Keys:    bson.D{{Key: "githubUsername", Value: 1}},
			Options: options.Index().SetName("githubUsername"),
		},
	})
	if err != nil {
		return nil, err
	}

	return repo, nil
}

func (r *ProfilesRepository) FindByID(ctx context.Context, userID string) (*profiles.Profile, error) {
	var doc profileDoc
	err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc)
	if err == nil {
		return mapProfileDoc(doc), nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, profiles.ErrNotFound
	}

	return nil, err
}

// Upsert writes the OAuth identity snapshot. Settings chosen before a
// re-login survive the upsert.
func (r *ProfilesRepository) Upsert(ctx context.Context, profile *profiles.Profile) error {
	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"userId": profile.UserID},
		bson.M{
			"$set": bson.M{
				"githubId":       profile.GitHubID,
				"githubUsername": profile.GitHubUsername,
				"githubToken":    profile.GitHubToken,
				"avatar":         profile.Avatar,
				"updatedAt":      profile.UpdatedAt.UTC(),
			},
			"$setOnInsert": bson.M{
				"userId":       profile.UserID,
				"theme":        profile.Theme,
				"emailUpdates": profile.EmailUpdates,
				"createdAt":    profile.CreatedAt.UTC(),
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *ProfilesRepository) UpdateSettings(ctx context.Context, userID string, patch profiles.SettingsPatch) (*profiles.Profile, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Theme != nil {
		set["theme"] = *patch.Theme
	}
	if patch.EmailUpdates != nil {
		set["emailUpdates"] = *patch.EmailUpdates
	}

	var doc profileDoc
	err := r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"userId": userID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return mapProfileDoc(doc), nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, profiles.ErrNotFound
	}

	return nil, err
}

// FindOwner resolves the slice of a profile the share path needs.
func (r *ProfilesRepository) FindOwner(ctx context.Context, userID string) (*shares.Owner, error) {
	profile, err := r.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &shares.Owner{
		UserID:      profile.UserID,
		Username:    profile.GitHubUsername,
		Avatar:      profile.Avatar,
		GitHubToken: profile.GitHubToken,
	}, nil
}

func mapProfileDoc(doc profileDoc) *profiles.Profile {
	return &profiles.Profile{
		UserID:         doc.UserID,
		GitHubID:       doc.GitHubID,
		GitHubUsername: doc.GitHubUsername,
		GitHubToken:    doc.GitHubToken,
		Avatar:         doc.Avatar,
		Theme:          doc.Theme,
		EmailUpdates:   doc.EmailUpdates,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
}
