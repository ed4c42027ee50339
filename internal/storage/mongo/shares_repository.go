package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/devmetrics/gitpulse/internal/infrastructure/db"
	"github.com/devmetrics/gitpulse/internal/processing/shares"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SharesRepository struct {
	coll *mongo.Collection
}

func NewSharesRepository(m *db.Mongo) (*SharesRepository, error) {
	repo := &SharesRepository{coll: m.Collection("shares")}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "shareId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_shareId"),
		},
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("ownerId_createdAt_desc"),
		},
	})
	if err != nil {
		return nil, err
	}

	return repo, nil
}

func (r *SharesRepository) Insert(ctx context.Context, share *shares.Share) error {
	_, err := r.coll.InsertOne(ctx, share)
	if err == nil {
		return nil
	}

	if mongo.IsDuplicateKeyError(err) {
		return shares.ErrIDTaken
	}

	return err
}

func (r *SharesRepository) FindByID(ctx context.Context, shareID string) (*shares.Share, error) {
	var share shares.Share
	err := r.coll.FindOne(ctx, bson.M{"shareId": shareID}).Decode(&share)
	if err == nil {
		return &share, nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, shares.ErrNotFound
	}

	return nil, err
}

func (r *SharesRepository) ListByOwner(ctx context.Context, ownerID string) ([]shares.Share, error) {
	cur, err := r.coll.Find(
		ctx,
		bson.M{"ownerId": ownerID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]shares.Share, 0)
	for cur.Next(ctx) {
		var share shares.Share
		if err := cur.Decode(&share); err != nil {
			return nil, err
		}
		out = append(out, share)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SharesRepository) Update(ctx context.Context, share *shares.Share) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"shareId": share.ShareID}, share)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return shares.ErrNotFound
	}
	return nil
}

func (r *SharesRepository) Delete(ctx context.Context, shareID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"shareId": shareID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return shares.ErrNotFound
	}
	return nil
}

// IncrementViewCount bumps viewCount atomically and returns the
// post-increment value.
func (r *SharesRepository) IncrementViewCount(ctx context.Context, shareID string) (int64, error) {
	var share shares.Share
	err := r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"shareId": shareID},
		bson.M{"$inc": bson.M{"viewCount": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&share)
	if err == nil {
		return share.ViewCount, nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, shares.ErrNotFound
	}

	return 0, err
}
