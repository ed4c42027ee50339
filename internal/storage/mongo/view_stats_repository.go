package mongo

import (
	"context"
	"time"

	"github.com/devmetrics/gitpulse/internal/infrastructure/db"
	"github.com/devmetrics/gitpulse/internal/processing/shares"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ViewStatsRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

type viewDailyDoc struct {
	ShareID string `bson:"shareId"`
	Date    string `bson:"date"` // YYYY-MM-DD (UTC)
	Count   int64  `bson:"count"`
}

func NewViewStatsRepository(m *db.Mongo) (*ViewStatsRepository, error) {
	repo := &ViewStatsRepository{coll: m.Collection("share_views_daily"), now: time.Now}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "shareId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_shareId_date"),
		},
		{
			Keys:    bson.D{{Key: "shareId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("shareId_date_desc"),
		},
	})
	if err != nil {
		return nil, err
	}

	return repo, nil
}

func (r *ViewStatsRepository) IncDaily(ctx context.Context, shareID string, at time.Time) error {
	date := dateString(at.UTC())

	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"shareId": shareID, "date": date},
		bson.M{
			"$inc": bson.M{"count": 1},
			"$setOnInsert": bson.M{
				"shareId": shareID,
				"date":    date,
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// GetDaily returns one point per day for the trailing window, zero-filled
// for days with no views.
func (r *ViewStatsRepository) GetDaily(ctx context.Context, shareID string, days int) ([]shares.DailyCount, error) {
	if days <= 0 {
		days = 30
	}

	to := dateOnly(r.now().UTC())
	from := to.AddDate(0, 0, -(days - 1))

	cur, err := r.coll.Find(
		ctx,
		bson.M{
			"shareId": shareID,
			"date": bson.M{
				"$gte": dateString(from),
				"$lte": dateString(to),
			},
		},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	byDate := make(map[string]int64, days)
	for cur.Next(ctx) {
		var doc viewDailyDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		byDate[doc.Date] = doc.Count
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	out := make([]shares.DailyCount, 0, days)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		ds := dateString(day)
		out = append(out, shares.DailyCount{
			Day:   ds,
			Views: byDate[ds],
		})
	}
	return out, nil
}

func (r *ViewStatsRepository) DeleteByShareID(ctx context.Context, shareID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"shareId": shareID})
	return err
}

func dateString(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
