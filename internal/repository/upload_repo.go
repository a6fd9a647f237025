package repository

import (
	"chatlens/internal/model"
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultHistoryLimit caps ListBySession when no limit is given.
const DefaultHistoryLimit = 20

// UploadRepo is the audit log of chat submissions. It stores metadata only,
// never the chat or the analysis payload.
type UploadRepo interface {
	Insert(ctx context.Context, record *model.UploadRecord) error
	// ListBySession returns the newest records first.
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*model.UploadRecord, error)
}

type uploadRepo struct {
	collection *mongo.Collection
}

// NewUploadRepo creates the MongoDB audit log with its indexes
func NewUploadRepo(db *mongo.Database) UploadRepo {
	repo := &uploadRepo{
		collection: db.Collection("uploads"),
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *uploadRepo) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "uploadId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "sessionId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warn().Err(err).Str("collection", r.collection.Name()).Msg("Failed to create indexes")
		return
	}
	log.Debug().Str("collection", r.collection.Name()).Msg("Indexes ensured")
}

func (r *uploadRepo) Insert(ctx context.Context, record *model.UploadRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

func (r *uploadRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]*model.UploadRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []*model.UploadRecord{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

type noopUploadRepo struct{}

// NewNoopUploadRepo is used when MongoDB is disabled. It records nothing.
func NewNoopUploadRepo() UploadRepo {
	return noopUploadRepo{}
}

func (noopUploadRepo) Insert(ctx context.Context, record *model.UploadRecord) error {
	return nil
}

func (noopUploadRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]*model.UploadRecord, error) {
	return []*model.UploadRecord{}, nil
}
