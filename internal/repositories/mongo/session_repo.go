package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/avelorn/orvoice/internal/models"
	"github.com/avelorn/orvoice/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionRepository interface {
	Create(ctx context.Context, s *models.TranscriptionSession) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.TranscriptionSession, error)
	List(ctx context.Context, limit int64) ([]models.TranscriptionSession, error)
	AppendSegment(ctx context.Context, sessionID string, seg models.TranscriptionSegment) error
	Complete(ctx context.Context, sessionID string, endedAt time.Time, fullTranscript string) error
}

type sessionRepo struct {
	col *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) SessionRepository {
	return &sessionRepo{col: db.Collection("transcription_sessions")}
}

func (r *sessionRepo) Create(ctx context.Context, s *models.TranscriptionSession) error {
	if s.StartTime.IsZero() {
		s.StartTime = time.Now().UTC()
	}
	if s.Segments == nil {
		s.Segments = []models.TranscriptionSegment{}
	}
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *sessionRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.TranscriptionSession, error) {
	var s models.TranscriptionSession
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

func (r *sessionRepo) List(ctx context.Context, limit int64) ([]models.TranscriptionSession, error) {
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"segments": 0}) // listing does not need segment bodies

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.TranscriptionSession
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AppendSegment is a single atomic $push, which keeps concurrent segment
// writers from losing updates.
func (r *sessionRepo) AppendSegment(ctx context.Context, sessionID string, seg models.TranscriptionSegment) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID, "status": models.SessionActive},
		bson.M{"$push": bson.M{"segments": seg}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *sessionRepo) Complete(ctx context.Context, sessionID string, endedAt time.Time, fullTranscript string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{
			"status":          models.SessionCompleted,
			"end_time":        endedAt.UTC(),
			"full_transcript": fullTranscript,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}
