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

type LetterRepository interface {
	Create(ctx context.Context, l *models.DoctorLetter) error
	GetByLetterID(ctx context.Context, letterID string) (*models.DoctorLetter, error)
	List(ctx context.Context, limit int64) ([]models.DoctorLetter, error)
}

type letterRepo struct {
	col *mongo.Collection
}

func NewLetterRepo(db *mongo.Database) LetterRepository {
	return &letterRepo{col: db.Collection("doctor_letters")}
}

func (r *letterRepo) Create(ctx context.Context, l *models.DoctorLetter) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, l)
	return err
}

func (r *letterRepo) GetByLetterID(ctx context.Context, letterID string) (*models.DoctorLetter, error) {
	var l models.DoctorLetter
	err := r.col.FindOne(ctx, bson.M{"letter_id": letterID}).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &l, err
}

func (r *letterRepo) List(ctx context.Context, limit int64) ([]models.DoctorLetter, error) {
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"content": 0}) // content fetched per letter

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.DoctorLetter
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
