package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoTimeout = 5 * time.Second

type mongoEventRepo struct {
	col *mongo.Collection
}

func NewMongoEventRepository(col *mongo.Collection) EventRepository {
	return &mongoEventRepo{col: col}
}

// GetAll returns events ordered by date then time, the order the page shows them in.
func (r *mongoEventRepo) GetAll(ctx context.Context) ([]Event, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	defer cur.Close(ctx)

	out := []Event{}
	for cur.Next(ctx) {
		var e Event
		if err := cur.Decode(&e); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		out = append(out, e)
	}
	return out, cur.Err()
}

func (r *mongoEventRepo) GetByID(ctx context.Context, id string) (Event, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	var e Event
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Event{}, ErrNotFound
		}
		return Event{}, fmt.Errorf("find event %s: %w", id, err)
	}
	return e, nil
}

func (r *mongoEventRepo) Create(ctx context.Context, e *Event) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()
	_, err := r.col.InsertOne(ctx, e)
	return err
}

func (r *mongoEventRepo) Update(ctx context.Context, e *Event) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()
	res, err := r.col.UpdateOne(ctx, bson.M{"id": e.ID}, bson.M{"$set": e})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoEventRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()
	_, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	return err
}
