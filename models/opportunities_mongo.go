package models

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoOpportunityRepo struct {
	col *mongo.Collection
}

func NewMongoOpportunityRepository(col *mongo.Collection) OpportunityRepository {
	return &mongoOpportunityRepo{col: col}
}

func (r *mongoOpportunityRepo) GetAll(ctx context.Context) ([]Opportunity, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find opportunities: %w", err)
	}
	defer cur.Close(ctx)

	out := []Opportunity{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode opportunities: %w", err)
	}
	return out, nil
}

func (r *mongoOpportunityRepo) GetByID(ctx context.Context, id string) (Opportunity, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	var o Opportunity
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Opportunity{}, ErrNotFound
		}
		return Opportunity{}, fmt.Errorf("find opportunity %s: %w", id, err)
	}
	return o, nil
}

func (r *mongoOpportunityRepo) Create(ctx context.Context, o *Opportunity) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()
	_, err := r.col.InsertOne(ctx, o)
	return err
}
