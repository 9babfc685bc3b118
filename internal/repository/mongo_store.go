package repository

import (
	"context"
	"errors"

	"exam-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoSessionStore persists sessions in a MongoDB collection, for
// deployments where several server processes share session state.
// Session ids are assigned by the service, so _id is the plain string
// id rather than an ObjectID.
type MongoSessionStore struct {
	Col *mongo.Collection
}

func NewMongoSessionStore(db *mongo.Database) *MongoSessionStore {
	return &MongoSessionStore{Col: db.Collection("exam_sessions")}
}

func (s *MongoSessionStore) Create(ctx context.Context, session *models.ExamSession) error {
	_, err := s.Col.InsertOne(ctx, session)
	if mongo.IsDuplicateKeyError(err) {
		return ErrSessionExists
	}
	return err
}

func (s *MongoSessionStore) Get(ctx context.Context, id string) (*models.ExamSession, error) {
	var session models.ExamSession
	err := s.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Replace applies the session atomically: the filter pins the stored
// progress index, so of two near-simultaneous submissions only the
// first matches and the second comes back as an index conflict.
func (s *MongoSessionStore) Replace(ctx context.Context, session *models.ExamSession, expectedIndex int) error {
	filter := bson.M{"_id": session.ID, "current_index": expectedIndex}
	err := s.Col.FindOneAndReplace(ctx, filter, session).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Distinguish a lost race from a missing session.
		if _, getErr := s.Get(ctx, session.ID); getErr != nil {
			return getErr
		}
		return ErrIndexConflict
	}
	return err
}

func (s *MongoSessionStore) Delete(ctx context.Context, id string) error {
	res, err := s.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}
