package implementation

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	pltmodels "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Models"
)

type MongoSessionRepository struct {
	sessions *mongo.Collection
}

func NewMongoSessionRepository(db *mongo.Database, sessionsColl string) *MongoSessionRepository {
	return &MongoSessionRepository{sessions: db.Collection(sessionsColl)}
}

// Create data session
func (r *MongoSessionRepository) Create(ctx context.Context, session *pltmodels.DataSession) (*pltmodels.DataSession, error) {
	if session.ID.IsZero() {
		session.ID = primitive.NewObjectID()
	}

	_, err := r.sessions.InsertOne(ctx, session)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// Read data sessions
func (r *MongoSessionRepository) GetByID(ctx context.Context, sessionID string) (*pltmodels.DataSession, error) {
	oid, ok := objectIDFromHex(sessionID)
	if !ok {
		return nil, nil
	}

	var session pltmodels.DataSession
	err := r.sessions.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &session, nil
}

func (r *MongoSessionRepository) ListByPi(ctx context.Context, piID string) ([]pltmodels.DataSession, error) {
	oid, ok := objectIDFromHex(piID)
	if !ok {
		return []pltmodels.DataSession{}, nil
	}

	cursor, err := r.sessions.Find(ctx, bson.D{{Key: "piNicknameId", Value: oid}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []pltmodels.DataSession{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}

	return sessions, nil
}
