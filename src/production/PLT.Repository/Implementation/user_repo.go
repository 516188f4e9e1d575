package implementation

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	plterrors "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Errors"
	pltmodels "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Models"
)

type MongoUserRepository struct {
	users        *mongo.Collection
	sessionsColl string
}

// NewMongoUserRepository creates a user repository over the given database.
// sessionsColl is the name of the data-session collection the aggregation
// lookups join against.
func NewMongoUserRepository(db *mongo.Database, usersColl, sessionsColl string) *MongoUserRepository {
	return &MongoUserRepository{
		users:        db.Collection(usersColl),
		sessionsColl: sessionsColl,
	}
}

// EnsureIndexes creates the unique email index.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Create user
func (r *MongoUserRepository) Create(ctx context.Context, user *pltmodels.User) (*pltmodels.User, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	for i := range user.MyPis {
		if user.MyPis[i].ID.IsZero() {
			user.MyPis[i].ID = primitive.NewObjectID()
		}
	}

	_, err := r.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, plterrors.NewValidation("Email is taken")
		}
		return nil, err
	}

	return user, nil
}

// Read users
func (r *MongoUserRepository) GetByID(ctx context.Context, userID string) (*pltmodels.User, error) {
	oid, ok := objectIDFromHex(userID)
	if !ok {
		return nil, nil
	}

	var user pltmodels.User
	err := r.users.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// GetByEmail looks a user up by exact, case-sensitive email match.
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*pltmodels.User, error) {
	var user pltmodels.User
	err := r.users.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *MongoUserRepository) GetAll(ctx context.Context) ([]*pltmodels.User, error) {
	cursor, err := r.users.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*pltmodels.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	return users, nil
}

// PushPi appends a pi to the end of the user's pi list in one atomic
// update. Insertion order of the existing pis is preserved.
func (r *MongoUserRepository) PushPi(ctx context.Context, userID string, pi pltmodels.Pi) (*pltmodels.User, error) {
	oid, ok := objectIDFromHex(userID)
	if !ok {
		return nil, nil
	}
	if pi.ID.IsZero() {
		pi.ID = primitive.NewObjectID()
	}

	update := bson.D{{Key: "$push", Value: bson.D{{Key: "myPis", Value: pi}}}}
	return r.findOneAndUpdate(ctx, oid, update)
}

// UpdateRole sets the user's role in one atomic update.
func (r *MongoUserRepository) UpdateRole(ctx context.Context, userID, role string) (*pltmodels.User, error) {
	oid, ok := objectIDFromHex(userID)
	if !ok {
		return nil, nil
	}

	update := bson.D{{Key: "$set", Value: bson.D{{Key: "role", Value: role}}}}
	return r.findOneAndUpdate(ctx, oid, update)
}

func (r *MongoUserRepository) findOneAndUpdate(ctx context.Context, oid primitive.ObjectID, update bson.D) (*pltmodels.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user pltmodels.User
	err := r.users.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// Delete removes the user and returns the pre-deletion document.
func (r *MongoUserRepository) Delete(ctx context.Context, userID string) (*pltmodels.User, error) {
	oid, ok := objectIDFromHex(userID)
	if !ok {
		return nil, nil
	}

	var user pltmodels.User
	err := r.users.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// AllSessionsByUser returns one record per user holding every session of
// every pi the user owns, in pi order. Users whose pis have no sessions
// produce no record.
func (r *MongoUserRepository) AllSessionsByUser(ctx context.Context) ([]pltmodels.UserSessions, error) {
	cursor, err := r.users.Aggregate(ctx, allSessionsPipeline(r.sessionsColl))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []pltmodels.UserSessions{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	return results, nil
}

// SessionsByCity returns the user's sessions recorded in the given city.
func (r *MongoUserRepository) SessionsByCity(ctx context.Context, city, userID string) ([]pltmodels.DataSession, error) {
	oid, ok := objectIDFromHex(userID)
	if !ok {
		return []pltmodels.DataSession{}, nil
	}
	return r.aggregateSessions(ctx, sessionsBySessionFieldPipeline(r.sessionsColl, oid, "city", city))
}

// SessionsByLocation returns the user's sessions recorded at the given
// in-house location.
func (r *MongoUserRepository) SessionsByLocation(ctx context.Context, location, userID string) ([]pltmodels.DataSession, error) {
	oid, ok := objectIDFromHex(userID)
	if !ok {
		return []pltmodels.DataSession{}, nil
	}
	return r.aggregateSessions(ctx, sessionsBySessionFieldPipeline(r.sessionsColl, oid, "piLocationInHouse", location))
}

// SessionsByPiNickname returns the sessions of the user's pis carrying the
// given nickname.
func (r *MongoUserRepository) SessionsByPiNickname(ctx context.Context, nickname, userID string) ([]pltmodels.DataSession, error) {
	oid, ok := objectIDFromHex(userID)
	if !ok {
		return []pltmodels.DataSession{}, nil
	}
	return r.aggregateSessions(ctx, sessionsByPiNicknamePipeline(r.sessionsColl, oid, nickname))
}

// sessionRow is the shape of one post-unwind pipeline row: the user _id
// plus a single joined session document.
type sessionRow struct {
	Session pltmodels.DataSession `bson:"sessions"`
}

func (r *MongoUserRepository) aggregateSessions(ctx context.Context, pipeline mongo.Pipeline) ([]pltmodels.DataSession, error) {
	cursor, err := r.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := []sessionRow{}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	sessions := make([]pltmodels.DataSession, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, row.Session)
	}

	return sessions, nil
}
