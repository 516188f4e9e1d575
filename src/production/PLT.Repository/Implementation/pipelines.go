package implementation

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Aggregation pipelines joining the embedded pi subdocuments of users
// against the independently keyed data-session collection. The join is an
// explicit lookup on myPis._id == piNicknameId; sessions whose pi cannot
// be resolved never survive the inner unwind.

// allSessionsPipeline fans out every user's pis, joins each against the
// session collection, drops pis without sessions, and regroups per user.
func allSessionsPipeline(sessionsColl string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$myPis"}}}},
		lookupSessionsStage(sessionsColl),
		bson.D{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$sessions"}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$_id"},
			{Key: "sessions", Value: bson.D{{Key: "$push", Value: "$sessions"}}},
		}}},
	}
}

// sessionsBySessionFieldPipeline filters one user's joined sessions by a
// field that lives on the session side (city, piLocationInHouse). The
// filter has to run AFTER the lookup because the field does not exist
// before the join.
func sessionsBySessionFieldPipeline(sessionsColl string, userID primitive.ObjectID, field, value string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "_id", Value: userID}}}},
		bson.D{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$myPis"}}}},
		lookupSessionsStage(sessionsColl),
		bson.D{{Key: "$project", Value: bson.D{{Key: "sessions", Value: true}}}},
		bson.D{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$sessions"}}}},
		bson.D{{Key: "$match", Value: bson.D{{Key: "sessions." + field, Value: value}}}},
	}
}

// sessionsByPiNicknamePipeline filters one user's pis by nickname BEFORE
// the lookup. The nickname lives on the pi side, so narrowing the left
// side of the join first is required for correctness, not a shortcut.
func sessionsByPiNicknamePipeline(sessionsColl string, userID primitive.ObjectID, nickname string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "_id", Value: userID}}}},
		bson.D{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$myPis"}}}},
		bson.D{{Key: "$match", Value: bson.D{{Key: "myPis.piNickname", Value: nickname}}}},
		lookupSessionsStage(sessionsColl),
		bson.D{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$sessions"}}}},
		bson.D{{Key: "$project", Value: bson.D{{Key: "sessions", Value: true}}}},
	}
}

func lookupSessionsStage(sessionsColl string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: sessionsColl},
		{Key: "localField", Value: "myPis._id"},
		{Key: "foreignField", Value: "piNicknameId"},
		{Key: "as", Value: "sessions"},
	}}}
}
