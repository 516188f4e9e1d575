package implementation

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// objectIDFromHex parses a hex object ID. An unparseable ID is treated the
// same as an unknown one by the callers: reads yield empty results,
// mutations report the target as missing.
func objectIDFromHex(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}
