package pltmodels

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sensor types a pi can record during a data session.
const (
	SensorLight       = "light"
	SensorHumidity    = "humidity"
	SensorTemperature = "temperature"
)

// IsValidSensorType checks a sensor type against the closed set.
func IsValidSensorType(sensorType string) bool {
	switch sensorType {
	case SensorLight, SensorHumidity, SensorTemperature:
		return true
	}
	return false
}

// DataSession is one data-collection run by a pi. It lives in its own
// collection; PiID is a weak back-reference to the embedded pi subdocument
// of the owning user (relation and lookup only, no ownership). Sessions
// whose pi cannot be resolved are excluded from aggregation results.
type DataSession struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	PiID        primitive.ObjectID `bson:"piNicknameId" json:"piNicknameId"`
	SensorTypes []string           `bson:"sensorType" json:"sensorType"`
	Location    string             `bson:"piLocationInHouse" json:"piLocationInHouse"`
	City        string             `bson:"city" json:"city"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// UserSessions is the grouped result of the unfiltered all-sessions
// aggregation: one record per user with every matched session in pi order.
type UserSessions struct {
	UserID   primitive.ObjectID `bson:"_id" json:"userId"`
	Sessions []DataSession      `bson:"sessions" json:"sessions"`
}
