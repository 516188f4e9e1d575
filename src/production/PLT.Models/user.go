package pltmodels

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role values are a closed set; there is no hierarchy beyond admin > user.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// IsValidRole checks a role against the closed enum.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// Pi represents one registered sensor unit embedded in its owning user.
// Pis have no independent lifecycle; they are created and removed only as
// part of a user mutation.
type Pi struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Nickname    string             `bson:"piNickname" json:"piNickname"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

// User represents a user in the system. PasswordHash is never exposed in
// JSON and is stripped from every projection handed to a caller.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         string             `bson:"role" json:"role"`
	MyPis        []Pi               `bson:"myPis" json:"myPis"`
	Revision     int32              `bson:"__v" json:"__v"`
}

// Public returns the externally safe projection of the user: everything
// except the password hash.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	out := *u
	out.PasswordHash = ""
	out.MyPis = make([]Pi, len(u.MyPis))
	copy(out.MyPis, u.MyPis)
	return &out
}
