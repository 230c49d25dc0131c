package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is a staff account. Attendance records link to it by name.
type User struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Auth0ID string             `bson:"auth0Id" json:"auth0Id"`
	Name    string             `bson:"name" json:"name"`
	Email   string             `bson:"email" json:"email"`
	Role    string             `bson:"role" json:"role"`
}
