package model

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	RoleOrganiser   = "organiser"
	RoleParticipant = "participant"
)

type UserData struct {
	Id             primitive.ObjectID `json:"_id" bson:"_id"`
	Login          string             `json:"login" bson:"login,omitempty"`
	Name           string             `json:"name" bson:"name,omitempty"`
	HashedPassword string             `json:"-" bson:"password_hash,omitempty"`
	Role           string             `json:"role" bson:"role,omitempty"`
}
