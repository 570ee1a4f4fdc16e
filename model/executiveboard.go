package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// ExecutiveBoardMember is a user chairing or otherwise running a committee of a conference.
type ExecutiveBoardMember struct {
	Id           primitive.ObjectID `json:"_id" bson:"_id"`
	ConferenceId primitive.ObjectID `json:"conference_id" bson:"conference_id"`
	UserId       primitive.ObjectID `json:"user_id" bson:"user_id"`
	Email        string             `json:"email" bson:"email"`
	Name         string             `json:"name" bson:"name"`
	Title        string             `json:"title" bson:"title"`
	Committee    string             `json:"committee" bson:"committee"`
}
