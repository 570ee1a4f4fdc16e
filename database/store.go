package database

import (
	"context"

	"conference-webapp/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}

func IsAlreadyExists(err error) bool {
	return errors.Cause(err) == ErrAlreadyExists
}

// Store is the persistence used by the handlers. Lookups of missing records
// fail with an error wrapping ErrNotFound; inserts that break a uniqueness
// rule fail with an error wrapping ErrAlreadyExists.
type Store interface {
	GetUserData(ctx context.Context, login string) (model.UserData, error)
	CreateUser(ctx context.Context, user model.UserData) error
	SetUserRole(ctx context.Context, login, role string) error

	// GetConferences lists conferences newest first. An empty organiserEmail lists all of them.
	GetConferences(ctx context.Context, organiserEmail string) ([]model.Conference, error)
	GetConference(ctx context.Context, id primitive.ObjectID) (model.Conference, error)
	CreateConference(ctx context.Context, conf model.Conference) error
	UpdateConference(ctx context.Context, conf model.Conference) error
	// DeleteConference also removes the participants and executive board of the conference.
	DeleteConference(ctx context.Context, id primitive.ObjectID) error

	// GetParticipants lists the participants of a conference in registration order.
	GetParticipants(ctx context.Context, confId primitive.ObjectID) ([]model.Participant, error)
	GetParticipant(ctx context.Context, id primitive.ObjectID) (model.Participant, error)
	GetParticipantByUser(ctx context.Context, confId, userId primitive.ObjectID) (model.Participant, error)
	CreateParticipant(ctx context.Context, participant model.Participant) error
	UpdateAssignment(ctx context.Context, participantId primitive.ObjectID, committee, portfolio string) error

	GetExecutiveBoard(ctx context.Context, confId primitive.ObjectID) ([]model.ExecutiveBoardMember, error)
	GetExecutiveBoardMember(ctx context.Context, id primitive.ObjectID) (model.ExecutiveBoardMember, error)
	CreateExecutiveBoardMember(ctx context.Context, member model.ExecutiveBoardMember) error
	UpdateExecutiveBoardMember(ctx context.Context, member model.ExecutiveBoardMember) error
	DeleteExecutiveBoardMember(ctx context.Context, id primitive.ObjectID) error
}
