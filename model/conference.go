package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Conference struct {
	Id               primitive.ObjectID  `json:"_id" bson:"_id"`
	OrganiserEmail   string              `json:"organiser_email" bson:"organiser_email"`
	Name             string              `json:"name" bson:"name" validate:"required,min=2,max=200"`
	StartDate        time.Time           `json:"start_date" bson:"start_date" validate:"required"`
	EndDate          time.Time           `json:"end_date" bson:"end_date" validate:"required,gtefield=StartDate"`
	ParticipationFee float64             `json:"participation_fee" bson:"participation_fee" validate:"gte=0"`
	PaymentDetails   string              `json:"payment_details" bson:"payment_details"`
	Venue            string              `json:"venue" bson:"venue" validate:"required"`
	ContactDetails   string              `json:"contact_details" bson:"contact_details" validate:"required"`
	Committees       []string            `json:"committees" bson:"committees" validate:"dive,required"`
	Agendas          []string            `json:"agendas" bson:"agendas"`
	CommitteeMatrix  map[string][]string `json:"committee_matrix" bson:"committee_matrix"`
	Announcements    []string            `json:"announcements" bson:"announcements"`
	PolicyText       string              `json:"policy_text" bson:"policy_text"`
	CreatedAt        time.Time           `json:"created_at" bson:"created_at"`
}

// HasPortfolio reports whether portfolio is one of the seats of committee.
func (c Conference) HasPortfolio(committee, portfolio string) bool {
	for _, p := range c.CommitteeMatrix[committee] {
		if p == portfolio {
			return true
		}
	}
	return false
}
