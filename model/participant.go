package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxPreferences is the number of ranked committee/portfolio choices a participant can state.
const MaxPreferences = 3

type Participant struct {
	Id             primitive.ObjectID `json:"_id" bson:"_id"`
	ConferenceId   primitive.ObjectID `json:"conference_id" bson:"conference_id"`
	UserId         primitive.ObjectID `json:"user_id" bson:"user_id"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email" bson:"email"`
	CommitteePref1 string             `json:"committee_pref1" bson:"committee_pref1"`
	PortfolioPref1 string             `json:"portfolio_pref1" bson:"portfolio_pref1"`
	CommitteePref2 string             `json:"committee_pref2" bson:"committee_pref2"`
	PortfolioPref2 string             `json:"portfolio_pref2" bson:"portfolio_pref2"`
	CommitteePref3 string             `json:"committee_pref3" bson:"committee_pref3"`
	PortfolioPref3 string             `json:"portfolio_pref3" bson:"portfolio_pref3"`
	Remarks        string             `json:"remarks" bson:"remarks"`
	Committee      string             `json:"committee" bson:"committee"`
	Portfolio      string             `json:"portfolio" bson:"portfolio"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

type Preference struct {
	Committee string `json:"committee"`
	Portfolio string `json:"portfolio"`
}

// Preferences returns the ranked preferences, most wanted first. Unset ranks are skipped.
func (p Participant) Preferences() []Preference {
	all := []Preference{
		{p.CommitteePref1, p.PortfolioPref1},
		{p.CommitteePref2, p.PortfolioPref2},
		{p.CommitteePref3, p.PortfolioPref3},
	}
	prefs := make([]Preference, 0, MaxPreferences)
	for _, pref := range all {
		if pref.Committee == "" && pref.Portfolio == "" {
			continue
		}
		prefs = append(prefs, pref)
	}
	return prefs
}

// IsAllotted is true once both halves of the assignment are set.
func (p Participant) IsAllotted() bool {
	return p.Committee != "" && p.Portfolio != ""
}
