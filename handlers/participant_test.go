package handlers_test

import (
	"net/http"
	"testing"

	"conference-webapp/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)

	p, token := f.register("delegate@example.org", map[string]string{
		"committee_pref1": "Security Council",
		"portfolio_pref1": "USA",
		"committee_pref2": "General Assembly",
		"remarks":         " first MUN ",
	})
	assert.Equal(t, f.conf.Id, p.ConferenceId)
	assert.Equal(t, "delegate@example.org", p.Email)
	assert.Equal(t, "first MUN", p.Remarks)
	assert.Equal(t, []model.Preference{
		{Committee: "Security Council", Portfolio: "USA"},
		{Committee: "General Assembly"},
	}, p.Preferences())
	assert.False(t, p.IsAllotted())

	res, body := f.request(http.MethodPost, f.confRoute("/register"), token, map[string]string{})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, string(body), "Already registered")
}

func TestRegisterValidatesPreferences(t *testing.T) {
	tests := []struct {
		description string
		prefs       map[string]string
	}{
		{"unknown committee", map[string]string{"committee_pref1": "UNHRC"}},
		{"portfolio outside committee", map[string]string{"committee_pref1": "General Assembly", "portfolio_pref1": "USA"}},
		{"portfolio without committee", map[string]string{"portfolio_pref3": "USA"}},
	}

	f := newFixture(t)
	f.seedUser("delegate@example.org", "Delegate", model.RoleParticipant)
	token := f.login("delegate@example.org")

	for _, test := range tests {
		res, _ := f.request(http.MethodPost, f.confRoute("/register"), token, test.prefs)
		assert.Equalf(t, http.StatusBadRequest, res.StatusCode, test.description)
	}
}

func TestRegisterUnknownConference(t *testing.T) {
	f := newFixture(t)
	f.seedUser("delegate@example.org", "Delegate", model.RoleParticipant)

	res, _ := f.request(http.MethodPost, "/conference/"+primitive.NewObjectID().Hex()+"/register",
		f.login("delegate@example.org"), map[string]string{})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestIsRegisteredAndMe(t *testing.T) {
	f := newFixture(t)
	f.seedUser("late@example.org", "Late Delegate", model.RoleParticipant)
	lateToken := f.login("late@example.org")

	var status struct {
		IsRegistered bool `json:"isRegistered"`
	}
	res, body := f.request(http.MethodGet, f.confRoute("/registration"), lateToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	f.decode(body, &status)
	assert.False(t, status.IsRegistered)

	res, _ = f.request(http.MethodGet, f.confRoute("/participants/me"), lateToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	p, token := f.register("delegate@example.org", map[string]string{"committee_pref1": "Security Council"})
	_, body = f.request(http.MethodGet, f.confRoute("/registration"), token, nil)
	f.decode(body, &status)
	assert.True(t, status.IsRegistered)

	var me model.Participant
	res, body = f.request(http.MethodGet, f.confRoute("/participants/me"), token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	f.decode(body, &me)
	assert.Equal(t, p.Id, me.Id)
}

func TestGetParticipants(t *testing.T) {
	f := newFixture(t)
	first, token := f.register("a@example.org", map[string]string{})
	second, _ := f.register("b@example.org", map[string]string{})

	var participants []model.Participant
	res, body := f.request(http.MethodGet, f.confRoute("/participants"), f.organiserToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	f.decode(body, &participants)
	require.Len(t, participants, 2)
	assert.Equal(t, first.Id, participants[0].Id)
	assert.Equal(t, second.Id, participants[1].Id)

	res, _ = f.request(http.MethodGet, f.confRoute("/participants"), token, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}
