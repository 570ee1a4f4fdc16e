package handlers_test

import (
	"net/http"
	"testing"

	"conference-webapp/allotment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type batchRequest struct {
	Proposals []allotment.Proposal `json:"proposals"`
	Strict    bool                 `json:"strict,omitempty"`
}

func TestSubmitAllotmentsRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	p1, _ := f.register("p1@example.org", map[string]string{})
	p2, _ := f.register("p2@example.org", map[string]string{})

	res, body := f.request(http.MethodPost, f.confRoute("/allotments"), f.organiserToken, batchRequest{
		Proposals: []allotment.Proposal{
			{ParticipantId: p1.Id.Hex(), Committee: "Security Council", Portfolio: "USA"},
			{ParticipantId: p2.Id.Hex(), Committee: "Security Council", Portfolio: "USA"},
		},
	})
	require.Equal(t, http.StatusConflict, res.StatusCode, string(body))

	var envelope struct {
		Data struct {
			Conflicts []string `json:"conflicts"`
		} `json:"data"`
	}
	f.decode(body, &envelope)
	assert.Equal(t, []string{p2.Id.Hex()}, envelope.Data.Conflicts)

	assert.False(t, f.participant(p1.Id).IsAllotted(), "a conflicting batch must not be written")
	assert.False(t, f.participant(p2.Id).IsAllotted())
}

func TestSubmitAllotments(t *testing.T) {
	f := newFixture(t)
	p1, _ := f.register("p1@example.org", map[string]string{})
	p2, _ := f.register("p2@example.org", map[string]string{})
	p3, _ := f.register("p3@example.org", map[string]string{})

	res, body := f.request(http.MethodPost, f.confRoute("/allotments"), f.organiserToken, batchRequest{
		Proposals: []allotment.Proposal{
			{ParticipantId: p2.Id.Hex(), Committee: "Security Council", Portfolio: "UK"},
			{ParticipantId: p1.Id.Hex(), Committee: "Security Council", Portfolio: "USA"},
			{ParticipantId: p3.Id.Hex(), Committee: "General Assembly"},
		},
	})
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))

	var report allotment.Report
	f.decode(body, &report)
	require.Len(t, report.Rows, 3)
	assert.Equal(t, p1.Id.Hex(), report.Rows[0].ParticipantId, "rows follow participant order")
	assert.Equal(t, allotment.StatusSubmitted, report.Rows[0].Status)
	assert.Equal(t, p2.Id.Hex(), report.Rows[1].ParticipantId)
	assert.Equal(t, allotment.StatusSubmitted, report.Rows[1].Status)
	assert.Equal(t, allotment.StatusSkipped, report.Rows[2].Status)
	assert.Equal(t, 2, report.Submitted)
	assert.Equal(t, allotment.Assigned{"Security Council": {"USA", "UK"}}, report.Assigned)

	assert.Equal(t, "USA", f.participant(p1.Id).Portfolio)
	assert.Equal(t, "UK", f.participant(p2.Id).Portfolio)
	assert.False(t, f.participant(p3.Id).IsAllotted())
}

func TestSubmitAllotmentsRejectsPortfolioOutsideCommittee(t *testing.T) {
	f := newFixture(t)
	p1, _ := f.register("p1@example.org", map[string]string{})

	res, _ := f.request(http.MethodPost, f.confRoute("/allotments"), f.organiserToken, batchRequest{
		Proposals: []allotment.Proposal{
			{ParticipantId: p1.Id.Hex(), Committee: "General Assembly", Portfolio: "USA"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.False(t, f.participant(p1.Id).IsAllotted())
}

func TestSubmitAllotmentsStrict(t *testing.T) {
	f := newFixture(t)
	p1, _ := f.register("p1@example.org", map[string]string{})
	p2, _ := f.register("p2@example.org", map[string]string{})

	res, _ := f.request(http.MethodPost, f.confRoute("/participants/"+p1.Id.Hex()+"/allot"), f.organiserToken,
		map[string]string{"committee": "Security Council", "portfolio": "USA"})
	require.Equal(t, http.StatusOK, res.StatusCode)

	batch := batchRequest{Proposals: []allotment.Proposal{
		{ParticipantId: p2.Id.Hex(), Committee: "Security Council", Portfolio: "USA"},
	}}

	batch.Strict = true
	res, _ = f.request(http.MethodPost, f.confRoute("/allotments"), f.organiserToken, batch)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.False(t, f.participant(p2.Id).IsAllotted())

	// batch-only checking lets the seat be handed out twice
	batch.Strict = false
	res, _ = f.request(http.MethodPost, f.confRoute("/allotments"), f.organiserToken, batch)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "USA", f.participant(p2.Id).Portfolio)
}

func TestSubmitAllotmentsOwnerOnly(t *testing.T) {
	f := newFixture(t)
	p1, token := f.register("p1@example.org", map[string]string{})

	res, _ := f.request(http.MethodPost, f.confRoute("/allotments"), token, batchRequest{
		Proposals: []allotment.Proposal{{ParticipantId: p1.Id.Hex(), Committee: "Security Council", Portfolio: "USA"}},
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.False(t, f.participant(p1.Id).IsAllotted())

	res, _ = f.request(http.MethodPost, f.confRoute("/allotments"), f.organiserToken, batchRequest{
		Proposals: []allotment.Proposal{{Committee: "Security Council", Portfolio: "USA"}},
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "participant id is required")
}

func TestAllotParticipant(t *testing.T) {
	f := newFixture(t)
	p1, _ := f.register("p1@example.org", map[string]string{})
	route := f.confRoute("/participants/" + p1.Id.Hex() + "/allot")

	tests := []struct {
		description  string
		route        string
		body         map[string]string
		expectedCode int
	}{
		{"missing portfolio", route, map[string]string{"committee": "Security Council"}, http.StatusBadRequest},
		{"portfolio outside committee", route, map[string]string{"committee": "General Assembly", "portfolio": "USA"}, http.StatusBadRequest},
		{"unknown participant", f.confRoute("/participants/" + primitive.NewObjectID().Hex() + "/allot"),
			map[string]string{"committee": "Security Council", "portfolio": "USA"}, http.StatusNotFound},
		{"valid", route, map[string]string{"committee": "Security Council", "portfolio": "France"}, http.StatusOK},
	}

	for _, test := range tests {
		res, body := f.request(http.MethodPost, test.route, f.organiserToken, test.body)
		assert.Equalf(t, test.expectedCode, res.StatusCode, "%s: %s", test.description, body)
	}

	p := f.participant(p1.Id)
	assert.Equal(t, "Security Council", p.Committee)
	assert.Equal(t, "France", p.Portfolio)
}

func TestAllotParticipantOfAnotherConference(t *testing.T) {
	f := newFixture(t)
	p1, _ := f.register("p1@example.org", map[string]string{})

	res, body := f.request(http.MethodPost, "/conference", f.organiserToken, conferencePayload("Second MUN"))
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var other struct {
		Id string `json:"_id"`
	}
	f.decode(body, &other)

	res, _ = f.request(http.MethodPost, "/conference/"+other.Id+"/participants/"+p1.Id.Hex()+"/allot", f.organiserToken,
		map[string]string{"committee": "Security Council", "portfolio": "USA"})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.False(t, f.participant(p1.Id).IsAllotted())
}

func TestGetAllotments(t *testing.T) {
	f := newFixture(t)
	p1, _ := f.register("p1@example.org", map[string]string{})
	p2, _ := f.register("p2@example.org", map[string]string{})

	res, _ := f.request(http.MethodPost, f.confRoute("/participants/"+p1.Id.Hex()+"/allot"), f.organiserToken,
		map[string]string{"committee": "General Assembly", "portfolio": "Brazil"})
	require.Equal(t, http.StatusOK, res.StatusCode)

	var view struct {
		Assigned   allotment.Assigned `json:"assigned"`
		Unassigned []string           `json:"unassigned"`
	}
	res, body := f.request(http.MethodGet, f.confRoute("/allotments"), f.organiserToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	f.decode(body, &view)
	assert.Equal(t, allotment.Assigned{"General Assembly": {"Brazil"}}, view.Assigned)
	assert.Equal(t, []string{p2.Id.Hex()}, view.Unassigned)
}
