package handlers_test

import (
	"net/http"
	"testing"

	"conference-webapp/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutiveBoard(t *testing.T) {
	f := newFixture(t)
	chair := f.seedUser("chair@example.org", "Charlie Chair", model.RoleParticipant)

	res, _ := f.request(http.MethodPost, f.confRoute("/executive-board"), f.organiserToken,
		map[string]string{"email": "ghost@example.org", "title": "Chair", "committee": "Security Council"})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = f.request(http.MethodPost, f.confRoute("/executive-board"), f.organiserToken,
		map[string]string{"email": "chair@example.org"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, body := f.request(http.MethodPost, f.confRoute("/executive-board"), f.organiserToken,
		map[string]string{"email": "chair@example.org", "title": "Chair", "committee": "Security Council"})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))
	var member model.ExecutiveBoardMember
	f.decode(body, &member)
	assert.Equal(t, chair.Id, member.UserId)
	assert.Equal(t, "Charlie Chair", member.Name)

	var board []model.ExecutiveBoardMember
	_, body = f.request(http.MethodGet, f.confRoute("/executive-board"), f.login("chair@example.org"), nil)
	f.decode(body, &board)
	require.Len(t, board, 1)
	assert.Equal(t, member.Id, board[0].Id)

	route := "/executive-board/" + member.Id.Hex()
	res, body = f.request(http.MethodPut, route, f.organiserToken,
		map[string]string{"title": "Vice Chair", "committee": "General Assembly"})
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	f.decode(body, &member)
	assert.Equal(t, "Vice Chair", member.Title)
	assert.Equal(t, "General Assembly", member.Committee)

	res, _ = f.request(http.MethodDelete, route, f.login("chair@example.org"), nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = f.request(http.MethodDelete, route, f.organiserToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = f.request(http.MethodDelete, route, f.organiserToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestAddExecutiveBoardMemberOwnerOnly(t *testing.T) {
	f := newFixture(t)
	f.seedUser("other@example.org", "Other Organiser", model.RoleOrganiser)

	res, _ := f.request(http.MethodPost, f.confRoute("/executive-board"), f.login("other@example.org"),
		map[string]string{"email": "other@example.org", "title": "Chair", "committee": "Security Council"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}
