package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"conference-webapp/database"
	"conference-webapp/handlers"
	"conference-webapp/model"
	"conference-webapp/router"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSign     = "test-signing-key"
	testPassword = "correct horse"
)

type testEnv struct {
	t     *testing.T
	app   *fiber.App
	store *database.LocalStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := database.NewLocalStore(filepath.Join(t.TempDir(), "conferences.json"))
	app := fiber.New()
	router.SetupRoutes(app, handlers.New(store, testSign, time.Hour, nil), testSign)
	return &testEnv{t: t, app: app, store: store}
}

func (e *testEnv) seedUser(login, name, role string) model.UserData {
	e.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(e.t, err)
	user := model.UserData{Id: primitive.NewObjectID(), Login: login, Name: name, HashedPassword: string(hash), Role: role}
	require.NoError(e.t, e.store.CreateUser(context.Background(), user))
	return user
}

// login returns a bearer token for the user seeded with testPassword.
func (e *testEnv) login(login string) string {
	e.t.Helper()
	res, body := e.request(http.MethodPost, "/login", "", map[string]string{"login": login, "password": testPassword})
	require.Equal(e.t, http.StatusOK, res.StatusCode, string(body))

	var envelope struct {
		Data string `json:"data"`
	}
	require.NoError(e.t, json.Unmarshal(body, &envelope))
	return envelope.Data
}

func (e *testEnv) request(method, route, token string, body interface{}) (*http.Response, []byte) {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.([]byte)
		if !ok {
			var err error
			raw, err = json.Marshal(body)
			require.NoError(e.t, err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, route, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	resBody, err := io.ReadAll(res.Body)
	require.NoError(e.t, err)
	return res, resBody
}

func (e *testEnv) decode(body []byte, v interface{}) {
	e.t.Helper()
	require.NoError(e.t, json.Unmarshal(body, v), string(body))
}

func conferencePayload(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":              name,
		"start_date":        "2025-08-01T09:00:00Z",
		"end_date":          "2025-08-03T18:00:00Z",
		"participation_fee": 1500,
		"payment_details":   "UPI mun@bank",
		"venue":             "Main Hall",
		"contact_details":   "secretariat@example.org",
		"committees":        []string{"Security Council", "General Assembly"},
		"agendas":           []string{"Nuclear disarmament", "Climate finance"},
		"committee_matrix": map[string][]string{
			"Security Council": {"USA", "UK", "France", "China", "Russia"},
			"General Assembly": {"India", "Brazil"},
		},
	}
}

// fixture is a conference owned by an organiser with registered participants.
type fixture struct {
	*testEnv
	organiser      string
	organiserToken string
	conf           model.Conference
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	env := newTestEnv(t)
	env.seedUser("organiser@example.org", "Olive Organiser", model.RoleOrganiser)
	token := env.login("organiser@example.org")

	res, body := env.request(http.MethodPost, "/conference", token, conferencePayload("Model UN 2025"))
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))
	var conf model.Conference
	env.decode(body, &conf)

	return &fixture{testEnv: env, organiser: "organiser@example.org", organiserToken: token, conf: conf}
}

func (f *fixture) confRoute(suffix string) string {
	return "/conference/" + f.conf.Id.Hex() + suffix
}

// register signs a new participant up and returns the stored record and the participant's token.
func (f *fixture) register(login string, prefs map[string]string) (model.Participant, string) {
	f.t.Helper()
	f.seedUser(login, "Delegate "+login, model.RoleParticipant)
	token := f.login(login)
	res, body := f.request(http.MethodPost, f.confRoute("/register"), token, prefs)
	require.Equal(f.t, http.StatusCreated, res.StatusCode, string(body))
	var p model.Participant
	f.decode(body, &p)
	return p, token
}

func (f *fixture) participant(id primitive.ObjectID) model.Participant {
	f.t.Helper()
	p, err := f.store.GetParticipant(context.Background(), id)
	require.NoError(f.t, err)
	return p
}
