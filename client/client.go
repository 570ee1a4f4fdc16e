// Package client talks to the conference API over HTTP.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"conference-webapp/allotment"
	"conference-webapp/model"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func (e *APIError) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("api responded %d %s: %v", e.Status, e.Message, e.Data)
	}
	return fmt.Sprintf("api responded %d %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	dial    fasthttp.DialFunc
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithDial replaces the network dialer, e.g. with an in-memory listener.
func WithDial(dial fasthttp.DialFunc) Option {
	return func(c *Client) { c.dial = dial }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: 10 * time.Second}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) agent(ctx context.Context, method, path string) (*fiber.Agent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return nil, err
	}
	if c.dial != nil {
		a.HostClient.Dial = c.dial
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	a.Timeout(timeout)
	if c.token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	return a, nil
}

// do sends body as JSON, when given, and decodes a 2xx answer into out, when given.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	a, err := c.agent(ctx, method, path)
	if err != nil {
		return err
	}
	if body != nil {
		a.JSON(body)
	}

	code, resBody, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errs[0])
	}
	if code < 200 || code >= 300 {
		apiErr := &APIError{Status: code}
		if jsonErr := json.Unmarshal(resBody, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(resBody))
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resBody, out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}
	return nil
}

// Login exchanges credentials for a token used by every later call.
func (c *Client) Login(ctx context.Context, login, password string) error {
	var envelope struct {
		Data string `json:"data"`
	}
	err := c.do(ctx, fiber.MethodPost, "/login", fiber.Map{"login": login, "password": password}, &envelope)
	if err != nil {
		return err
	}
	c.token = envelope.Data
	return nil
}

func (c *Client) Conference(ctx context.Context, confId string) (model.Conference, error) {
	var conf model.Conference
	err := c.do(ctx, fiber.MethodGet, "/conference/"+url.PathEscape(confId), nil, &conf)
	return conf, err
}

func (c *Client) Participants(ctx context.Context, confId string) ([]model.Participant, error) {
	var participants []model.Participant
	err := c.do(ctx, fiber.MethodGet, "/conference/"+url.PathEscape(confId)+"/participants", nil, &participants)
	return participants, err
}

// Allot assigns one participant, the same call the organiser dashboard makes per row.
func (c *Client) Allot(ctx context.Context, confId, participantId, committee, portfolio string) error {
	path := fmt.Sprintf("/conference/%s/participants/%s/allot", url.PathEscape(confId), url.PathEscape(participantId))
	return c.do(ctx, fiber.MethodPost, path, fiber.Map{"committee": committee, "portfolio": portfolio}, nil)
}

// SubmitBatch hands the whole batch to the server, which checks and writes it.
func (c *Client) SubmitBatch(ctx context.Context, confId string, proposals []allotment.Proposal, strict bool) (*allotment.Report, error) {
	report := &allotment.Report{}
	err := c.do(ctx, fiber.MethodPost, "/conference/"+url.PathEscape(confId)+"/allotments",
		fiber.Map{"proposals": proposals, "strict": strict}, report)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Updater adapts the client to allotment.Updater for one conference.
func (c *Client) Updater(confId string) allotment.Updater {
	return allotment.UpdaterFunc(func(ctx context.Context, participantId, committee, portfolio string) error {
		return c.Allot(ctx, confId, participantId, committee, portfolio)
	})
}
