package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/google/uuid"

	"github.com/abhisek/adaptest/internal/config"
	"github.com/abhisek/adaptest/internal/store"
)

// Client is the typed backend API. It is safe for concurrent use.
type Client struct {
	transport Transport
	events    store.EventRepo // may be nil
}

// New creates a Client over an existing transport. Decode problems are
// recorded to events when it is non-nil.
func New(t Transport, events store.EventRepo) *Client {
	return &Client{transport: t, events: events}
}

// NewFromConfig builds the standard HTTP client stack: HTTP transport,
// request logging per attempt, then GET retries.
func NewFromConfig(cfg config.Config, tokens TokenSource, events store.EventRepo) *Client {
	var t Transport = NewHTTPTransport(cfg.ServerURL, cfg.RequestTimeout, tokens)
	if events != nil {
		t = WithLogging(t, events)
	}
	t = WithRetry(t, cfg.Retry)
	return New(t, events)
}

// NextQuestion fetches the current question of a test. It returns nil when
// the backend has no more questions. A question without an id cannot be
// answered and is reported as malformed.
func (c *Client) NextQuestion(ctx context.Context, testID string) (*Question, error) {
	var q Question
	path := "/tests/" + url.PathEscape(testID) + "/question"
	ok, err := c.do(ctx, http.MethodGet, path, nil, QuestionSchema, &q)
	if err != nil || !ok {
		return nil, err
	}
	if q.ID == "" {
		return nil, &ErrMalformed{Path: path, Err: errors.New("missing question id")}
	}
	if q.Options == nil {
		q.Options = []string{}
	}
	return &q, nil
}

// SubmitAnswer submits the selected option index, or Unanswered.
func (c *Client) SubmitAnswer(ctx context.Context, testID, questionID string, selected int) (AnswerResult, error) {
	path := "/tests/" + url.PathEscape(testID) + "/questions/" + url.PathEscape(questionID) + "/answer"
	body := map[string]int{"selected": selected}

	var res AnswerResult
	if _, err := c.do(ctx, http.MethodPost, path, body, AnswerResultSchema, &res); err != nil {
		return AnswerResult{}, err
	}
	return res, nil
}

// StartTest creates a new test attempt and returns its id.
func (c *Client) StartTest(ctx context.Context) (string, error) {
	var res StartResult
	if _, err := c.do(ctx, http.MethodPost, "/tests/start", nil, StartResultSchema, &res); err != nil {
		return "", err
	}
	if res.ID == "" {
		return "", &ErrMalformed{Path: "/tests/start", Err: errors.New("missing test id")}
	}
	return res.ID, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	var res LoginResult
	if _, err := c.do(ctx, http.MethodPost, "/login_user", creds, LoginResultSchema, &res); err != nil {
		return LoginResult{}, err
	}
	if res.Token == "" {
		return LoginResult{}, &ErrMalformed{Path: "/login_user", Err: errors.New("missing token")}
	}
	if res.Email == "" {
		res.Email = creds.Email
	}
	return res, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, creds Credentials) error {
	_, err := c.do(ctx, http.MethodPost, "/register_user", creds, nil, nil)
	return err
}

// Me returns the current user.
func (c *Client) Me(ctx context.Context) (Me, error) {
	var me Me
	if _, err := c.do(ctx, http.MethodGet, "/me", nil, MeSchema, &me); err != nil {
		return Me{}, err
	}
	return me, nil
}

// History lists the current user's test attempts, newest first.
func (c *Client) History(ctx context.Context) ([]Test, error) {
	var tests []Test
	if _, err := c.do(ctx, http.MethodGet, "/tests/user/all", nil, HistorySchema, &tests); err != nil {
		return nil, err
	}
	return tests, nil
}

// AllResults lists every user's attempts. Admin only.
func (c *Client) AllResults(ctx context.Context) ([]TestResult, error) {
	var results []TestResult
	if _, err := c.do(ctx, http.MethodGet, "/tests/admin/all-results", nil, ResultsSchema, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Questions lists the question bank. Admin only.
func (c *Client) Questions(ctx context.Context) ([]BankQuestion, error) {
	var qs []BankQuestion
	if _, err := c.do(ctx, http.MethodGet, "/questions", nil, BankSchema, &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// CreateQuestion adds a question to the bank.
func (c *Client) CreateQuestion(ctx context.Context, q BankQuestion) error {
	q.ID = ""
	_, err := c.do(ctx, http.MethodPost, "/questions", q, nil, nil)
	return err
}

// UpdateQuestion replaces the bank question with q.ID.
func (c *Client) UpdateQuestion(ctx context.Context, q BankQuestion) error {
	if q.ID == "" {
		return errors.New("update question: missing id")
	}
	id := q.ID
	q.ID = ""
	_, err := c.do(ctx, http.MethodPut, "/questions/"+url.PathEscape(id), q, nil, nil)
	return err
}

// DeleteQuestion removes a question from the bank.
func (c *Client) DeleteQuestion(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/questions/"+url.PathEscape(id), nil, nil, nil)
	return err
}

// do performs one call and decodes the body into out. It reports false
// when the body is empty or null. Schema violations and partial decodes are
// recorded and the affected fields keep their zero values.
func (c *Client) do(ctx context.Context, method, path string, in any, schema *Schema, out any) (bool, error) {
	call := Call{Method: method, Path: path, RequestID: uuid.NewString()}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return false, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		call.Body = b
	}

	reply, err := c.transport.Do(ctx, call)
	if err != nil {
		return false, err
	}
	if reply.Status < 200 || reply.Status >= 300 {
		return false, &ErrStatus{Method: method, Path: path, Status: reply.Status, Message: serverMessage(reply.Body)}
	}

	body := bytes.TrimSpace(reply.Body)
	if out == nil || len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return false, nil
	}

	if !json.Valid(body) {
		mal := &ErrMalformed{Path: path, Body: body, Err: errors.New("invalid JSON")}
		c.report(ctx, store.KindMalformed, mal.Error())
		return false, mal
	}

	if err := validateBody(schema, body); err != nil {
		c.report(ctx, store.KindValidation, fmt.Sprintf("%s %s: %v", method, path, err))
	}

	if err := json.Unmarshal(body, out); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			return false, &ErrMalformed{Path: path, Body: body, Err: err}
		}
		c.report(ctx, store.KindMalformed, fmt.Sprintf("%s %s: %v", method, path, err))
	}
	return true, nil
}

// report records a client diagnostic, falling back to stderr.
func (c *Client) report(ctx context.Context, kind store.ClientEventKind, msg string) {
	if c.events == nil {
		return
	}
	err := c.events.AppendClientEvent(context.WithoutCancel(ctx), store.ClientEventData{
		Kind:    kind,
		Screen:  "api",
		Message: msg,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log client event: %v\n", err)
	}
}

// serverMessage extracts {"message": "..."} from an error body.
func serverMessage(body []byte) string {
	var m struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &m) != nil {
		return ""
	}
	if m.Message != "" {
		return m.Message
	}
	return m.Error
}
