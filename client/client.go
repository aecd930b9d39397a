package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/offermaster/i18n"
	"github.com/diewo77/offermaster/internal/calendar"
	"github.com/diewo77/offermaster/internal/models"
)

// ErrTransport wraps failures to reach the server at all. Requests are never
// retried automatically.
var ErrTransport = errors.New("transport error")

// ErrProjectExists is returned before submission when the project name is
// already used by one of the user's projects.
var ErrProjectExists = errors.New("project_exists")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Code)
}

// Localized is the text to show a user: the server's message when it sent
// one, otherwise the translated code.
func (e *APIError) Localized(lang string) string {
	if e.Message != "" {
		return e.Message
	}
	return i18n.T(lang, e.Code)
}

// UserMessage turns any client error into text for the user.
func UserMessage(err error, lang string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Localized(lang)
	}
	if errors.Is(err, ErrProjectExists) {
		return i18n.T(lang, "project_exists")
	}
	return i18n.T(lang, "generic_failure")
}

// Client talks JSON to the OfferMaster API.
type Client struct {
	BaseURL string
	Lang    string
	Session *Session
	HTTP    *http.Client
}

// New returns a client for baseURL sharing session.
func New(baseURL string, session *Session) *Client {
	if session == nil {
		session = NewSession(nil)
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Lang:    i18n.DefaultLang,
		Session: session,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	target := c.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept-Language", c.Lang)
	if t := c.Session.Token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}
	return req, nil
}

// send performs the request and returns the raw body of a 2xx answer.
func (c *Client) send(req *http.Request) ([]byte, http.Header, error) {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, decodeAPIError(resp.StatusCode, data)
	}
	return data, resp.Header, nil
}

func decodeAPIError(status int, data []byte) error {
	apiErr := &APIError{Status: status, Code: http.StatusText(status)}
	var body struct {
		Error   string         `json:"error"`
		Details map[string]any `json:"details"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		apiErr.Code = body.Error
		apiErr.Details = body.Details
		if m, ok := body.Details["message"].(string); ok {
			apiErr.Message = m
		}
	}
	return apiErr
}

// do sends a JSON request and decodes a JSON answer into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	req, err := c.newRequest(ctx, method, path, query, in)
	if err != nil {
		return err
	}
	data, _, err := c.send(req)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) download(ctx context.Context, path string, query url.Values) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	data, _, err := c.send(req)
	return data, err
}

func idPath(prefix string, id uint) string {
	return prefix + "/" + strconv.FormatUint(uint64(id), 10)
}

// --- auth ---

// Login signs in and stores the token in the session.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var res LoginResponse
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, in, &res); err != nil {
		return nil, err
	}
	if err := c.Session.SetToken(res.AccessToken); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates an account and signs in.
func (c *Client) Register(ctx context.Context, firstName, lastName, email, password string) (*LoginResponse, error) {
	var res LoginResponse
	in := map[string]string{"firstName": firstName, "lastName": lastName, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, in, &res); err != nil {
		return nil, err
	}
	if err := c.Session.SetToken(res.AccessToken); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/forgot-password", nil, map[string]string{"email": email}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	in := map[string]string{"token": token, "newPassword": password}
	return c.do(ctx, http.MethodPost, "/api/auth/reset-password", nil, in, nil)
}

// Logout forgets the session token. The server keeps no session state.
func (c *Client) Logout() error { return c.Session.Logout() }

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateMe(ctx context.Context, in ProfileRequest) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPut, "/api/users/me", nil, in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// --- catalog ---

func (c *Client) Articles(ctx context.Context, page, size int, search string) (*ArticlePage, error) {
	q := url.Values{"page": {strconv.Itoa(page)}, "size": {strconv.Itoa(size)}}
	if search != "" {
		q.Set("search", search)
	}
	var out ArticlePage
	if err := c.do(ctx, http.MethodGet, "/articles", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllArticles walks every catalog page.
func (c *Client) AllArticles(ctx context.Context) ([]models.Article, error) {
	var all []models.Article
	for page := 0; ; page++ {
		p, err := c.Articles(ctx, page, 100, "")
		if err != nil {
			return nil, err
		}
		all = append(all, p.Content...)
		if page+1 >= p.TotalPages {
			return all, nil
		}
	}
}

func (c *Client) CreateArticle(ctx context.Context, in ArticleRequest) (*models.Article, error) {
	var a models.Article
	if err := c.do(ctx, http.MethodPost, "/articles", nil, in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) UpdateArticle(ctx context.Context, id uint, in ArticleRequest) (*models.Article, error) {
	var a models.Article
	if err := c.do(ctx, http.MethodPut, idPath("/articles", id), nil, in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) DeleteArticle(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, idPath("/articles", id), nil, nil, nil)
}

// --- quotes ---

// Quotes lists the user's quotes. query may carry project/from/to/sort/order.
func (c *Client) Quotes(ctx context.Context, query url.Values) ([]QuoteSummary, error) {
	var out []QuoteSummary
	if err := c.do(ctx, http.MethodGet, "/api/quotes", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Quote(ctx context.Context, id uint) (*QuoteSummary, error) {
	var out QuoteSummary
	if err := c.do(ctx, http.MethodGet, idPath("/api/quotes", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateQuote submits a quote and returns its id.
func (c *Client) CreateQuote(ctx context.Context, in CreateQuoteRequest) (uint, error) {
	var id uint
	if err := c.do(ctx, http.MethodPost, "/api/quotes", nil, in, &id); err != nil {
		return 0, err
	}
	return id, nil
}

func (c *Client) QuotePDF(ctx context.Context, id uint) ([]byte, error) {
	return c.download(ctx, idPath("/api/quotes", id)+"/pdf", nil)
}

func (c *Client) EmailQuote(ctx context.Context, id uint, recipientEmail, recipientName string) error {
	q := url.Values{"recipientEmail": {recipientEmail}}
	if recipientName != "" {
		q.Set("recipientName", recipientName)
	}
	return c.do(ctx, http.MethodPost, idPath("/api/quotes", id)+"/email", q, nil, nil)
}

func (c *Client) ExportQuotes(ctx context.Context, query url.Values) ([]byte, error) {
	return c.download(ctx, "/api/quotes/export.xlsx", query)
}

// --- projects ---

func (c *Client) Projects(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	if err := c.do(ctx, http.MethodGet, "/api/projects", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Project(ctx context.Context, id uint) (*models.Project, error) {
	var p models.Project
	if err := c.do(ctx, http.MethodGet, idPath("/api/projects", id), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ProjectNameTaken reports whether name collides, ignoring case, with a
// project in projects other than exceptID.
func ProjectNameTaken(projects []models.Project, name string, exceptID uint) bool {
	key := models.NameKeyOf(name)
	for _, p := range projects {
		if p.ID != exceptID && models.NameKeyOf(p.Name) == key {
			return true
		}
	}
	return false
}

// CreateProject checks the name against the user's projects before posting.
// A duplicate returns ErrProjectExists without reaching the server.
func (c *Client) CreateProject(ctx context.Context, in ProjectRequest) (*models.Project, error) {
	existing, err := c.Projects(ctx)
	if err != nil {
		return nil, err
	}
	return c.createProject(ctx, in, existing)
}

func (c *Client) createProject(ctx context.Context, in ProjectRequest, existing []models.Project) (*models.Project, error) {
	if ProjectNameTaken(existing, in.Name, 0) {
		return nil, ErrProjectExists
	}
	var p models.Project
	if err := c.do(ctx, http.MethodPost, "/api/projects", nil, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProject applies patch. A rename is checked like CreateProject.
func (c *Client) UpdateProject(ctx context.Context, id uint, patch ProjectPatch) (*models.Project, error) {
	if patch.Name != nil {
		existing, err := c.Projects(ctx)
		if err != nil {
			return nil, err
		}
		if ProjectNameTaken(existing, *patch.Name, id) {
			return nil, ErrProjectExists
		}
	}
	var p models.Project
	if err := c.do(ctx, http.MethodPut, idPath("/api/projects", id), nil, patch, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProject(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/projects", id), nil, nil, nil)
}

// --- calendar ---

func (c *Client) Events(ctx context.Context) ([]models.CalendarEvent, error) {
	var out []models.CalendarEvent
	if err := c.do(ctx, http.MethodGet, "/api/calendar-events", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateEvent(ctx context.Context, in EventRequest) (*models.CalendarEvent, error) {
	var e models.CalendarEvent
	if err := c.do(ctx, http.MethodPost, "/api/calendar-events", nil, in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/calendar-events", id), nil, nil, nil)
}

// Calendar fetches the server-built grid for date and view.
func (c *Client) Calendar(ctx context.Context, date models.Date, view calendar.View) (*calendar.Grid, error) {
	q := url.Values{"view": {string(view)}}
	if !date.IsZero() {
		q.Set("date", date.String())
	}
	var g calendar.Grid
	if err := c.do(ctx, http.MethodGet, "/api/calendar", q, nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}
