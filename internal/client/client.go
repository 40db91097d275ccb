// Package client is a typed HTTP client for the portfolio API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"io.winapps.casportfolio/internal/auth"
	"io.winapps.casportfolio/internal/media"
	createmodels "io.winapps.casportfolio/internal/models/create_entry"
	dashboardmodels "io.winapps.casportfolio/internal/models/dashboard"
	entrymodels "io.winapps.casportfolio/internal/models/entry"
	uploadmodels "io.winapps.casportfolio/internal/models/upload_media"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("admin session required")
)

// APIError is a non-2xx answer the client has no sentinel for
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	session string
}

type Option func(*Client)

// WithHTTPClient replaces the default client (30s timeout)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithSessionCookie restores a saved "admin_auth=<token>" cookie text
func WithSessionCookie(cookieText string) Option {
	return func(c *Client) { c.session = sessionFromCookieText(cookieText) }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SessionCookie is the cookie text to persist after a login, empty before one
func (c *Client) SessionCookie() string {
	if c.session == "" {
		return ""
	}
	return auth.CookieName + "=" + c.session
}

func sessionFromCookieText(text string) string {
	for _, part := range strings.Split(text, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if ok && name == auth.CookieName {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// Login posts the admin password. A wrong password is (false, nil); the
// error is reserved for requests that did not get an answer.
func (c *Client) Login(ctx context.Context, password string) (bool, error) {
	body, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		return false, err
	}
	resp, err := c.do(ctx, http.MethodPost, "/auth", bytes.NewReader(body), "application/json")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		for _, ck := range resp.Cookies() {
			if ck.Name == auth.CookieName {
				c.session = ck.Value
			}
		}
		return true, nil
	case http.StatusUnauthorized:
		return false, nil
	}
	return false, readError(resp)
}

// Session asks the server whether the saved session is still valid
func (c *Client) Session(ctx context.Context) (bool, error) {
	var out struct {
		Authenticated bool `json:"authenticated"`
	}
	if err := c.getJSON(ctx, "/auth/session", &out); err != nil {
		return false, err
	}
	return out.Authenticated, nil
}

func (c *Client) ListEntries(ctx context.Context, kind *entrymodels.Kind) ([]entrymodels.Entry, error) {
	path := "/entries"
	if kind != nil {
		path += "?kind=" + url.QueryEscape(string(*kind))
	}
	var dtos []entrymodels.EntryDTO
	if err := c.getJSON(ctx, path, &dtos); err != nil {
		return nil, err
	}

	entries := make([]entrymodels.Entry, 0, len(dtos))
	for _, dto := range dtos {
		e, err := entrymodels.FromDTO(dto)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", dto.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (c *Client) CreateEntry(ctx context.Context, req createmodels.CreateEntryRequest) (*entrymodels.Entry, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, http.MethodPost, "/entries", bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return nil, readError(resp)
	}

	var dto entrymodels.EntryDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("failed to decode entry: %w", err)
	}
	e, err := entrymodels.FromDTO(dto)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/entries/"+url.PathEscape(id), nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return readError(resp)
	}
	return nil
}

// UploadMedia sends files through the server's media proxy
func (c *Client) UploadMedia(ctx context.Context, kind entrymodels.MediaKind, files []media.File) ([]entrymodels.MediaItem, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("kind", string(kind)); err != nil {
		return nil, err
	}
	for _, f := range files {
		part, err := media.CreateFilePart(w, "file", f)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, f.Body); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/media", &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	var out uploadmodels.UploadMediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	return out.Media, nil
}

type DashboardQuery struct {
	Kind  *entrymodels.Kind
	Query string
	Goal  *int
	TZ    string
}

func (c *Client) Dashboard(ctx context.Context, q DashboardQuery) (*dashboardmodels.DashboardResponse, error) {
	params := url.Values{}
	if q.Kind != nil {
		params.Set("kind", string(*q.Kind))
	}
	if q.Query != "" {
		params.Set("q", q.Query)
	}
	if q.Goal != nil {
		params.Set("goal", strconv.Itoa(*q.Goal))
	}
	if q.TZ != "" {
		params.Set("tz", q.TZ)
	}
	path := "/dashboard"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var out dashboardmodels.DashboardResponse
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return readError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: c.session})
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func readError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	var body struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(raw, &body) != nil {
		body.Error = strings.TrimSpace(string(raw))
	}
	return &APIError{Status: resp.StatusCode, Message: body.Error}
}
