package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"io.winapps.casportfolio/internal/auth"
	"io.winapps.casportfolio/internal/media"
	dashboardmodels "io.winapps.casportfolio/internal/models/dashboard"
	entrymodels "io.winapps.casportfolio/internal/models/entry"
	"io.winapps.casportfolio/internal/store"
)

const testPassword = "open sesame"

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router   *gin.Engine
	store    store.Store
	sessions *auth.SessionManager
	cookie   *http.Cookie
}

type testOption func(*Deps)

func withUploader(u media.Uploader) testOption { return func(d *Deps) { d.Uploader = u } }
func withStore(s store.Store) testOption       { return func(d *Deps) { d.Store = s } }
func withoutGuard() testOption                 { return func(d *Deps) { d.AdminGuard = false } }
func withLocation(loc *time.Location) testOption {
	return func(d *Deps) { d.Location = loc }
}

func newTestServer(t *testing.T, opts ...testOption) *testServer {
	t.Helper()
	sessions, err := auth.NewSessionManager("test-secret", time.Hour)
	require.NoError(t, err)

	d := Deps{
		Store:        store.NewMemory(),
		Passwords:    auth.NewPasswordChecker(testPassword, ""),
		Sessions:     sessions,
		SecureCookie: true,
		AdminGuard:   true,
		MonthlyGoal:  4,
		Location:     time.UTC,
		Logger:       zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(&d)
	}

	router, err := NewRouter(d)
	require.NoError(t, err)

	token, err := sessions.Issue()
	require.NoError(t, err)

	return &testServer{
		router:   router,
		store:    d.Store,
		sessions: sessions,
		cookie:   &http.Cookie{Name: auth.CookieName, Value: token},
	}
}

func (s *testServer) do(t *testing.T, method, path string, body io.Reader, admin bool, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if admin {
		req.AddCookie(s.cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) postJSON(t *testing.T, path, body string) *httptest.ResponseRecorder {
	return s.do(t, http.MethodPost, path, strings.NewReader(body), true, "application/json")
}

func (s *testServer) get(t *testing.T, path string) *httptest.ResponseRecorder {
	return s.do(t, http.MethodGet, path, nil, false, "")
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestCreateAndListEntries(t *testing.T) {
	s := newTestServer(t)

	w := s.postJSON(t, "/entries", `{
		"kind": "creativity",
		"title": "Clay sculpture",
		"description": "First try at hand building",
		"week": 3,
		"media": [{"kind": "image", "name": "bowl.jpg", "url": "https://cdn.example/bowl.jpg"}]
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[entrymodels.EntryDTO](t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, entrymodels.KindCreativity, created.Kind)
	require.NotNil(t, created.Week)
	assert.Equal(t, 3, *created.Week)
	assert.Empty(t, created.EntryDate)
	require.Len(t, created.Media, 1)
	_, err := time.Parse(entrymodels.TimeLayout, created.CreatedAt)
	assert.NoError(t, err)

	w = s.get(t, "/entries")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]entrymodels.EntryDTO](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, created, list[0])
}

func TestCreateEntryDefaultsAndWireShape(t *testing.T) {
	s := newTestServer(t)

	w := s.postJSON(t, "/entries", `{"kind":"conversation","title":"Check-in","description":"Talked goals"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Contains(t, raw, "week")
	assert.Nil(t, raw["week"])
	assert.NotContains(t, raw, "entryDate")
	assert.Equal(t, []interface{}{}, raw["media"])
	assert.NotContains(t, raw, "internalId")
}

func TestCreateEntryWithEntryDate(t *testing.T) {
	s := newTestServer(t)

	w := s.postJSON(t, "/entries", `{"kind":"service","title":"Beach clean","description":"Bags","entryDate":"2025-01-03"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "2025-01-03T00:00:00.000Z", decode[entrymodels.EntryDTO](t, w).EntryDate)

	w = s.postJSON(t, "/entries", `{"kind":"service","title":"Beach clean","description":"Bags","entryDate":"2025-01-03T08:30:00.123+02:00"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "2025-01-03T06:30:00.123Z", decode[entrymodels.EntryDTO](t, w).EntryDate)
}

func TestBareEntryDateIsLocalMidnight(t *testing.T) {
	s := newTestServer(t, withLocation(time.FixedZone("UTC-5", -5*60*60)))

	w := s.postJSON(t, "/entries", `{"kind":"activity","title":"Hike","description":"Ridge","entryDate":"2025-03-01"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "2025-03-01T05:00:00.000Z", decode[entrymodels.EntryDTO](t, w).EntryDate)

	w = s.get(t, "/dashboard")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	d := decode[dashboardmodels.DashboardResponse](t, w)
	require.Len(t, d.Timeline, 1)
	assert.Equal(t, "2025-03-01", d.Timeline[0].Day)
}

func TestCreateEntryValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"missing kind", `{"title":"t","description":"d"}`, "Missing required fields"},
		{"missing title", `{"kind":"service","description":"d"}`, "Missing required fields"},
		{"blank description", `{"kind":"service","title":"t","description":"   "}`, "Missing required fields"},
		{"unknown kind", `{"kind":"sport","title":"t","description":"d"}`, `Invalid kind "sport"`},
		{"bad media kind", `{"kind":"service","title":"t","description":"d","media":[{"kind":"pdf","url":"u"}]}`, `Invalid media kind "pdf"`},
		{"negative week", `{"kind":"service","title":"t","description":"d","week":-1}`, "week must not be negative"},
		{"bad entry date", `{"kind":"service","title":"t","description":"d","entryDate":"yesterday"}`, "Invalid entryDate"},
		{"malformed json", `{"kind":`, "Invalid request format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.postJSON(t, "/entries", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decode[map[string]string](t, w)["error"], tt.wantErr)
		})
	}

	list, err := s.store.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateEntryAcceptsLongTitle(t *testing.T) {
	s := newTestServer(t)
	title := strings.Repeat("Long reflection title ", 40)

	w := s.postJSON(t, "/entries", `{"kind":"creativity","title":"`+title+`","description":"d"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, title, decode[entrymodels.EntryDTO](t, w).Title)

	list, err := s.store.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, title, list[0].Title)
}

func TestListEntriesByKind(t *testing.T) {
	s := newTestServer(t)
	for _, body := range []string{
		`{"kind":"service","title":"one","description":"d"}`,
		`{"kind":"activity","title":"two","description":"d"}`,
		`{"kind":"service","title":"three","description":"d"}`,
	} {
		require.Equal(t, http.StatusCreated, s.postJSON(t, "/entries", body).Code)
	}

	list := decode[[]entrymodels.EntryDTO](t, s.get(t, "/entries?kind=service"))
	require.Len(t, list, 2)
	assert.Equal(t, "three", list[0].Title)
	assert.Equal(t, "one", list[1].Title)

	assert.Equal(t, http.StatusBadRequest, s.get(t, "/entries?kind=sport").Code)
}

func TestListEntriesEmptyIsArray(t *testing.T) {
	s := newTestServer(t)
	w := s.get(t, "/entries")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestDeleteEntry(t *testing.T) {
	s := newTestServer(t)
	created := decode[entrymodels.EntryDTO](t, s.postJSON(t, "/entries", `{"kind":"service","title":"t","description":"d"}`))

	w := s.do(t, http.MethodDelete, "/entries/"+created.ID, nil, true, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = s.do(t, http.MethodDelete, "/entries/"+created.ID, nil, true, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"Not found"}`, w.Body.String())

	assert.JSONEq(t, `[]`, s.get(t, "/entries").Body.String())
}

type brokenStore struct{ store.Store }

var errStorageDown = errors.New("storage down")

func (brokenStore) Create(context.Context, entrymodels.NewEntry) (*entrymodels.Entry, error) {
	return nil, errStorageDown
}
func (brokenStore) List(context.Context, *entrymodels.Kind) ([]entrymodels.Entry, error) {
	return nil, errStorageDown
}
func (brokenStore) Delete(context.Context, string) error { return errStorageDown }
func (brokenStore) Ping(context.Context) error           { return errStorageDown }

func TestStorageFaults(t *testing.T) {
	s := newTestServer(t, withStore(brokenStore{}))

	w := s.do(t, http.MethodDelete, "/entries/abc", nil, true, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"Server error"}`, w.Body.String())

	assert.Equal(t, http.StatusInternalServerError, s.get(t, "/entries").Code)
	assert.Equal(t, http.StatusInternalServerError, s.postJSON(t, "/entries", `{"kind":"service","title":"t","description":"d"}`).Code)
	assert.Equal(t, http.StatusInternalServerError, s.get(t, "/dashboard").Code)
	assert.Equal(t, http.StatusServiceUnavailable, s.get(t, "/health").Code)
}

func TestAdminRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/entries", strings.NewReader(`{"kind":"service","title":"t","description":"d"}`), false, "application/json")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodDelete, "/entries/abc", nil, false, "").Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/media", nil, false, "").Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/admin/entries", nil, false, "").Code)

	// public reads stay open
	assert.Equal(t, http.StatusOK, s.get(t, "/entries").Code)
	assert.Equal(t, http.StatusOK, s.get(t, "/dashboard").Code)
}

func TestAdminGuardCanBeDisabled(t *testing.T) {
	s := newTestServer(t, withoutGuard())
	w := s.do(t, http.MethodPost, "/entries", strings.NewReader(`{"kind":"service","title":"t","description":"d"}`), false, "application/json")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/auth", strings.NewReader(`{"password":"nope"}`), false, "application/json")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false}`, w.Body.String())
	assert.Empty(t, w.Result().Cookies())

	w = s.do(t, http.MethodPost, "/auth", strings.NewReader(`not json`), false, "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/auth", strings.NewReader(`{"password":"`+testPassword+`"}`), false, "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, auth.CookieName, c.Name)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, int(time.Hour.Seconds()), c.MaxAge)

	_, err := s.sessions.Validate(c.Value)
	assert.NoError(t, err)

	// the issued cookie opens the session check
	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req.AddCookie(c)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.JSONEq(t, `{"authenticated":true}`, rec.Body.String())
}

func TestSessionCheckWithoutCookie(t *testing.T) {
	s := newTestServer(t)
	w := s.get(t, "/auth/session")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())
}

type stubUploader struct {
	err error
}

func (u stubUploader) Upload(_ context.Context, f media.File, kind entrymodels.MediaKind) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	return "https://cdn.example/" + media.ResourceType(kind) + "/" + f.Name, nil
}

func multipartBody(t *testing.T, kind string, names ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if kind != "" {
		require.NoError(t, w.WriteField("kind", kind))
	}
	for _, name := range names {
		part, err := w.CreateFormFile("file", name)
		require.NoError(t, err)
		_, _ = part.Write([]byte("data of " + name))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadMedia(t *testing.T) {
	s := newTestServer(t, withUploader(stubUploader{}))

	body, ct := multipartBody(t, "audio", "talk.mp3", "notes.m4a")
	w := s.do(t, http.MethodPost, "/media", body, true, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[struct {
		Media []entrymodels.MediaItem `json:"media"`
	}](t, w)
	require.Len(t, resp.Media, 2)
	assert.Equal(t, entrymodels.MediaItem{Kind: entrymodels.MediaAudio, Name: "talk.mp3", URL: "https://cdn.example/video/talk.mp3"}, resp.Media[0])
	assert.Equal(t, "notes.m4a", resp.Media[1].Name)
}

type recordingUploader struct {
	mu    sync.Mutex
	types map[string]string
}

func (u *recordingUploader) Upload(_ context.Context, f media.File, kind entrymodels.MediaKind) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.types[f.Name] = f.ContentType
	return "https://cdn.example/" + f.Name, nil
}

func TestUploadMediaPassesPartContentType(t *testing.T) {
	up := &recordingUploader{types: map[string]string{}}
	s := newTestServer(t, withUploader(up))

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("kind", "image"))
	for _, f := range []media.File{
		{Name: "poster.png", ContentType: "image/png"},
		{Name: "sketch.jpg"},
	} {
		part, err := media.CreateFilePart(w, "file", f)
		require.NoError(t, err)
		_, _ = part.Write([]byte("pixels"))
	}
	require.NoError(t, w.Close())

	resp := s.do(t, http.MethodPost, "/media", &buf, true, w.FormDataContentType())
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "image/png", up.types["poster.png"])
	assert.Equal(t, "image/jpeg", up.types["sketch.jpg"])
}

func TestUploadMediaBadInput(t *testing.T) {
	s := newTestServer(t, withUploader(stubUploader{}))

	body, ct := multipartBody(t, "video", "a.mp4")
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/media", body, true, ct).Code)

	body, ct = multipartBody(t, "image")
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/media", body, true, ct).Code)

	assert.Equal(t, http.StatusBadRequest, s.postJSON(t, "/media", `{}`).Code)
}

func TestUploadMediaUpstreamFailure(t *testing.T) {
	s := newTestServer(t, withUploader(stubUploader{err: &media.UploadError{Status: 500, Body: "secret upstream detail"}}))

	body, ct := multipartBody(t, "image", "a.jpg")
	w := s.do(t, http.MethodPost, "/media", body, true, ct)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"Media upload failed"}`, w.Body.String())
}

func TestUploadMediaNotConfigured(t *testing.T) {
	s := newTestServer(t)

	body, ct := multipartBody(t, "image", "a.jpg")
	assert.Equal(t, http.StatusServiceUnavailable, s.do(t, http.MethodPost, "/media", body, true, ct).Code)
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t)
	today := time.Now().UTC().Format(entrymodels.DateLayout)
	for _, body := range []string{
		`{"kind":"service","title":"Pack boxes","description":"food bank","entryDate":"` + today + `"}`,
		`{"kind":"activity","title":"Run","description":"5k"}`,
		`{"kind":"service","title":"Tutoring","description":"maths","entryDate":"2020-01-01"}`,
	} {
		require.Equal(t, http.StatusCreated, s.postJSON(t, "/entries", body).Code)
	}

	w := s.get(t, "/dashboard?kind=service&q=pack&goal=2&tz=UTC")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Counts []struct {
			Kind  string `json:"kind"`
			Count int    `json:"count"`
		} `json:"counts"`
		Total       int `json:"total"`
		MonthCount  int `json:"monthCount"`
		Streak      int `json:"streak"`
		Goal        int `json:"goal"`
		GoalPercent int `json:"goalPercent"`
		Timeline    []struct {
			Day     string                 `json:"day"`
			Entries []entrymodels.EntryDTO `json:"entries"`
		} `json:"timeline"`
		Recent []entrymodels.EntryDTO `json:"recent"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Counts, 4)
	assert.Equal(t, "creativity", resp.Counts[0].Kind)
	assert.Equal(t, 2, resp.Counts[2].Count)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.MonthCount)
	assert.Equal(t, 1, resp.Streak)
	assert.Equal(t, 2, resp.Goal)
	assert.Equal(t, 100, resp.GoalPercent)
	require.Len(t, resp.Timeline, 1)
	assert.Equal(t, today, resp.Timeline[0].Day)
	assert.Equal(t, "Pack boxes", resp.Timeline[0].Entries[0].Title)
	assert.Len(t, resp.Recent, 3)
}

func TestDashboardBadParams(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, s.get(t, "/dashboard?kind=sport").Code)
	assert.Equal(t, http.StatusBadRequest, s.get(t, "/dashboard?goal=-1").Code)
	assert.Equal(t, http.StatusBadRequest, s.get(t, "/dashboard?goal=many").Code)
	assert.Equal(t, http.StatusBadRequest, s.get(t, "/dashboard?tz=Mars/Olympus").Code)
}

func TestStrandNarrowsMedia(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.postJSON(t, "/entries", `{
		"kind":"conversation","title":"Check-in","description":"d",
		"media":[{"kind":"image","name":"a.jpg","url":"https://x/a.jpg"},{"kind":"audio","name":"b.mp3","url":"https://x/b.mp3"}]
	}`).Code)
	require.Equal(t, http.StatusCreated, s.postJSON(t, "/entries", `{"kind":"service","title":"t","description":"d"}`).Code)

	w := s.get(t, "/strands/conversations")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Kind          string                 `json:"kind"`
		Label         string                 `json:"label"`
		ExpectedMedia string                 `json:"expectedMedia"`
		UsesWeek      bool                   `json:"usesWeek"`
		Entries       []entrymodels.EntryDTO `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "conversation", resp.Kind)
	assert.Equal(t, "CAS Conversation", resp.Label)
	assert.Equal(t, "audio", resp.ExpectedMedia)
	assert.False(t, resp.UsesWeek)
	require.Len(t, resp.Entries, 1)
	require.Len(t, resp.Entries[0].Media, 1)
	assert.Equal(t, "b.mp3", resp.Entries[0].Media[0].Name)

	assert.Equal(t, http.StatusNotFound, s.get(t, "/strands/conversation").Code)
}

func TestAdminEntries(t *testing.T) {
	s := newTestServer(t)
	for _, body := range []string{
		`{"kind":"service","title":"Pack boxes","description":"d","media":[{"kind":"image","name":"a","url":"u"},{"kind":"image","name":"b","url":"u"}]}`,
		`{"kind":"activity","title":"Run","description":"helped pack the van"}`,
		`{"kind":"creativity","title":"Paint","description":"d"}`,
	} {
		require.Equal(t, http.StatusCreated, s.postJSON(t, "/entries", body).Code)
	}

	w := s.do(t, http.MethodGet, "/admin/entries?q=PACK", nil, true, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Entries []struct {
			Title      string `json:"title"`
			MediaCount int    `json:"mediaCount"`
		} `json:"entries"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "Run", resp.Entries[0].Title)
	assert.Equal(t, "Pack boxes", resp.Entries[1].Title)
	assert.Equal(t, 2, resp.Entries[1].MediaCount)
	assert.Equal(t, 3, resp.Total)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := s.get(t, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	s.get(t, "/entries")
	w = s.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cas_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodOptions, "/entries", nil, false, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
