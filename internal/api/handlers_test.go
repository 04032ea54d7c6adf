package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"examtrack/internal/auth"
	"examtrack/internal/config"
	"examtrack/internal/exams"
	"examtrack/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// testToday pins the listing date for every handler test.
var testToday = time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, *store.Memory) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{
		Port:          "8080",
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
		TemplateGlob:  "../../web/templates/*.html",
		StaticDir:     "../../web/static",
		LogLevel:      "info",
	}

	st := store.NewMemory()
	srv := NewServer(cfg, auth.NewService(st, log), exams.NewService(st, log), log)
	srv.handler.now = func() time.Time { return testToday }
	return srv, st
}

func postForm(srv *Server, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func get(srv *Server, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, srv *Server, username, password string) {
	t.Helper()
	w := postForm(srv, "/register", url.Values{"username": {username}, "password": {password}}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))
}

func login(t *testing.T, srv *Server, username, password string) *http.Cookie {
	t.Helper()
	w := postForm(srv, "/login", url.Values{"username": {username}, "password": {password}}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))

	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie set on login")
	return nil
}

func addExam(t *testing.T, srv *Server, cookie *http.Cookie, form url.Values) {
	t.Helper()
	w := postForm(srv, "/add", form, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
}

func physicsForm() url.Values {
	return url.Values{
		"exam_name": {"Physics"},
		"exam_type": {"written"},
		"exam_date": {"2025-06-01"},
		"deadline":  {"2025-05-01"},
		"notes":     {"bring a calculator"},
		"link":      {"https://example.com/physics"},
	}
}

func TestRegisterLoginAndListing(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	register(t, srv, "alice", "s3cret")
	cookie := login(t, srv, "alice", "s3cret")

	addExam(t, srv, cookie, physicsForm())

	w := get(srv, "/", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Physics")
	assert.Contains(t, body, "Application Open")
	assert.Contains(t, body, "47")
}

func TestRegister_Duplicate(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	register(t, srv, "alice", "s3cret")

	w := postForm(srv, "/register", url.Values{"username": {"alice"}, "password": {"other"}}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Username already exists", w.Body.String())
}

func TestRegister_EmptyFields(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	w := postForm(srv, "/register", url.Values{"username": {""}, "password": {"s3cret"}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_BadCredentialsReShowsForm(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	register(t, srv, "alice", "s3cret")

	w := postForm(srv, "/login", url.Values{"username": {"alice"}, "password": {"wrong"}}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid username or password")
	for _, c := range w.Result().Cookies() {
		assert.NotEqual(t, sessionCookie, c.Name, "failed login must not establish a session")
	}
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	for _, path := range []string{"/", "/add", "/edit/some-id", "/delete/some-id"} {
		w := get(srv, path, nil)
		assert.Equal(t, http.StatusFound, w.Code, "GET %s", path)
		assert.Equal(t, "/login", w.Header().Get("Location"), "GET %s", path)
	}
}

func TestInvalidSessionRedirectsToLogin(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	w := get(srv, "/", &http.Cookie{Name: sessionCookie, Value: "garbage"})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestLogout(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	register(t, srv, "alice", "s3cret")
	cookie := login(t, srv, "alice", "s3cret")

	w := get(srv, "/logout", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "logout must clear the session cookie")
}

func TestAddExam_ValidationError(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	register(t, srv, "alice", "s3cret")
	cookie := login(t, srv, "alice", "s3cret")

	form := physicsForm()
	form.Set("exam_date", "not-a-date")
	w := postForm(srv, "/add", form, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "exam date must be a date")
}

func TestEditExam(t *testing.T) {
	t.Parallel()

	srv, st := newTestServer(t)

	register(t, srv, "alice", "s3cret")
	cookie := login(t, srv, "alice", "s3cret")
	addExam(t, srv, cookie, physicsForm())

	examID := onlyExamID(t, st, "alice")

	w := get(srv, "/edit/"+examID, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Physics")
	assert.Contains(t, w.Body.String(), "2025-06-01")

	form := physicsForm()
	form.Set("exam_name", "Physics II")
	w = postForm(srv, "/edit/"+examID, form, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)

	exam, err := st.ExamByID(examID)
	require.NoError(t, err)
	assert.Equal(t, "Physics II", exam.ExamName)
}

func TestEditExam_UnknownID(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	register(t, srv, "alice", "s3cret")
	cookie := login(t, srv, "alice", "s3cret")

	w := get(srv, "/edit/no-such-id", cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOwnerIsolation(t *testing.T) {
	t.Parallel()

	srv, st := newTestServer(t)

	register(t, srv, "alice", "s3cret")
	register(t, srv, "bob", "hunter2")

	aliceCookie := login(t, srv, "alice", "s3cret")
	bobCookie := login(t, srv, "bob", "hunter2")

	addExam(t, srv, aliceCookie, physicsForm())
	examID := onlyExamID(t, st, "alice")

	// Bob's edit page is a silent redirect, not a 403 or 404.
	w := get(srv, "/edit/"+examID, bobCookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	// Bob's edit post changes nothing.
	form := physicsForm()
	form.Set("exam_name", "Hijacked")
	w = postForm(srv, "/edit/"+examID, form, bobCookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	exam, err := st.ExamByID(examID)
	require.NoError(t, err)
	assert.Equal(t, "Physics", exam.ExamName)

	// Bob's delete is a no-op that still lands on his (unchanged) listing.
	w = get(srv, "/delete/"+examID, bobCookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	_, err = st.ExamByID(examID)
	assert.NoError(t, err, "exam must survive a non-owner delete")

	w = get(srv, "/", bobCookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Physics")
}

func TestDeleteExam(t *testing.T) {
	t.Parallel()

	srv, st := newTestServer(t)

	register(t, srv, "alice", "s3cret")
	cookie := login(t, srv, "alice", "s3cret")
	addExam(t, srv, cookie, physicsForm())

	examID := onlyExamID(t, st, "alice")

	w := get(srv, "/delete/"+examID, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	_, err := st.ExamByID(examID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// onlyExamID returns the id of the user's single exam.
func onlyExamID(t *testing.T, st *store.Memory, username string) string {
	t.Helper()

	user, err := st.UserByUsername(username)
	require.NoError(t, err)

	owned, err := st.ExamsByOwner(user.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	return owned[0].ID
}
