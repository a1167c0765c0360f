package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/nano-social/backend/internal/cache"
	"github.com/anonto42/nano-social/backend/internal/identity"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/push"
	"github.com/anonto42/nano-social/backend/internal/repositories/memstore"
	"github.com/anonto42/nano-social/backend/internal/services"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    *struct {
		HasMore    bool   `json:"hasMore"`
		NextCursor string `json:"nextCursor"`
		PageSize   int    `json:"pageSize"`
	} `json:"meta"`
	Error *struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

type uploadRecorder struct {
	keys []string
}

func (u *uploadRecorder) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	u.keys = append(u.keys, key)
	return "https://cdn.example.com/" + key, nil
}

func (u *uploadRecorder) Delete(context.Context, string) error { return nil }

type server struct {
	e          *echo.Echo
	verifier   *identity.JWTVerifier
	dispatcher *services.NotificationDispatcher
	uploads    *uploadRecorder
}

func newServer(t *testing.T) *server {
	t.Helper()
	store := memstore.New()
	verifier, err := identity.NewJWTVerifier("router-test-secret-0123456789")
	require.NoError(t, err)
	profiles := cache.NewProfiles(store, cache.Noop{}, time.Minute)
	dispatcher := services.NewNotificationDispatcher(store, push.Noop{})
	uploads := &uploadRecorder{}
	t.Cleanup(dispatcher.Wait)

	e := echo.New()
	SetupRoutes(e, Dependencies{
		Verifier:       verifier,
		Users:          services.NewUserService(store, profiles),
		Follows:        services.NewFollowService(store, profiles, dispatcher),
		Conversations:  services.NewConversationService(store, profiles, dispatcher),
		Notifications:  dispatcher,
		Posts:          services.NewPostService(store, uploads, profiles, dispatcher),
		Media:          services.NewMediaService(uploads, 1<<20),
		MaxUploadBytes: 1 << 20,
	})
	return &server{e: e, verifier: verifier, dispatcher: dispatcher, uploads: uploads}
}

func (s *server) token(t *testing.T, uid string) string {
	t.Helper()
	tok, err := s.verifier.Issue(uid, time.Hour)
	require.NoError(t, err)
	return tok
}

func (s *server) do(t *testing.T, method, path, uid string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if uid != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token(t, uid))
	}
	return s.serve(t, req)
}

func (s *server) serve(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func (s *server) createProfile(t *testing.T, uid, name string) {
	t.Helper()
	code, env := s.do(t, http.MethodPost, "/api/v1/users/me", uid, models.CreateProfileRequest{DisplayName: name, Handle: uid})
	require.Equal(t, http.StatusCreated, code, env.Error)
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestRequestsNeedBearerCredential(t *testing.T) {
	s := newServer(t)

	code, env := s.do(t, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "unauthorized", env.Error.Kind)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-jwt")
	code, env = s.serve(t, req)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "unauthorized", env.Error.Kind)

	code, _ = s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestChatFlowOverHTTP(t *testing.T) {
	s := newServer(t)
	s.createProfile(t, "alice", "Alice")
	s.createProfile(t, "bob", "Bob")

	code, env := s.do(t, http.MethodPost, "/api/v1/chats", "alice", models.CreateChatRequest{UserID: "bob"})
	require.Equal(t, http.StatusCreated, code)
	chat := decode[models.Chat](t, env.Data)
	assert.Equal(t, "alice_bob", chat.ID)

	code, _ = s.do(t, http.MethodPost, "/api/v1/chats", "bob", models.CreateChatRequest{UserID: "alice"})
	assert.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodPost, "/api/v1/chats/alice_bob/messages", "alice", models.SendMessageRequest{Text: "hi"})
	require.Equal(t, http.StatusCreated, code)
	msg := decode[models.Message](t, env.Data)
	assert.Equal(t, "hi", msg.Text)
	s.dispatcher.Wait()

	code, env = s.do(t, http.MethodGet, "/api/v1/chats/alice_bob", "bob", nil)
	require.Equal(t, http.StatusOK, code)
	chat = decode[models.Chat](t, env.Data)
	assert.Equal(t, 1, chat.UnreadCount["bob"])
	assert.Equal(t, 0, chat.UnreadCount["alice"])

	code, env = s.do(t, http.MethodGet, "/api/v1/notifications", "bob", nil)
	require.Equal(t, http.StatusOK, code)
	notes := decode[[]models.Notification](t, env.Data)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationMessage, notes[0].Type)
	require.NotNil(t, env.Meta)
	assert.False(t, env.Meta.HasMore)
	assert.Equal(t, 20, env.Meta.PageSize)

	code, env = s.do(t, http.MethodGet, "/api/v1/chats/alice_bob/messages?limit=10", "bob", nil)
	require.Equal(t, http.StatusOK, code)
	msgs := decode[[]models.Message](t, env.Data)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].Read)

	code, env = s.do(t, http.MethodGet, "/api/v1/chats", "bob", nil)
	require.Equal(t, http.StatusOK, code)
	chats := decode[[]models.Chat](t, env.Data)
	require.Len(t, chats, 1)
	assert.Equal(t, 0, chats[0].UnreadCount["bob"])

	code, env = s.do(t, http.MethodPost, "/api/v1/notifications/read", "bob", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"marked":1}`, string(env.Data))

	code, env = s.do(t, http.MethodGet, "/api/v1/notifications/unread-count", "bob", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"count":0}`, string(env.Data))
}

func TestErrorKindsOverHTTP(t *testing.T) {
	s := newServer(t)
	s.createProfile(t, "alice", "Alice")
	s.createProfile(t, "bob", "Bob")
	code, _ := s.do(t, http.MethodPost, "/api/v1/chats", "alice", models.CreateChatRequest{UserID: "bob"})
	require.Equal(t, http.StatusCreated, code)

	tests := []struct {
		name   string
		method string
		path   string
		uid    string
		body   any
		status int
		kind   string
	}{
		{"missing field", http.MethodPost, "/api/v1/chats", "alice", map[string]string{}, http.StatusBadRequest, "invalid_input"},
		{"empty message", http.MethodPost, "/api/v1/chats/alice_bob/messages", "alice", models.SendMessageRequest{Text: " "}, http.StatusBadRequest, "invalid_input"},
		{"not a participant", http.MethodGet, "/api/v1/chats/alice_bob/messages", "mallory", nil, http.StatusForbidden, "forbidden"},
		{"unknown chat", http.MethodPost, "/api/v1/chats/alice_zed/read", "alice", nil, http.StatusNotFound, "not_found"},
		{"unknown user", http.MethodGet, "/api/v1/users/ghost", "alice", nil, http.StatusNotFound, "not_found"},
		{"duplicate profile", http.MethodPost, "/api/v1/users/me", "alice", models.CreateProfileRequest{DisplayName: "Alice", Handle: "alice"}, http.StatusConflict, "conflict"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := s.do(t, tt.method, tt.path, tt.uid, tt.body)
			assert.Equal(t, tt.status, code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.kind, env.Error.Kind)
			assert.NotEmpty(t, env.Error.Message)
		})
	}
}

func TestFollowOverHTTP(t *testing.T) {
	s := newServer(t)
	s.createProfile(t, "alice", "Alice")
	s.createProfile(t, "bob", "Bob")

	code, _ := s.do(t, http.MethodPost, "/api/v1/users/bob/follow", "alice", nil)
	require.Equal(t, http.StatusOK, code)
	code, env := s.do(t, http.MethodPost, "/api/v1/users/bob/follow", "alice", nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "conflict", env.Error.Kind)

	code, env = s.do(t, http.MethodGet, "/api/v1/users/bob/followers", "alice", nil)
	require.Equal(t, http.StatusOK, code)
	followers := decode[[]models.UserSummary](t, env.Data)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].ID)

	code, _ = s.do(t, http.MethodDelete, "/api/v1/users/bob/follow", "alice", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodDelete, "/api/v1/users/bob/follow", "alice", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPostsAndFeedOverHTTP(t *testing.T) {
	s := newServer(t)
	s.createProfile(t, "alice", "Alice")
	s.createProfile(t, "bob", "Bob")
	code, _ := s.do(t, http.MethodPost, "/api/v1/users/bob/follow", "alice", nil)
	require.Equal(t, http.StatusOK, code)

	code, env := s.do(t, http.MethodPost, "/api/v1/posts", "bob", models.CreatePostRequest{Content: "hello world"})
	require.Equal(t, http.StatusCreated, code)
	post := decode[models.Post](t, env.Data)

	code, _ = s.do(t, http.MethodPost, "/api/v1/posts/"+post.ID+"/likes", "alice", nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodPost, "/api/v1/posts/"+post.ID+"/comments", "alice", models.CreateCommentRequest{Content: "nice"})
	require.Equal(t, http.StatusCreated, code)

	code, env = s.do(t, http.MethodGet, "/api/v1/feed", "alice", nil)
	require.Equal(t, http.StatusOK, code)
	feed := decode[[]services.PostView](t, env.Data)
	require.Len(t, feed, 1)
	assert.Equal(t, post.ID, feed[0].ID)
	assert.True(t, feed[0].IsLiked)
	assert.Equal(t, 1, feed[0].LikesCount)
	assert.Equal(t, 1, feed[0].CommentsCount)
	require.NotNil(t, feed[0].Author)
	assert.Equal(t, "Bob", feed[0].Author.DisplayName)
	assert.Equal(t, 10, env.Meta.PageSize)

	code, env = s.do(t, http.MethodGet, "/api/v1/posts/"+post.ID+"/comments", "bob", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.Comment](t, env.Data), 1)

	code, env = s.do(t, http.MethodDelete, "/api/v1/posts/"+post.ID, "alice", nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "forbidden", env.Error.Kind)

	code, _ = s.do(t, http.MethodDelete, "/api/v1/posts/"+post.ID, "bob", nil)
	assert.Equal(t, http.StatusNoContent, code)
}

func TestMediaUploadOverHTTP(t *testing.T) {
	s := newServer(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="cat.png"`)
	header.Set("Content-Type", "image/png")
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token(t, "alice"))
	code, env := s.serve(t, req)
	require.Equal(t, http.StatusCreated, code, env.Error)
	out := decode[map[string]string](t, env.Data)
	assert.Contains(t, out["url"], "https://cdn.example.com/uploads/alice/")
	require.Len(t, s.uploads.keys, 1)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/media", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token(t, "alice"))
	code, env = s.serve(t, req)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_input", env.Error.Kind)
}
