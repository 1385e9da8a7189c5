package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopco-storefront/internal/auth"
	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/session"
	"shopco-storefront/internal/storage"
	"shopco-storefront/internal/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) *session.Registry {
	t.Helper()
	reg, err := session.NewRegistry(8, session.Deps{Store: storage.NewMemoryStore()})
	require.NoError(t, err)
	t.Cleanup(reg.Close)
	return reg
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var res ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	return res.Error
}

type failingSource struct{}

func (failingSource) Acquire(context.Context, string) (*session.Workspace, error) {
	return nil, errors.New("redis down")
}

func (failingSource) Release(*session.Workspace) {}

// recordingSource counts how many workspaces are held at once.
type recordingSource struct {
	*session.Registry
	held int
}

func (r *recordingSource) Acquire(ctx context.Context, sid string) (*session.Workspace, error) {
	ws, err := r.Registry.Acquire(ctx, sid)
	if err == nil {
		r.held++
	}
	return ws, err
}

func (r *recordingSource) Release(ws *session.Workspace) {
	r.held--
	r.Registry.Release(ws)
}

func TestSession(t *testing.T) {
	t.Run("Mints a session when missing", func(t *testing.T) {
		var seen *session.Workspace
		handler := Session(newRegistry(t), false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = session.FromContext(r.Context())
			assert.Equal(t, seen.ID, logger.SessionIDFrom(r.Context()))
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/home", nil))

		require.NotNil(t, seen)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
		assert.Equal(t, seen.ID, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, seen.ID, w.Header().Get(auth.SessionHeader))
	})

	t.Run("Reuses the same workspace", func(t *testing.T) {
		reg := newRegistry(t)
		var ids []*session.Workspace
		handler := Session(reg, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ws, _ := session.FromContext(r.Context())
			ids = append(ids, ws)
		}))

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodGet, "/cart", nil)
			req.Header.Set(auth.SessionHeader, "visitor-0001")
			handler.ServeHTTP(httptest.NewRecorder(), req)
		}

		require.Len(t, ids, 2)
		assert.Same(t, ids[0], ids[1])
		assert.Equal(t, "visitor-0001", ids[0].ID)
	})

	t.Run("Holds the workspace only for the request", func(t *testing.T) {
		src := &recordingSource{Registry: newRegistry(t)}
		var during int
		handler := Session(src, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			during = src.held
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cart", nil))

		assert.Equal(t, 1, during)
		assert.Equal(t, 0, src.held)
	})

	t.Run("Storage failure", func(t *testing.T) {
		handler := Session(failingSource{}, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "session storage unavailable", decodeError(t, w).Message)
	})
}

func TestRequireAuth(t *testing.T) {
	reg := newRegistry(t)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	handler := Session(reg, false)(RequireAuth(ok))

	t.Run("Anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		detail := decodeError(t, w)
		assert.Equal(t, LoginPath, detail.Details["redirect"])
	})

	t.Run("Logged in", func(t *testing.T) {
		ws, err := reg.Acquire(context.Background(), "visitor-0002")
		require.NoError(t, err)
		require.NoError(t, ws.Auth.SetToken(context.Background(), "tok"))
		reg.Release(ws)

		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		req.Header.Set(auth.SessionHeader, "visitor-0002")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("Strict tier for sign in", func(t *testing.T) {
		l := NewRateLimiter()
		handler := l.Middleware(ok)

		codes := map[int]int{}
		for i := 0; i < burstStrict+1; i++ {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/signin", nil))
			codes[w.Code]++
		}
		assert.Equal(t, burstStrict, codes[http.StatusOK])
		assert.Equal(t, 1, codes[http.StatusTooManyRequests])

		// General quota is separate.
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/home", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Keyed by session", func(t *testing.T) {
		l := NewRateLimiter()
		handler := l.Middleware(ok)
		send := func(sid string) int {
			req := httptest.NewRequest(http.MethodPost, "/checkout/place-order", nil)
			req = req.WithContext(logger.WithSessionID(req.Context(), sid))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			return w.Code
		}
		for i := 0; i < burstStrict; i++ {
			require.Equal(t, http.StatusOK, send("a"))
		}
		assert.Equal(t, http.StatusTooManyRequests, send("a"))
		assert.Equal(t, http.StatusOK, send("b"))
	})

	t.Run("Sweep drops idle visitors", func(t *testing.T) {
		l := NewRateLimiter()
		l.getVisitor("ip:1:general", limitGeneral, burstGeneral)
		l.visitors["ip:1:general"].lastSeen = time.Now().Add(-time.Hour)
		l.getVisitor("ip:2:general", limitGeneral, burstGeneral)

		l.sweep(visitorTTL)

		assert.Len(t, l.visitors, 1)
		assert.Contains(t, l.visitors, "ip:2:general")
	})
}

func TestErrorHandlingMiddleware(t *testing.T) {
	handler := ErrorHandlingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	detail := decodeError(t, w)
	assert.Equal(t, "Internal Server Error", detail.Code)
	assert.NotEmpty(t, detail.Timestamp)
}

func TestRespondWithValidationErrors(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithValidationErrors(w, []validate.FieldError{{Field: "phone", Message: "Invalid Egyptian phone number (01XXXXXXXXX)"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	detail := decodeError(t, w)
	fields := detail.Details["validation_errors"].([]any)
	assert.Equal(t, "phone", fields[0].(map[string]any)["field"])
}

func TestRespondWithRedirect(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithRedirect(w, http.StatusUnauthorized, "Session expired. Please login again.", LoginPath, 2*time.Second)

	detail := decodeError(t, w)
	assert.Equal(t, float64(2000), detail.Details["redirect_after_ms"])
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"http://shop.test"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("Preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/cart/items", nil)
		req.Header.Set("Origin", "http://shop.test")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://shop.test", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("Unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/home", nil)
		req.Header.Set("Origin", "http://evil.test")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
