package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/desertthunder/seedify/internal/shared"
)

type fakeExchanger struct {
	token *oauth2.Token
	err   error
	codes []string
}

func (f *fakeExchanger) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	f.codes = append(f.codes, code)
	if f.err != nil {
		return nil, f.err
	}
	return f.token, nil
}

func TestOAuthHandler(t *testing.T) {
	t.Run("successful callback", func(t *testing.T) {
		ex := &fakeExchanger{token: &oauth2.Token{AccessToken: "access"}}
		h := NewOAuthHandler(ex, "state-1", "")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=state-1&code=abc", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		result := <-h.Result()
		if result.Error() != nil || result.Token.AccessToken != "access" {
			t.Errorf("unexpected result %+v", result)
		}
		if len(ex.codes) != 1 || ex.codes[0] != "abc" {
			t.Errorf("exchanged codes = %v", ex.codes)
		}
	})

	t.Run("invalid state", func(t *testing.T) {
		ex := &fakeExchanger{}
		h := NewOAuthHandler(ex, "state-1", "/cb")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cb?state=forged&code=abc", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		result := <-h.Result()
		if !errors.Is(result.Error(), shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", result.Error())
		}
		if len(ex.codes) != 0 {
			t.Error("code should not be exchanged")
		}
	})

	t.Run("denied authorization", func(t *testing.T) {
		h := NewOAuthHandler(&fakeExchanger{}, "s", "")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s&error=access_denied", nil))

		result := <-h.Result()
		if !errors.Is(result.Error(), shared.ErrAuthFailed) || !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("unexpected error %v", result.Error())
		}
	})

	t.Run("exchange failure", func(t *testing.T) {
		h := NewOAuthHandler(&fakeExchanger{err: errors.New("boom")}, "s", "")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s&code=c", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
		if result := <-h.Result(); result.Error() == nil {
			t.Error("expected exchange error")
		}
	})

	t.Run("second callback rejected", func(t *testing.T) {
		h := NewOAuthHandler(&fakeExchanger{token: &oauth2.Token{AccessToken: "a"}}, "s", "")

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?state=s&code=c", nil))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s&code=c", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("routes", func(t *testing.T) {
		if r := NewOAuthHandler(nil, "s", "").Routes(); r[0] != DefaultCallbackPath {
			t.Errorf("Routes() = %v", r)
		}
		if r := NewOAuthHandler(nil, "s", "/auth/done").Routes(); r[0] != "/auth/done" {
			t.Errorf("Routes() = %v", r)
		}
	})
}

type routeHandler struct {
	routes []string
	body   string
}

func (h routeHandler) Routes() []string { return h.routes }

func (h routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, h.body)
}

func TestCallbackRouter(t *testing.T) {
	t.Run("only GET reaches the callback", func(t *testing.T) {
		router := NewCallbackRouter()
		router.Mount(routeHandler{routes: []string{"/callback"}, body: "ok"})

		tests := []struct {
			method string
			path   string
			want   int
		}{
			{http.MethodGet, "/callback", http.StatusOK},
			{http.MethodPost, "/callback", http.StatusMethodNotAllowed},
			{http.MethodGet, "/elsewhere", http.StatusNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.method+" "+tt.path, func(t *testing.T) {
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
				if rec.Code != tt.want {
					t.Errorf("status = %d, want %d", rec.Code, tt.want)
				}
			})
		}
	})

	t.Run("middleware order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewCallbackRouter()
		router.Use(mw("first"), mw("second"))
		router.Mount(routeHandler{routes: []string{"/"}})
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if fmt.Sprint(order) != "[first second]" {
			t.Errorf("middleware order = %v", order)
		}
	})

	t.Run("request logger omits query", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

		router := NewCallbackRouter()
		router.Use(RequestLogger(logger))
		router.Mount(NewOAuthHandler(&fakeExchanger{token: &oauth2.Token{}}, "s", ""))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?state=s&code=secret", nil))

		out := buf.String()
		if !strings.Contains(out, "/callback") || !strings.Contains(out, "200") {
			t.Errorf("expected path and status in log, got %q", out)
		}
		if strings.Contains(out, "secret") {
			t.Errorf("authorization code leaked into log: %q", out)
		}
	})
}

func TestRedirectTarget(t *testing.T) {
	tests := []struct {
		uri      string
		wantAddr string
		wantPath string
		wantErr  bool
	}{
		{"http://127.0.0.1:8888/callback", "127.0.0.1:8888", "/callback", false},
		{"http://localhost/cb", "localhost:80", "/cb", false},
		{"http://127.0.0.1:9000", "127.0.0.1:9000", "/", false},
		{"https://example.com/callback", "", "", true},
		{"not a url", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			addr, path, err := RedirectTarget(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RedirectTarget() error = %v, wantErr %v", err, tt.wantErr)
			}
			if addr != tt.wantAddr || path != tt.wantPath {
				t.Errorf("RedirectTarget() = %q, %q", addr, path)
			}
		})
	}
}

func TestAwaitToken(t *testing.T) {
	listen := func(t *testing.T) net.Listener {
		t.Helper()
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("listen: %v", err)
		}
		return ln
	}

	t.Run("returns exchanged token", func(t *testing.T) {
		ln := listen(t)
		h := NewOAuthHandler(&fakeExchanger{token: &oauth2.Token{AccessToken: "tok"}}, "s", "")

		go func() {
			resp, err := http.Get("http://" + ln.Addr().String() + "/callback?state=s&code=c")
			if err == nil {
				resp.Body.Close()
			}
		}()

		tok, err := AwaitToken(context.Background(), ln, h, shared.NewDiscardLogger(), 5*time.Second)
		if err != nil {
			t.Fatalf("AwaitToken() error = %v", err)
		}
		if tok.AccessToken != "tok" {
			t.Errorf("token = %+v", tok)
		}
	})

	t.Run("times out", func(t *testing.T) {
		h := NewOAuthHandler(&fakeExchanger{}, "s", "")

		_, err := AwaitToken(context.Background(), listen(t), h, shared.NewDiscardLogger(), 20*time.Millisecond)
		if !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := AwaitToken(ctx, listen(t), NewOAuthHandler(&fakeExchanger{}, "s", ""), shared.NewDiscardLogger(), time.Minute)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
