package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/magiskboy/blog-backend/internal/domain"
	"github.com/magiskboy/blog-backend/internal/oauth"
	"github.com/magiskboy/blog-backend/internal/token"
	"github.com/magiskboy/blog-backend/internal/transport/http/handler"
	"github.com/magiskboy/blog-backend/internal/transport/http/middleware"
	"github.com/magiskboy/blog-backend/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ---- fakes ----

type fakeAuthUsecase struct {
	begin       func(state domain.AuthState) (string, error)
	callback    func(ctx context.Context, rawState, code string) (*usecase.CallbackResult, error)
	linkAccount func(ctx context.Context, user *domain.User, provider string) (string, error)
	logout      func(ctx context.Context, tok string) error
}

func (f *fakeAuthUsecase) Begin(state domain.AuthState) (string, error) {
	return f.begin(state)
}

func (f *fakeAuthUsecase) Callback(ctx context.Context, rawState, code string) (*usecase.CallbackResult, error) {
	return f.callback(ctx, rawState, code)
}

func (f *fakeAuthUsecase) LinkAccount(ctx context.Context, user *domain.User, provider string) (string, error) {
	return f.linkAccount(ctx, user, provider)
}

func (f *fakeAuthUsecase) Logout(ctx context.Context, tok string) error {
	return f.logout(ctx, tok)
}

type fakeValidator struct{}

func (fakeValidator) Validate(_ context.Context, tok string) (*token.Claims, error) {
	if tok != "session-token" {
		return nil, domain.ErrNotAuthenticated
	}
	return &token.Claims{UserID: 7}, nil
}

type fakeUserFinder struct{}

func (fakeUserFinder) FindByID(_ context.Context, id int64) (*domain.User, error) {
	return &domain.User{ID: id, Name: "Alice", Email: "alice@example.com"}, nil
}

func newAuthRouter(uc *fakeAuthUsecase) *gin.Engine {
	h := handler.NewAuthHandler(uc, discardLogger())
	authed := middleware.Auth(fakeValidator{}, fakeUserFinder{})

	r := gin.New()
	auth := r.Group("/auth")
	auth.GET("/", h.Begin)
	auth.GET("/callback", h.Callback)
	auth.GET("/link_account", authed, h.LinkAccount)
	auth.GET("/logout", authed, h.Logout)
	return r
}

func doGet(r *gin.Engine, target, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}

// ---- tests ----

func TestBegin_RedirectsToProvider(t *testing.T) {
	uc := &fakeAuthUsecase{
		begin: func(state domain.AuthState) (string, error) {
			if state.Action() != "login" || state.Provider() != domain.ProviderGoogle {
				t.Errorf("state = %v, want action=login provider=google", state)
			}
			return "https://accounts.google.com/o/oauth2/auth?state=x", nil
		},
	}

	w := doGet(newAuthRouter(uc), "/auth/?action=login&provider=google", "")
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.HasPrefix(loc, "https://accounts.google.com/") {
		t.Errorf("Location = %q", loc)
	}
}

func TestBegin_InvalidState(t *testing.T) {
	uc := &fakeAuthUsecase{
		begin: func(domain.AuthState) (string, error) {
			return "", domain.Flowf("Action or Provider is invalid")
		},
	}

	w := doGet(newAuthRouter(uc), "/auth/?action=destroy&provider=google", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := decodeBody(t, w)["message"]; got != "Action or Provider is invalid" {
		t.Errorf("message = %v", got)
	}
}

func TestCallback_IssuesAccessToken(t *testing.T) {
	uc := &fakeAuthUsecase{
		callback: func(_ context.Context, rawState, code string) (*usecase.CallbackResult, error) {
			if code != "code-1" {
				t.Errorf("code = %q, want code-1", code)
			}
			return &usecase.CallbackResult{AccessToken: "jwt-1"}, nil
		},
	}

	w := doGet(newAuthRouter(uc), "/auth/callback?state=%7B%7D&code=code-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["access_token"] != "jwt-1" {
		t.Errorf("access_token = %v", body["access_token"])
	}
	if _, ok := body["message"]; ok {
		t.Error("token response must not carry a message")
	}
}

func TestCallback_LinkProposal(t *testing.T) {
	uc := &fakeAuthUsecase{
		callback: func(context.Context, string, string) (*usecase.CallbackResult, error) {
			return &usecase.CallbackResult{
				Message: "Email a@x.com was used by Alice. Do you link to the facebook account",
				Link:    "http://localhost:8080/auth/link_account?access_token=t&provider=facebook",
			}, nil
		},
	}

	w := doGet(newAuthRouter(uc), "/auth/callback?state=s&code=c", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("data missing in %v", body)
	}
	if !strings.Contains(data["link"].(string), "link_account") {
		t.Errorf("link = %v", data["link"])
	}
	if !strings.Contains(body["message"].(string), "Do you link") {
		t.Errorf("message = %v", body["message"])
	}
}

func TestCallback_MessageOnly(t *testing.T) {
	uc := &fakeAuthUsecase{
		callback: func(context.Context, string, string) (*usecase.CallbackResult, error) {
			return &usecase.CallbackResult{Message: "Create google successful"}, nil
		},
	}

	w := doGet(newAuthRouter(uc), "/auth/callback?state=s&code=c", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := decodeBody(t, w)["message"]; got != "Create google successful" {
		t.Errorf("message = %v", got)
	}
}

func TestCallback_UpstreamFailure(t *testing.T) {
	uc := &fakeAuthUsecase{
		callback: func(context.Context, string, string) (*usecase.CallbackResult, error) {
			return nil, oauth.ErrExchange
		},
	}

	w := doGet(newAuthRouter(uc), "/auth/callback?state=s&code=c", "")
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestCallback_FlowErrorIs400(t *testing.T) {
	uc := &fakeAuthUsecase{
		callback: func(context.Context, string, string) (*usecase.CallbackResult, error) {
			return nil, domain.Flowf("User %s is not exist", "a@x.com")
		},
	}

	w := doGet(newAuthRouter(uc), "/auth/callback?state=s&code=c", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := decodeBody(t, w)["message"]; got != "User a@x.com is not exist" {
		t.Errorf("message = %v", got)
	}
}

func TestLinkAccount_RequiresAuth(t *testing.T) {
	uc := &fakeAuthUsecase{
		linkAccount: func(context.Context, *domain.User, string) (string, error) {
			t.Error("usecase must not be reached without a valid token")
			return "", nil
		},
	}

	w := doGet(newAuthRouter(uc), "/auth/link_account?provider=google", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestLinkAccount_PassesAuthenticatedUser(t *testing.T) {
	uc := &fakeAuthUsecase{
		linkAccount: func(_ context.Context, user *domain.User, provider string) (string, error) {
			if user == nil || user.ID != 7 {
				t.Errorf("user = %+v, want ID 7", user)
			}
			if provider != "facebook" {
				t.Errorf("provider = %q, want facebook", provider)
			}
			return "This account is linked to facebook", nil
		},
	}

	w := doGet(newAuthRouter(uc), "/auth/link_account?provider=facebook", "session-token")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if got := decodeBody(t, w)["message"]; got != "This account is linked to facebook" {
		t.Errorf("message = %v", got)
	}
}

func TestLogout_RevokesPresentedToken(t *testing.T) {
	var revoked string
	uc := &fakeAuthUsecase{
		logout: func(_ context.Context, tok string) error {
			revoked = tok
			return nil
		},
	}

	w := doGet(newAuthRouter(uc), "/auth/logout", "session-token")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if revoked != "session-token" {
		t.Errorf("revoked token = %q, want session-token", revoked)
	}
	if got := decodeBody(t, w)["message"]; got != "Logout successful" {
		t.Errorf("message = %v", got)
	}
}
