package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/magiskboy/blog-backend/internal/domain"
	"github.com/magiskboy/blog-backend/internal/metrics"
	"github.com/magiskboy/blog-backend/internal/oauth"
	"github.com/magiskboy/blog-backend/internal/repository"
)

const errInvalidState = "Action or Provider is invalid"

// ProviderClient is the per-provider adapter the orchestrator drives.
// Implemented by *oauth.Client; tests inject fakes.
type ProviderClient interface {
	AuthCodeURL(state string) string
	ExchangeProfile(ctx context.Context, code string) (oauth.Profile, error)
}

// tokenService is the subset of token.Service the auth flow needs.
type tokenService interface {
	Issue(user *domain.User, window time.Duration) (string, error)
	Register(ctx context.Context, token string) error
	Revoke(ctx context.Context, token string) error
}

type AuthUsecase struct {
	users      repository.UserRepository
	tokens     tokenService
	providers  map[domain.Provider]ProviderClient
	baseURL    string
	sessionTTL time.Duration
	linkTTL    time.Duration
	logger     *slog.Logger
}

func NewAuthUsecase(
	users repository.UserRepository,
	tokens tokenService,
	providers map[domain.Provider]ProviderClient,
	baseURL string,
	sessionTTL, linkTTL time.Duration,
	logger *slog.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:      users,
		tokens:     tokens,
		providers:  providers,
		baseURL:    baseURL,
		sessionTTL: sessionTTL,
		linkTTL:    linkTTL,
		logger:     logger.With("component", "auth_usecase"),
	}
}

// CallbackResult is the terminal outcome of a login/register flow.
// Exactly one of AccessToken or Message is set on success; Link accompanies
// the deferred account-linking message.
type CallbackResult struct {
	AccessToken string
	Message     string
	Link        string
}

// Begin validates the client-supplied state and returns the provider
// authorization URL with the whole payload serialized into the OAuth state
// parameter.
func (u *AuthUsecase) Begin(state domain.AuthState) (string, error) {
	if !state.Valid() {
		return "", domain.Flowf(errInvalidState)
	}

	client, ok := u.providers[state.Provider()]
	if !ok {
		return "", domain.Flowf(errInvalidState)
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("serialize state: %w", err)
	}

	return client.AuthCodeURL(string(payload)), nil
}

// Callback handles the provider redirect: the echoed state is re-validated
// exactly like Begin, the code is exchanged for a profile, and the account
// linker executes the requested action. Any failure is terminal; nothing is
// persisted before all checks pass.
func (u *AuthUsecase) Callback(ctx context.Context, rawState, code string) (*CallbackResult, error) {
	var state domain.AuthState
	if err := json.Unmarshal([]byte(rawState), &state); err != nil {
		return nil, domain.Flowf(errInvalidState)
	}
	if !state.Valid() {
		return nil, domain.Flowf(errInvalidState)
	}

	provider := state.Provider()
	client, ok := u.providers[provider]
	if !ok {
		return nil, domain.Flowf(errInvalidState)
	}

	profile, err := client.ExchangeProfile(ctx, code)
	if err != nil {
		metrics.AuthFlowsTotal.WithLabelValues(string(state.Action()), string(provider), "upstream_error").Inc()
		return nil, err
	}

	var result *CallbackResult
	switch state.Action() {
	case domain.ActionLogin:
		result, err = u.login(ctx, provider, profile)
	case domain.ActionRegister:
		result, err = u.register(ctx, provider, profile)
	}

	outcome := "success"
	if err != nil {
		outcome = "rejected"
	}
	metrics.AuthFlowsTotal.WithLabelValues(string(state.Action()), string(provider), outcome).Inc()
	return result, err
}

func (u *AuthUsecase) login(ctx context.Context, provider domain.Provider, profile oauth.Profile) (*CallbackResult, error) {
	user, err := u.users.FindByEmail(ctx, profile.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.Flowf("User %s is not exist", profile.Email)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if linkConflict(user, provider) {
		return nil, domain.Flowf("User %s is not linked to %s", profile.Email, provider)
	}

	tok, err := u.tokens.Issue(user, u.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	if err := u.tokens.Register(ctx, tok); err != nil {
		return nil, fmt.Errorf("register session token: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues("session").Inc()

	return &CallbackResult{AccessToken: tok}, nil
}

func (u *AuthUsecase) register(ctx context.Context, provider domain.Provider, profile oauth.Profile) (*CallbackResult, error) {
	user, err := u.users.FindByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		if linkConflict(user, provider) {
			// The email belongs to an account linked to the other provider.
			// Don't link silently; hand back a short-lived confirmation token
			// and let the user drive the linking step.
			tok, err := u.tokens.Issue(user, u.linkTTL)
			if err != nil {
				return nil, fmt.Errorf("issue link token: %w", err)
			}
			if err := u.tokens.Register(ctx, tok); err != nil {
				return nil, fmt.Errorf("register link token: %w", err)
			}
			metrics.TokensIssuedTotal.WithLabelValues("link").Inc()

			return &CallbackResult{
				Message: fmt.Sprintf("Email %s was used by %s. Do you link to the %s account",
					profile.Email, user.Name, provider),
				Link: u.linkURL(tok, provider),
			}, nil
		}
		return nil, domain.Flowf("User %s existed", profile.Email)

	case errors.Is(err, domain.ErrUserNotFound):
		newUser := &domain.User{
			Name:           profile.Name,
			Email:          profile.Email,
			LinkToGoogle:   provider == domain.ProviderGoogle,
			LinkToFacebook: provider == domain.ProviderFacebook,
		}
		if _, err := u.users.Create(ctx, newUser); err != nil {
			if errors.Is(err, domain.ErrUserExists) {
				return nil, domain.Flowf("User %s existed", profile.Email)
			}
			return nil, fmt.Errorf("create user: %w", err)
		}
		return &CallbackResult{Message: fmt.Sprintf("Create %s successful", profile.Email)}, nil

	default:
		return nil, fmt.Errorf("find user: %w", err)
	}
}

// LinkAccount attaches the provider to the authenticated user's account.
// Rejected if the account is already linked to that provider.
func (u *AuthUsecase) LinkAccount(ctx context.Context, user *domain.User, provider string) (string, error) {
	p := domain.Provider(provider)
	if !p.Valid() {
		return "", domain.Flowf("Provider was not supported")
	}

	if p == domain.ProviderGoogle && user.LinkToGoogle {
		return "", domain.Flowf("This account was linked to Google account")
	}
	if p == domain.ProviderFacebook && user.LinkToFacebook {
		return "", domain.Flowf("This account was linked to Facebook account")
	}

	if err := u.users.SetProviderLink(ctx, user.ID, p); err != nil {
		return "", fmt.Errorf("set provider link: %w", err)
	}

	return fmt.Sprintf("This account is linked to %s", p), nil
}

// Logout revokes the presented session token.
func (u *AuthUsecase) Logout(ctx context.Context, token string) error {
	if err := u.tokens.Revoke(ctx, token); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	metrics.TokensRevokedTotal.Inc()
	return nil
}

func (u *AuthUsecase) linkURL(token string, provider domain.Provider) string {
	return fmt.Sprintf("%s/auth/link_account?access_token=%s&provider=%s",
		u.baseURL, url.QueryEscape(token), provider)
}

// linkConflict reports whether the account is linked only to the other
// provider. Such accounts cannot log in or re-register through this one
// without an explicit linking step.
func linkConflict(u *domain.User, p domain.Provider) bool {
	switch p {
	case domain.ProviderFacebook:
		return u.LinkToGoogle && !u.LinkToFacebook
	case domain.ProviderGoogle:
		return u.LinkToFacebook && !u.LinkToGoogle
	}
	return false
}
