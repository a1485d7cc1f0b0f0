package session

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/sowlstudios/admin-console/internal/api"
	"github.com/sowlstudios/admin-console/internal/audit"
	apperrors "github.com/sowlstudios/admin-console/internal/errors"
	"github.com/sowlstudios/admin-console/internal/model"
)

// Auth drives the session lifecycle over the gateway: login, best-effort
// logout, and cold-start validation of a persisted token.
type Auth struct {
	client *api.Client
	store  *Store
}

func NewAuth(client *api.Client, store *Store) *Auth {
	return &Auth{client: client, store: store}
}

// Login exchanges credentials for a token and persists the session.
func (a *Auth) Login(ctx context.Context, username, password string) error {
	var envelope model.Envelope
	err := a.client.Post(ctx, "/auth/login", model.LoginRequest{
		Username: username,
		Password: password,
	}, &envelope)
	if err != nil {
		audit.Log(audit.Event{Type: audit.EventLoginFailure, Username: username})
		return err
	}

	if !envelope.Success {
		audit.Log(audit.Event{Type: audit.EventLoginFailure, Username: username})
		message := envelope.Message
		if message == "" {
			message = "Login failed"
		}
		return apperrors.Unauthorized(message)
	}

	var data model.LoginData
	if err := json.Unmarshal(envelope.Data, &data); err != nil || data.Token == "" {
		return apperrors.Internal("login response missing token").WithCause(err)
	}

	user := model.AdminUser{
		Username: data.Username,
		Email:    data.Email,
		FullName: data.FullName,
	}
	if err := a.store.Set(data.Token, user); err != nil {
		return apperrors.Internal("failed to persist session").WithCause(err)
	}

	audit.Log(audit.Event{Type: audit.EventLoginSuccess, Username: data.Username})
	return nil
}

// Logout notifies the server best-effort and always clears local state,
// whether or not the remote call succeeds.
func (a *Auth) Logout(ctx context.Context) {
	user, _ := a.store.User()
	defer func() {
		a.store.Clear()
		audit.Log(audit.Event{Type: audit.EventLogout, Username: user.Username})
	}()

	if err := a.client.Post(ctx, "/auth/logout", nil, nil); err != nil {
		log.Warn().Err(err).Msg("remote logout failed, clearing local session anyway")
	}
}

// Validate confirms a restored token against the profile endpoint before any
// protected screen is served. A failed validation clears the persisted
// session so the next start goes straight to login.
func (a *Auth) Validate(ctx context.Context) error {
	if !a.store.Authenticated() {
		return apperrors.Unauthorized("no session to validate")
	}

	var envelope model.Envelope
	if err := a.client.Get(ctx, "/auth/profile", &envelope); err != nil {
		// A 401 already cleared the store inside the gateway.
		if !apperrors.IsUnauthorized(err) {
			a.store.Clear()
		}
		return err
	}

	if !envelope.Success {
		a.store.Clear()
		return apperrors.Unauthorized("session rejected by server")
	}

	var user model.AdminUser
	if err := json.Unmarshal(envelope.Data, &user); err == nil && user.Username != "" {
		// Refresh the stored profile from the authoritative copy.
		if err := a.store.Set(a.store.Token(), user); err != nil {
			log.Warn().Err(err).Msg("failed to refresh persisted profile")
		}
	}

	audit.Log(audit.Event{Type: audit.EventSessionRestore, Username: user.Username})
	return nil
}
