package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Sunay4826/AI-finance-platform/internal/core"
)

// Principal is the identity-provider view of the caller: a stable
// external id plus whatever profile fields the provider supplied.
type Principal struct {
	ID       string
	Name     string
	Email    string
	ImageURL string
}

// UserService maps identity-provider principals to local user rows,
// creating them lazily on first sight.
type UserService struct {
	store Store
}

func NewUserService(store Store) *UserService {
	return &UserService{store: store}
}

// EnsureUser returns the local user for the principal, creating it if
// this is the first request for that identity. Concurrent first-requests
// are resolved by the store's uniqueness conflict: whoever loses the
// insert race re-reads the winner's row.
func (s *UserService) EnsureUser(ctx context.Context, p Principal) (*core.User, error) {
	if p.ID == "" {
		return nil, core.ErrUnauthorized
	}

	u, err := s.store.FindUserByExternalID(ctx, p.ID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = p.Email
	}
	if name == "" {
		name = "User"
	}

	created := &core.User{
		ExternalID: p.ID,
		Name:       name,
		Email:      p.Email,
		ImageURL:   p.ImageURL,
	}
	err = s.store.CreateUser(ctx, created)
	if errors.Is(err, core.ErrConflict) {
		// Someone else created it between our read and insert.
		return s.store.FindUserByExternalID(ctx, p.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User created lazily", "user_id", created.ID)
	return created, nil
}
