package wallet

import (
	"context"
	"errors"
)

// ErrInvalidOwner is returned when a wallet is requested for a non-positive user id.
var ErrInvalidOwner = errors.New("invalid wallet owner")

// Service is the read side of the wallet store plus wallet provisioning.
type Service struct {
	repo Repository
}

// NewService builds a wallet directory service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create provisions an empty wallet for the owner.
func (s *Service) Create(ctx context.Context, ownerID int64) (Wallet, error) {
	if ownerID <= 0 {
		return Wallet{}, ErrInvalidOwner
	}
	return s.repo.Create(ctx, ownerID)
}

// Get retrieves a wallet, returning ErrNotFound when absent.
func (s *Service) Get(ctx context.Context, id int64) (Wallet, error) {
	if id <= 0 {
		return Wallet{}, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// ListByOwner lists the wallets of a user. No wallets is not an error.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]Wallet, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// List returns every wallet.
func (s *Service) List(ctx context.Context) ([]Wallet, error) {
	return s.repo.List(ctx)
}
