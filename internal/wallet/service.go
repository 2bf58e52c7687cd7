package wallet

import (
	"context"
	"errors"
)

// Service encapsulates token economy business logic
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) Balance(ctx context.Context, sub string) (*Wallet, error) {
	return s.repo.Get(ctx, sub)
}

// Award credits tokens to a subject. Used by admin grants and by focus
// session rewards.
func (s *Service) Award(ctx context.Context, sub string, amount int64) (*Wallet, error) {
	if amount <= 0 {
		return nil, errors.New("award amount must be positive")
	}
	return s.repo.Credit(ctx, sub, amount)
}

// Spend debits tokens, failing with ErrInsufficientFunds on overdraft.
func (s *Service) Spend(ctx context.Context, sub string, amount int64) (*Wallet, error) {
	if amount <= 0 {
		return nil, errors.New("spend amount must be positive")
	}
	return s.repo.Debit(ctx, sub, amount)
}
