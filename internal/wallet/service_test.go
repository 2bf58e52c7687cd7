package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	balances map[string]int64
}

func newFakeRepo() *fakeRepo { return &fakeRepo{balances: map[string]int64{}} }

func (f *fakeRepo) Get(ctx context.Context, sub string) (*Wallet, error) {
	return &Wallet{Sub: sub, Balance: f.balances[sub]}, nil
}

func (f *fakeRepo) Credit(ctx context.Context, sub string, amount int64) (*Wallet, error) {
	f.balances[sub] += amount
	return &Wallet{Sub: sub, Balance: f.balances[sub], UpdatedAt: time.Now().UTC()}, nil
}

func (f *fakeRepo) Debit(ctx context.Context, sub string, amount int64) (*Wallet, error) {
	if f.balances[sub] < amount {
		return nil, ErrInsufficientFunds
	}
	f.balances[sub] -= amount
	return &Wallet{Sub: sub, Balance: f.balances[sub], UpdatedAt: time.Now().UTC()}, nil
}

func TestAwardAndSpend(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	w, err := svc.Award(ctx, "u1", 10)
	require.NoError(t, err)
	require.Equal(t, int64(10), w.Balance)

	w, err = svc.Spend(ctx, "u1", 4)
	require.NoError(t, err)
	require.Equal(t, int64(6), w.Balance)

	_, err = svc.Spend(ctx, "u1", 100)
	require.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestAmountsMustBePositive(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Award(ctx, "u1", 0)
	require.Error(t, err)
	_, err = svc.Award(ctx, "u1", -5)
	require.Error(t, err)
	_, err = svc.Spend(ctx, "u1", 0)
	require.Error(t, err)
}

func TestBalance_UnknownSubjectIsZero(t *testing.T) {
	svc := NewService(newFakeRepo())
	w, err := svc.Balance(context.Background(), "nobody")
	require.NoError(t, err)
	require.Equal(t, int64(0), w.Balance)
}
