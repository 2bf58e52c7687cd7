package focus

import (
	"context"
	"errors"
	"time"

	"github.com/toxicdevil0/timeout/backend/go-services/internal/wallet"
	"github.com/toxicdevil0/timeout/backend/go-services/pkg/logger"
)

var (
	ErrAlreadyActive = errors.New("focus session already active")
	ErrNotActive     = errors.New("no active focus session")
)

// longest a focus session may run before the store expires it
const maxDuration = 4 * time.Hour

// Service runs focus sessions and pays out wallet tokens for completed
// focused time (one token per full minute).
type Service struct {
	repo   Repository
	wallet *wallet.Service
	now    func() time.Time
}

func NewService(r Repository, w *wallet.Service) *Service {
	return &Service{repo: r, wallet: w, now: time.Now}
}

func (s *Service) Start(ctx context.Context, sub string) (*Session, error) {
	now := s.now().UTC()
	sess := &Session{Sub: sub, StartedAt: now, ExpiresAt: now.Add(maxDuration)}
	ok, err := s.repo.Start(ctx, sess)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyActive
	}
	return sess, nil
}

func (s *Service) Active(ctx context.Context, sub string) (*Session, error) {
	return s.repo.Get(ctx, sub)
}

// Stop ends the active session and returns the focused duration plus the
// token award. The award is best-effort: a wallet failure ends the session
// anyway and is only logged.
func (s *Service) Stop(ctx context.Context, sub string) (time.Duration, int64, error) {
	sess, err := s.repo.Get(ctx, sub)
	if err != nil {
		return 0, 0, err
	}
	if sess == nil {
		return 0, 0, ErrNotActive
	}
	if err := s.repo.Delete(ctx, sub); err != nil {
		return 0, 0, err
	}

	elapsed := s.now().UTC().Sub(sess.StartedAt)
	award := int64(elapsed / time.Minute)
	if award > 0 && s.wallet != nil {
		if _, err := s.wallet.Award(ctx, sub, award); err != nil {
			logger.Warnf("focus reward payout failed for sub=%s amount=%d: %v", sub, award, err)
		}
	}
	return elapsed, award, nil
}
