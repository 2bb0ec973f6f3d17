package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tegami/tegami-backend/internal/common"
	"github.com/tegami/tegami-backend/internal/domain"
	"github.com/tegami/tegami-backend/internal/repository"
	pkglogger "github.com/tegami/tegami-backend/pkg/logger"
)

// deliverBatch bounds one reconciliation pass
const deliverBatch = 500

// PenpalLetterService sends and lists timed letters between penpals
type PenpalLetterService interface {
	Send(ctx context.Context, req *domain.SendLetterRequest) (*domain.PenpalLetter, error)
	ListInbox(ctx context.Context, userID string) ([]*domain.PenpalLetter, error)
	ListOutbox(ctx context.Context, userID string) ([]*domain.PenpalLetter, error)
	ListThread(ctx context.Context, userID string) ([]*domain.PenpalLetter, error)
	Mailbox(ctx context.Context, userID string, box domain.MailboxType) ([]*domain.PenpalLetter, error)
	MarkRead(ctx context.Context, letterID, readerID string) (*domain.PenpalLetter, error)
	DeliverDue(ctx context.Context) (int, error)
}

// PenpalLetterOptions tunes send rules
type PenpalLetterOptions struct {
	// RequireConnection rejects sends between users without an accepted connection
	RequireConnection bool
}

type penpalLetterService struct {
	repo     repository.PenpalLetterRepository
	penpals  repository.PenpalRepository
	notifier Notifier
	opts     PenpalLetterOptions
	now      func() time.Time
}

// NewPenpalLetterService creates a new PenpalLetterService. notifier may be nil.
func NewPenpalLetterService(
	repo repository.PenpalLetterRepository,
	penpals repository.PenpalRepository,
	notifier Notifier,
	opts PenpalLetterOptions,
) PenpalLetterService {
	return &penpalLetterService{
		repo:     repo,
		penpals:  penpals,
		notifier: notifierOrNop(notifier),
		opts:     opts,
		now:      utcNow,
	}
}

// Send posts a letter that arrives DeliveryDelay after it is written
func (s *penpalLetterService) Send(ctx context.Context, req *domain.SendLetterRequest) (*domain.PenpalLetter, error) {
	if req.FromUserID == "" || req.ToUserID == "" {
		return nil, fmt.Errorf("%w: from_user_id and to_user_id are required", common.ErrValidation)
	}
	if req.FromUserID == req.ToUserID {
		return nil, fmt.Errorf("%w: cannot send a letter to yourself", common.ErrValidation)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", common.ErrValidation)
	}

	if s.opts.RequireConnection {
		ok, err := s.penpals.ExistsAccepted(ctx, req.FromUserID, req.ToUserID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: you can only write to accepted penpals", common.ErrForbidden)
		}
	}

	now := s.now()
	letter := &domain.PenpalLetter{
		FromUserID:   req.FromUserID,
		ToUserID:     req.ToUserID,
		Content:      req.Content,
		Status:       domain.LetterInTransit,
		CreatedAt:    now,
		DeliveryTime: now.Add(domain.DeliveryDelay),
	}
	if err := s.repo.Create(ctx, letter); err != nil {
		return nil, err
	}

	lettersSentTotal.WithLabelValues(groupPenpals).Inc()
	return letter, nil
}

// ListInbox returns letters addressed to userID
func (s *penpalLetterService) ListInbox(ctx context.Context, userID string) ([]*domain.PenpalLetter, error) {
	return s.Mailbox(ctx, userID, domain.MailboxInbox)
}

// ListOutbox returns letters written by userID
func (s *penpalLetterService) ListOutbox(ctx context.Context, userID string) ([]*domain.PenpalLetter, error) {
	return s.Mailbox(ctx, userID, domain.MailboxOutbox)
}

// ListThread returns letters in both directions
func (s *penpalLetterService) ListThread(ctx context.Context, userID string) ([]*domain.PenpalLetter, error) {
	return s.Mailbox(ctx, userID, domain.MailboxAll)
}

// Mailbox delivers anything overdue, then lists the requested box newest first
func (s *penpalLetterService) Mailbox(ctx context.Context, userID string, box domain.MailboxType) ([]*domain.PenpalLetter, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", common.ErrValidation)
	}
	switch box {
	case domain.MailboxInbox, domain.MailboxOutbox, domain.MailboxAll:
	default:
		return nil, fmt.Errorf("%w: type must be inbox or outbox", common.ErrValidation)
	}

	if _, err := s.DeliverDue(ctx); err != nil {
		// listing still works; the scheduler retries the promotion
		pkglogger.Ctx(ctx).Warn().Err(err).Msg("lazy delivery failed")
	}

	letters, err := s.repo.FindMailbox(ctx, userID, box)
	if err != nil {
		return nil, err
	}
	if letters == nil {
		letters = []*domain.PenpalLetter{}
	}
	return letters, nil
}

// MarkRead moves an arrived letter to read; only the recipient may do so
func (s *penpalLetterService) MarkRead(ctx context.Context, letterID, readerID string) (*domain.PenpalLetter, error) {
	if letterID == "" || readerID == "" {
		return nil, fmt.Errorf("%w: letter id and userId are required", common.ErrValidation)
	}
	if err := s.repo.MarkRead(ctx, letterID, readerID, s.now()); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, letterID)
}

// DeliverDue promotes every in-transit letter whose delivery time has passed
// and notifies the recipients. Returns the number of letters promoted.
func (s *penpalLetterService) DeliverDue(ctx context.Context) (int, error) {
	total := 0
	for {
		due, err := s.repo.FindDue(ctx, s.now(), deliverBatch)
		if err != nil {
			return total, err
		}
		if len(due) == 0 {
			return total, nil
		}

		// one conditional update per letter so that only the caller that
		// actually moved a row notifies its recipient
		for _, l := range due {
			n, err := s.repo.MarkDelivered(ctx, []string{l.ID})
			if err != nil {
				return total, err
			}
			if n == 0 {
				continue
			}
			total++
			lettersDeliveredTotal.Inc()

			l.Status = domain.LetterDelivered
			s.notifier.Notify(domain.Notification{
				Type:    domain.EventLetterDelivered,
				UserID:  l.ToUserID,
				Payload: l,
			})
		}

		if len(due) < deliverBatch {
			return total, nil
		}
	}
}
