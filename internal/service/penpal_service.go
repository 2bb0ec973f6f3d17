package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tegami/tegami-backend/internal/common"
	"github.com/tegami/tegami-backend/internal/domain"
	"github.com/tegami/tegami-backend/internal/repository"
)

// PenpalService manages connection requests between users
type PenpalService interface {
	RequestConnection(ctx context.Context, initiatorID, recipientID string) (*domain.PenpalConnection, error)
	AcceptConnection(ctx context.Context, connectionID, acceptorID string) (*domain.PenpalConnection, error)
	DeclineConnection(ctx context.Context, connectionID, declinerID string) (*domain.PenpalConnection, error)
	ListForUser(ctx context.Context, userID string) ([]*domain.PenpalWithUsers, error)
	ListPendingRequestsFor(ctx context.Context, userID string) ([]*domain.PenpalConnection, error)
	GetRequestDetails(ctx context.Context, connectionID string) (*domain.RequestDetails, error)
}

type penpalService struct {
	repo     repository.PenpalRepository
	letters  repository.LetterRepository
	notifier Notifier
	now      func() time.Time
}

// NewPenpalService creates a new PenpalService. notifier may be nil.
func NewPenpalService(repo repository.PenpalRepository, letters repository.LetterRepository, notifier Notifier) PenpalService {
	return &penpalService{
		repo:     repo,
		letters:  letters,
		notifier: notifierOrNop(notifier),
		now:      utcNow,
	}
}

// RequestConnection opens a pending connection from initiator to recipient.
// Any existing row for the pair, in either direction and any state, is a conflict.
func (s *penpalService) RequestConnection(ctx context.Context, initiatorID, recipientID string) (*domain.PenpalConnection, error) {
	if initiatorID == "" || recipientID == "" {
		return nil, fmt.Errorf("%w: user1_id and user2_id are required", common.ErrValidation)
	}
	if initiatorID == recipientID {
		return nil, fmt.Errorf("%w: cannot send a penpal request to yourself", common.ErrValidation)
	}

	existing, err := s.repo.FindBetween(ctx, initiatorID, recipientID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: a penpal connection already exists between these users", common.ErrConflict)
	}

	conn := &domain.PenpalConnection{
		User1ID:     initiatorID,
		User2ID:     recipientID,
		Status:      domain.PenpalPending,
		ConnectedAt: s.now(),
	}
	// a concurrent request for the same pair loses on the pair_key index
	if err := s.repo.Create(ctx, conn); err != nil {
		return nil, err
	}

	penpalTransitionsTotal.WithLabelValues(string(domain.PenpalPending)).Inc()
	s.notifier.Notify(domain.Notification{
		Type:    domain.EventPenpalRequest,
		UserID:  recipientID,
		Payload: conn,
	})
	return conn, nil
}

// AcceptConnection lets the recipient accept a pending request
func (s *penpalService) AcceptConnection(ctx context.Context, connectionID, acceptorID string) (*domain.PenpalConnection, error) {
	conn, err := s.transition(ctx, connectionID, acceptorID, domain.PenpalAccepted)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(domain.Notification{
		Type:    domain.EventPenpalAccepted,
		UserID:  conn.User1ID,
		Payload: conn,
	})
	return conn, nil
}

// DeclineConnection lets the recipient decline a pending request. The row
// stays and keeps blocking new requests for the pair.
func (s *penpalService) DeclineConnection(ctx context.Context, connectionID, declinerID string) (*domain.PenpalConnection, error) {
	return s.transition(ctx, connectionID, declinerID, domain.PenpalDeclined)
}

func (s *penpalService) transition(ctx context.Context, connectionID, userID string, to domain.PenpalStatus) (*domain.PenpalConnection, error) {
	if connectionID == "" || userID == "" {
		return nil, fmt.Errorf("%w: request id and userId are required", common.ErrValidation)
	}
	if err := s.repo.Transition(ctx, connectionID, userID, domain.PenpalPending, to); err != nil {
		return nil, err
	}
	penpalTransitionsTotal.WithLabelValues(string(to)).Inc()
	return s.repo.FindByID(ctx, connectionID)
}

// ListForUser returns accepted connections with display fields for both sides
func (s *penpalService) ListForUser(ctx context.Context, userID string) ([]*domain.PenpalWithUsers, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", common.ErrValidation)
	}

	conns, err := s.repo.FindAcceptedForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(conns)*2)
	seen := make(map[string]bool)
	for _, c := range conns {
		for _, id := range []string{c.User1ID, c.User2ID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	letters, err := s.letters.FindByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byUser := make(map[string]*domain.Letter, len(letters))
	for _, l := range letters {
		byUser[l.UserID] = l
	}

	result := make([]*domain.PenpalWithUsers, 0, len(conns))
	for _, c := range conns {
		result = append(result, &domain.PenpalWithUsers{
			PenpalConnection: *c,
			User1:            domain.PenpalUserFromLetter(byUser[c.User1ID]),
			User2:            domain.PenpalUserFromLetter(byUser[c.User2ID]),
		})
	}
	return result, nil
}

// ListPendingRequestsFor returns requests awaiting userID's answer, newest first
func (s *penpalService) ListPendingRequestsFor(ctx context.Context, userID string) ([]*domain.PenpalConnection, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", common.ErrValidation)
	}
	conns, err := s.repo.FindPendingForRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}
	if conns == nil {
		conns = []*domain.PenpalConnection{}
	}
	return conns, nil
}

// GetRequestDetails returns a pending request with the initiator's letter, if any
func (s *penpalService) GetRequestDetails(ctx context.Context, connectionID string) (*domain.RequestDetails, error) {
	conn, err := s.repo.FindPendingByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	details := &domain.RequestDetails{Request: conn}
	letter, err := s.letters.FindByUserID(ctx, conn.User1ID)
	switch {
	case err == nil:
		details.Letter = letter
	case errors.Is(err, common.ErrNotFound):
	default:
		return nil, err
	}
	return details, nil
}
