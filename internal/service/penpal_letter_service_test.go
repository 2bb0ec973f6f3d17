package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tegami/tegami-backend/internal/common"
	"github.com/tegami/tegami-backend/internal/domain"
	"github.com/tegami/tegami-backend/internal/repository"
	"github.com/tegami/tegami-backend/internal/testutil"
)

type letterFixture struct {
	ctx      context.Context
	clock    *testutil.Clock
	notifier *MockNotifier
	penpals  repository.PenpalRepository
	svc      *penpalLetterService
}

func newLetterFixture(t *testing.T, requireConnection bool) *letterFixture {
	db := testutil.NewDB(t)
	f := &letterFixture{
		ctx:      context.Background(),
		clock:    testutil.NewClock(),
		notifier: new(MockNotifier),
		penpals:  repository.NewPenpalRepository(db),
	}
	f.notifier.On("Notify", mock.Anything).Return()
	f.svc = NewPenpalLetterService(
		repository.NewPenpalLetterRepository(db),
		f.penpals,
		f.notifier,
		PenpalLetterOptions{RequireConnection: requireConnection},
	).(*penpalLetterService)
	f.svc.now = f.clock.Now
	return f
}

func (f *letterFixture) connect(t *testing.T, a, b string) {
	conn := &domain.PenpalConnection{User1ID: a, User2ID: b, Status: domain.PenpalPending, ConnectedAt: f.clock.Now()}
	require.NoError(t, f.penpals.Create(f.ctx, conn))
	require.NoError(t, f.penpals.Transition(f.ctx, conn.ID, b, domain.PenpalPending, domain.PenpalAccepted))
}

func TestPenpalLetterService_SendSetsDeliveryTime(t *testing.T) {
	f := newLetterFixture(t, false)

	letter, err := f.svc.Send(f.ctx, &domain.SendLetterRequest{FromUserID: "a", ToUserID: "b", Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, domain.LetterInTransit, letter.Status)
	assert.True(t, f.clock.Now().Equal(letter.CreatedAt))
	assert.Equal(t, domain.DeliveryDelay, letter.DeliveryTime.Sub(letter.CreatedAt))
}

func TestPenpalLetterService_SendValidation(t *testing.T) {
	f := newLetterFixture(t, false)

	for _, req := range []domain.SendLetterRequest{
		{ToUserID: "b", Content: "x"},
		{FromUserID: "a", Content: "x"},
		{FromUserID: "a", ToUserID: "a", Content: "x"},
		{FromUserID: "a", ToUserID: "b", Content: " "},
	} {
		req := req
		_, err := f.svc.Send(f.ctx, &req)
		assert.ErrorIs(t, err, common.ErrValidation)
	}
}

func TestPenpalLetterService_SendRequiresAcceptedConnection(t *testing.T) {
	f := newLetterFixture(t, true)

	_, err := f.svc.Send(f.ctx, &domain.SendLetterRequest{FromUserID: "a", ToUserID: "b", Content: "hi"})
	assert.ErrorIs(t, err, common.ErrForbidden)

	f.connect(t, "b", "a")
	_, err = f.svc.Send(f.ctx, &domain.SendLetterRequest{FromUserID: "a", ToUserID: "b", Content: "hi"})
	assert.NoError(t, err)
}

func TestPenpalLetterService_DeliveryTransition(t *testing.T) {
	f := newLetterFixture(t, false)

	sent, err := f.svc.Send(f.ctx, &domain.SendLetterRequest{FromUserID: "a", ToUserID: "b", Content: "hello"})
	require.NoError(t, err)

	f.clock.Advance(domain.DeliveryDelay - time.Second)
	inbox, err := f.svc.ListInbox(f.ctx, "b")
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, domain.LetterInTransit, inbox[0].Status)
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything)

	f.clock.Advance(time.Second)
	inbox, err = f.svc.ListInbox(f.ctx, "b")
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, domain.LetterDelivered, inbox[0].Status)
	f.notifier.AssertCalled(t, "Notify", mock.MatchedBy(func(n domain.Notification) bool {
		return n.Type == domain.EventLetterDelivered && n.UserID == "b"
	}))

	outbox, err := f.svc.ListOutbox(f.ctx, "a")
	require.NoError(t, err)
	require.Len(t, outbox, 1)
	assert.Equal(t, sent.ID, outbox[0].ID)

	n, err := f.svc.DeliverDue(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPenpalLetterService_DeliverDue(t *testing.T) {
	f := newLetterFixture(t, false)

	for i := 0; i < 3; i++ {
		_, err := f.svc.Send(f.ctx, &domain.SendLetterRequest{FromUserID: "a", ToUserID: "b", Content: "x"})
		require.NoError(t, err)
		f.clock.Advance(time.Minute)
	}

	// first letter is due at +2m; clock is at +3m
	n, err := f.svc.DeliverDue(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f.clock.Advance(time.Hour)
	n, err = f.svc.DeliverDue(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPenpalLetterService_ThreadAndMailboxType(t *testing.T) {
	f := newLetterFixture(t, false)

	_, err := f.svc.Send(f.ctx, &domain.SendLetterRequest{FromUserID: "a", ToUserID: "b", Content: "1"})
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	_, err = f.svc.Send(f.ctx, &domain.SendLetterRequest{FromUserID: "b", ToUserID: "a", Content: "2"})
	require.NoError(t, err)

	thread, err := f.svc.ListThread(f.ctx, "a")
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "2", thread[0].Content)

	_, err = f.svc.Mailbox(f.ctx, "a", domain.MailboxType("spam"))
	assert.ErrorIs(t, err, common.ErrValidation)

	empty, err := f.svc.ListInbox(f.ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestPenpalLetterService_MarkRead(t *testing.T) {
	f := newLetterFixture(t, false)

	sent, err := f.svc.Send(f.ctx, &domain.SendLetterRequest{FromUserID: "a", ToUserID: "b", Content: "hello"})
	require.NoError(t, err)

	_, err = f.svc.MarkRead(f.ctx, sent.ID, "b")
	assert.ErrorIs(t, err, common.ErrNotFound)

	f.clock.Advance(domain.DeliveryDelay)
	_, err = f.svc.MarkRead(f.ctx, sent.ID, "a")
	assert.ErrorIs(t, err, common.ErrNotFound)

	read, err := f.svc.MarkRead(f.ctx, sent.ID, "b")
	require.NoError(t, err)
	assert.Equal(t, domain.LetterRead, read.Status)

	// read letters are not touched by delivery
	n, err := f.svc.DeliverDue(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// racedLetterRepo reports every due letter as already promoted by someone else
type racedLetterRepo struct {
	repository.PenpalLetterRepository
	due []*domain.PenpalLetter
}

func (r *racedLetterRepo) FindDue(ctx context.Context, now time.Time, limit int) ([]*domain.PenpalLetter, error) {
	due := r.due
	r.due = nil
	return due, nil
}

func (r *racedLetterRepo) MarkDelivered(ctx context.Context, ids []string) (int64, error) {
	return 0, nil
}

func TestPenpalLetterService_DeliverDueSkipsLostRace(t *testing.T) {
	notifier := new(MockNotifier)
	repo := &racedLetterRepo{due: []*domain.PenpalLetter{{ID: "l1", ToUserID: "b", Status: domain.LetterInTransit}}}
	svc := NewPenpalLetterService(repo, nil, notifier, PenpalLetterOptions{})

	n, err := svc.DeliverDue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	notifier.AssertNotCalled(t, "Notify", mock.Anything)
}
