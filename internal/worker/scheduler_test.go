package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tegami/tegami-backend/internal/domain"
)

func TestScheduler_TickRunsDueTasks(t *testing.T) {
	s := NewScheduler(time.Hour)
	ctx := context.Background()

	var count int
	s.Register("counter", time.Minute, func(context.Context) error {
		count++
		return nil
	})

	now := time.Now()
	s.tick(ctx, now)
	assert.Equal(t, 1, count)

	// not due yet
	s.tick(ctx, now.Add(30*time.Second))
	assert.Equal(t, 1, count)

	s.tick(ctx, now.Add(time.Minute))
	assert.Equal(t, 2, count)

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.EqualValues(t, 2, tasks[0].RunCount)
	assert.Nil(t, tasks[0].LastError)
}

func TestScheduler_RecordsErrors(t *testing.T) {
	s := NewScheduler(time.Hour)
	s.Register("broken", time.Minute, func(context.Context) error { return errors.New("boom") })

	s.tick(context.Background(), time.Now())

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].LastError)
	assert.Equal(t, "boom", *tasks[0].LastError)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(5 * time.Millisecond)
	var runs int32
	s.Register("fast", time.Millisecond, func(context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	s.Start(context.Background())
	require.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := atomic.LoadInt32(&runs)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&runs))
}

type mockLetterService struct {
	mock.Mock
}

func (m *mockLetterService) Send(ctx context.Context, req *domain.SendLetterRequest) (*domain.PenpalLetter, error) {
	panic("unused")
}

func (m *mockLetterService) ListInbox(ctx context.Context, userID string) ([]*domain.PenpalLetter, error) {
	panic("unused")
}

func (m *mockLetterService) ListOutbox(ctx context.Context, userID string) ([]*domain.PenpalLetter, error) {
	panic("unused")
}

func (m *mockLetterService) ListThread(ctx context.Context, userID string) ([]*domain.PenpalLetter, error) {
	panic("unused")
}

func (m *mockLetterService) Mailbox(ctx context.Context, userID string, box domain.MailboxType) ([]*domain.PenpalLetter, error) {
	panic("unused")
}

func (m *mockLetterService) MarkRead(ctx context.Context, letterID, readerID string) (*domain.PenpalLetter, error) {
	panic("unused")
}

func (m *mockLetterService) DeliverDue(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestRegisterDelivery(t *testing.T) {
	letters := new(mockLetterService)
	letters.On("DeliverDue", mock.Anything).Return(3, nil).Once()

	s := NewScheduler(time.Hour)
	RegisterDelivery(s, letters, 15*time.Second)
	s.tick(context.Background(), time.Now())

	letters.AssertExpectations(t)
	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, DeliveryTaskName, tasks[0].Name)
	assert.Equal(t, "15s", tasks[0].Interval)
}
