package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tegami/tegami-backend/internal/common"
	"github.com/tegami/tegami-backend/internal/domain"
	"github.com/tegami/tegami-backend/internal/testutil"
	"gorm.io/gorm"
)

type RepositorySuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context
	t0  time.Time
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.db = testutil.NewDB(s.T())
	s.ctx = context.Background()
	s.t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
}

func (s *RepositorySuite) TestLetter_OnePerUser() {
	repo := NewLetterRepository(s.db)

	s.Require().NoError(repo.Create(s.ctx, &domain.Letter{UserID: "u1", Content: "hello", CreatedAt: s.t0}))
	err := repo.Create(s.ctx, &domain.Letter{UserID: "u1", Content: "again", CreatedAt: s.t0})
	s.ErrorIs(err, common.ErrConflict)

	got, err := repo.FindByUserID(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal("hello", got.Content)

	_, err = repo.FindByUserID(s.ctx, "nobody")
	s.ErrorIs(err, common.ErrNotFound)
}

func (s *RepositorySuite) TestLetter_FindAllNewestFirstAndUpdate() {
	repo := NewLetterRepository(s.db)
	older := &domain.Letter{UserID: "u1", Content: "first", CreatedAt: s.t0}
	newer := &domain.Letter{UserID: "u2", Content: "second", CreatedAt: s.t0.Add(time.Minute)}
	s.Require().NoError(repo.Create(s.ctx, older))
	s.Require().NoError(repo.Create(s.ctx, newer))

	all, err := repo.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("u2", all[0].UserID)

	s.Require().NoError(repo.Update(s.ctx, older.ID, domain.LetterFields{Content: "edited", Country: "Japan"}))
	got, err := repo.FindByID(s.ctx, older.ID)
	s.Require().NoError(err)
	s.Equal("edited", got.Content)
	s.Equal("Japan", got.Country)
	s.Equal("u1", got.UserID)

	byUsers, err := repo.FindByUserIDs(s.ctx, []string{"u1", "u2", "u3"})
	s.Require().NoError(err)
	s.Len(byUsers, 2)
}

func (s *RepositorySuite) TestPenpal_PairUniqueInEitherOrder() {
	repo := NewPenpalRepository(s.db)
	s.Require().NoError(repo.Create(s.ctx, &domain.PenpalConnection{User1ID: "a", User2ID: "b", Status: domain.PenpalPending, ConnectedAt: s.t0}))

	err := repo.Create(s.ctx, &domain.PenpalConnection{User1ID: "b", User2ID: "a", Status: domain.PenpalPending, ConnectedAt: s.t0})
	s.ErrorIs(err, common.ErrConflict)

	found, err := repo.FindBetween(s.ctx, "b", "a")
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal("a", found.User1ID)

	none, err := repo.FindBetween(s.ctx, "a", "c")
	s.Require().NoError(err)
	s.Nil(none)
}

func (s *RepositorySuite) TestPenpal_TransitionIsConditional() {
	repo := NewPenpalRepository(s.db)
	conn := &domain.PenpalConnection{User1ID: "a", User2ID: "b", Status: domain.PenpalPending, ConnectedAt: s.t0}
	s.Require().NoError(repo.Create(s.ctx, conn))

	// only the recipient may act
	s.ErrorIs(repo.Transition(s.ctx, conn.ID, "a", domain.PenpalPending, domain.PenpalAccepted), common.ErrNotFound)
	s.ErrorIs(repo.Transition(s.ctx, "missing", "b", domain.PenpalPending, domain.PenpalAccepted), common.ErrNotFound)

	s.Require().NoError(repo.Transition(s.ctx, conn.ID, "b", domain.PenpalPending, domain.PenpalAccepted))
	s.ErrorIs(repo.Transition(s.ctx, conn.ID, "b", domain.PenpalPending, domain.PenpalAccepted), common.ErrNotFound)

	ok, err := repo.ExistsAccepted(s.ctx, "b", "a")
	s.Require().NoError(err)
	s.True(ok)

	forA, err := repo.FindAcceptedForUser(s.ctx, "a")
	s.Require().NoError(err)
	s.Len(forA, 1)
	forB, err := repo.FindAcceptedForUser(s.ctx, "b")
	s.Require().NoError(err)
	s.Len(forB, 1)

	_, err = repo.FindPendingByID(s.ctx, conn.ID)
	s.ErrorIs(err, common.ErrNotFound)
}

func (s *RepositorySuite) TestPenpal_PendingForRecipientNewestFirst() {
	repo := NewPenpalRepository(s.db)
	s.Require().NoError(repo.Create(s.ctx, &domain.PenpalConnection{User1ID: "a", User2ID: "z", Status: domain.PenpalPending, ConnectedAt: s.t0}))
	s.Require().NoError(repo.Create(s.ctx, &domain.PenpalConnection{User1ID: "b", User2ID: "z", Status: domain.PenpalPending, ConnectedAt: s.t0.Add(time.Hour)}))
	s.Require().NoError(repo.Create(s.ctx, &domain.PenpalConnection{User1ID: "z", User2ID: "c", Status: domain.PenpalPending, ConnectedAt: s.t0}))

	pending, err := repo.FindPendingForRecipient(s.ctx, "z")
	s.Require().NoError(err)
	s.Require().Len(pending, 2)
	s.Equal("b", pending[0].User1ID)
	s.Equal("a", pending[1].User1ID)
}

func (s *RepositorySuite) TestPenpalLetter_DeliveryAndRead() {
	repo := NewPenpalLetterRepository(s.db)
	l := &domain.PenpalLetter{
		FromUserID: "a", ToUserID: "b", Content: "hi",
		Status: domain.LetterInTransit, CreatedAt: s.t0, DeliveryTime: s.t0.Add(domain.DeliveryDelay),
	}
	s.Require().NoError(repo.Create(s.ctx, l))

	due, err := repo.FindDue(s.ctx, s.t0.Add(time.Minute), 0)
	s.Require().NoError(err)
	s.Empty(due)

	// not yet arrived
	s.ErrorIs(repo.MarkRead(s.ctx, l.ID, "b", s.t0.Add(time.Minute)), common.ErrNotFound)

	due, err = repo.FindDue(s.ctx, s.t0.Add(domain.DeliveryDelay), 10)
	s.Require().NoError(err)
	s.Require().Len(due, 1)

	n, err := repo.MarkDelivered(s.ctx, []string{l.ID})
	s.Require().NoError(err)
	s.EqualValues(1, n)
	n, err = repo.MarkDelivered(s.ctx, []string{l.ID})
	s.Require().NoError(err)
	s.EqualValues(0, n)

	// sender cannot mark read
	s.ErrorIs(repo.MarkRead(s.ctx, l.ID, "a", s.t0.Add(time.Hour)), common.ErrNotFound)
	s.Require().NoError(repo.MarkRead(s.ctx, l.ID, "b", s.t0.Add(time.Hour)))

	got, err := repo.FindByID(s.ctx, l.ID)
	s.Require().NoError(err)
	s.Equal(domain.LetterRead, got.Status)

	// read never regresses to delivered
	n, err = repo.MarkDelivered(s.ctx, []string{l.ID})
	s.Require().NoError(err)
	s.EqualValues(0, n)
}

func (s *RepositorySuite) TestPenpalLetter_Mailbox() {
	repo := NewPenpalLetterRepository(s.db)
	for i, pair := range [][2]string{{"a", "b"}, {"b", "a"}, {"c", "a"}, {"b", "c"}} {
		at := s.t0.Add(time.Duration(i) * time.Minute)
		s.Require().NoError(repo.Create(s.ctx, &domain.PenpalLetter{
			FromUserID: pair[0], ToUserID: pair[1], Content: "x",
			Status: domain.LetterInTransit, CreatedAt: at, DeliveryTime: at.Add(domain.DeliveryDelay),
		}))
	}

	inbox, err := repo.FindMailbox(s.ctx, "a", domain.MailboxInbox)
	s.Require().NoError(err)
	s.Require().Len(inbox, 2)
	s.Equal("c", inbox[0].FromUserID)

	outbox, err := repo.FindMailbox(s.ctx, "a", domain.MailboxOutbox)
	s.Require().NoError(err)
	s.Len(outbox, 1)

	all, err := repo.FindMailbox(s.ctx, "a", domain.MailboxAll)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *RepositorySuite) TestJournal_DeleteOwnershipAndMoodCounts() {
	repo := NewJournalRepository(s.db)
	moods := []string{"happy", "sad", "happy", "calm"}
	var first *domain.JournalEntry
	for i, m := range moods {
		e := &domain.JournalEntry{UserID: "u1", Title: "t", Content: "c", Mood: m, MoodIntensity: 3, Tags: []string{"x"}, CreatedAt: s.t0.Add(time.Duration(i) * time.Minute)}
		s.Require().NoError(repo.Create(s.ctx, e))
		if first == nil {
			first = e
		}
	}
	s.Require().NoError(repo.Create(s.ctx, &domain.JournalEntry{UserID: "u2", Title: "t", Content: "c", Mood: "sad", MoodIntensity: 1, CreatedAt: s.t0}))

	counts, err := repo.MoodCounts(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal([]domain.MoodCount{{Mood: "happy", Count: 2}, {Mood: "calm", Count: 1}, {Mood: "sad", Count: 1}}, counts)

	got, err := repo.FindByID(s.ctx, first.ID)
	s.Require().NoError(err)
	s.Equal([]string{"x"}, got.Tags)

	s.ErrorIs(repo.Delete(s.ctx, first.ID, "u2"), common.ErrNotFound)
	s.Require().NoError(repo.Delete(s.ctx, first.ID, "u1"))
	s.ErrorIs(repo.Delete(s.ctx, first.ID, "u1"), common.ErrNotFound)

	list, err := repo.FindByUserID(s.ctx, "u1")
	s.Require().NoError(err)
	s.Len(list, 3)
	s.Equal("calm", list[0].Mood)
}

func (s *RepositorySuite) TestAudio_CRUD() {
	repo := NewAudioRepository(s.db)
	m := &domain.AudioMemory{UserID: "u1", Title: "voice", AudioURL: "https://cdn/audio-memories/x.webm", CreatedAt: s.t0}
	s.Require().NoError(repo.Create(s.ctx, m))
	s.NotEmpty(m.ID)

	list, err := repo.FindByUserID(s.ctx, "u1")
	s.Require().NoError(err)
	s.Len(list, 1)

	s.ErrorIs(repo.Delete(s.ctx, m.ID, "u2"), common.ErrNotFound)
	s.Require().NoError(repo.Delete(s.ctx, m.ID, "u1"))
	_, err = repo.FindByID(s.ctx, m.ID)
	s.ErrorIs(err, common.ErrNotFound)
}

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, isDuplicateKey(nil))
	assert.True(t, isDuplicateKey(gorm.ErrDuplicatedKey))
	assert.False(t, isDuplicateKey(assert.AnError))

	err := translate(gorm.ErrRecordNotFound, "thing")
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Contains(t, err.Error(), "thing")
}
