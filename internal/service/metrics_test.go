package service

import (
	"context"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tegami/tegami-backend/internal/domain"
	"github.com/tegami/tegami-backend/internal/repository"
	"github.com/tegami/tegami-backend/internal/testutil"
)

func TestMetrics_LettersSentByGroup(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewLetterService(repository.NewLetterRepository(db), repository.NewProfileRepository(db), nil)

	before := promtest.ToFloat64(lettersSentTotal.WithLabelValues(groupLetters))
	penpalsBefore := promtest.ToFloat64(lettersSentTotal.WithLabelValues(groupPenpals))

	_, err := svc.Create(ctx, &domain.LetterRequest{UserID: "u1", Content: "Hello from Osaka"})
	require.NoError(t, err)

	assert.Equal(t, before+1, promtest.ToFloat64(lettersSentTotal.WithLabelValues(groupLetters)))
	assert.Equal(t, penpalsBefore, promtest.ToFloat64(lettersSentTotal.WithLabelValues(groupPenpals)))
}

func TestMetrics_AudioMemoriesBySource(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewAudioService(repository.NewAudioRepository(db), nil, testMaxUpload)

	before := promtest.ToFloat64(audioMemoriesTotal.WithLabelValues("url"))

	req := audioReq()
	req.AudioURL = "https://cdn/audio-memories/a.mp3"
	_, err := svc.CreateFromURL(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, before+1, promtest.ToFloat64(audioMemoriesTotal.WithLabelValues("url")))
}
