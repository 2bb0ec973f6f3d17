package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// group label values; they match the /api route groups
const (
	groupLetters = "letters"
	groupPenpals = "penpals"
)

var (
	lettersSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tegami_letters_sent_total",
			Help: "Letters posted, by route group (letters: public intro letters, penpals: penpal mail)",
		},
		[]string{"group"},
	)

	lettersDeliveredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tegami_letters_delivered_total",
			Help: "Penpal letters promoted from in-transit to delivered",
		},
	)

	penpalTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tegami_penpal_connections_total",
			Help: "Penpal connection state changes",
		},
		[]string{"status"},
	)

	journalEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tegami_journal_entries_total",
			Help: "Journal entries written, by mood",
		},
		[]string{"mood"},
	)

	audioMemoriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tegami_audio_memories_total",
			Help: "Audio memories saved, by source (upload or url)",
		},
		[]string{"source"},
	)
)
