package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog reload metrics, labeled by outcome ("ok" or "error").
	catalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kubescenarios_catalog_reloads_total",
			Help: "Total number of catalog reloads triggered by data directory changes",
		},
		[]string{"status"},
	)

	quizSessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kubescenarios_quiz_sessions_created_total",
			Help: "Total number of quiz sessions created",
		},
	)

	quizSessionsGraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kubescenarios_quiz_sessions_graded_total",
			Help: "Total number of quiz sessions graded and consumed",
		},
	)
)
