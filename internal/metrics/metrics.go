package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RemindersCreated tracks the total number of reminders created
	RemindersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reminder_service_reminders_created_total",
			Help: "Total number of reminders created",
		},
	)

	// RemindersDeleted tracks the total number of reminders deleted by users
	RemindersDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reminder_service_reminders_deleted_total",
			Help: "Total number of reminders deleted by users",
		},
	)

	// RemindersExpired tracks reminders dropped because their event time passed
	RemindersExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reminder_service_reminders_expired_total",
			Help: "Total number of reminders removed after their event time passed",
		},
	)

	// NotificationsFired tracks notifications delivered, by offset kind
	NotificationsFired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_service_notifications_fired_total",
			Help: "Total number of notifications delivered",
		},
		[]string{"offset"},
	)

	// NotificationsFailed tracks notification deliveries that failed
	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_service_notifications_failed_total",
			Help: "Total number of notification deliveries that failed",
		},
		[]string{"offset", "reason"},
	)

	// ArmedNotifications tracks the current number of live timers
	ArmedNotifications = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reminder_service_armed_notifications",
			Help: "Current number of armed notification timers",
		},
	)

	// RateLimitExceeded tracks rate limit violations
	RateLimitExceeded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_service_rate_limit_exceeded_total",
			Help: "Total number of rate limit exceeded events",
		},
		[]string{"owner_id"},
	)
)
