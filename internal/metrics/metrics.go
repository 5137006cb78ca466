package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var TelegramLogins = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reputation_telegram_logins_total",
	Help: "Number of Telegram login attempts by result",
}, []string{"result"})

var AccountsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "reputation_accounts_created_total",
	Help: "Number of social accounts created on first review",
})

var ReviewsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reputation_reviews_recorded_total",
	Help: "Number of reviews recorded by impact sign",
}, []string{"impact"})

var AccountCreateRetries = promauto.NewCounter(prometheus.CounterOpts{
	Name: "reputation_account_create_retries_total",
	Help: "Number of review submissions retried after losing an account creation race",
})
