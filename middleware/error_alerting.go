package middleware

import (
	"crypto/md5"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/slack-go/slack"
)

type SlackAlertConfig struct {
	WebhookURL  string
	Environment string
	AppName     string
	LogsURL     string
}

// ErrorAlertMiddleware recovers handler panics and posts deduplicated alerts
// to a Slack webhook so operator eyes land on failures without log trawling.
type ErrorAlertMiddleware struct {
	config        SlackAlertConfig
	alertedErrors map[string]time.Time // hash -> last alert time
	mutex         sync.RWMutex
	alertCooldown time.Duration // prevent spam
}

func NewErrorAlertMiddleware(config SlackAlertConfig) *ErrorAlertMiddleware {
	return &ErrorAlertMiddleware{
		config:        config,
		alertedErrors: make(map[string]time.Time),
		alertCooldown: 10 * time.Minute, // Don't alert same error more than once per 10min
	}
}

// HTTPMiddleware wraps the whole router; a panicking handler produces an
// alert and a 500 instead of tearing down the connection.
func (m *ErrorAlertMiddleware) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				err := fmt.Errorf("PANIC - %v", rec)
				log.Printf("❌ HTTP %s %s: %v", r.Method, r.URL.Path, err)
				m.AlertOnError(err, fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// AlertOnError reports a handler-level failure through the same deduplicated
// webhook channel. Upstream API errors are NOT alerted - they are normal
// operation and belong to the caller.
func (m *ErrorAlertMiddleware) AlertOnError(err error, context string) {
	errorMsg := fmt.Sprintf("%s: %v", context, err)

	// Create hash of error for deduplication
	hash := fmt.Sprintf("%x", md5.Sum([]byte(errorMsg)))

	m.mutex.Lock()
	defer m.mutex.Unlock()

	// Check if we've alerted for this error recently
	if lastAlert, exists := m.alertedErrors[hash]; exists {
		if time.Since(lastAlert) < m.alertCooldown {
			return // Skip alert - too recent
		}
	}

	// Send alert asynchronously
	go m.sendSlackAlert(errorMsg, context)
	m.alertedErrors[hash] = time.Now()
}

func (m *ErrorAlertMiddleware) sendSlackAlert(errorMsg, context string) {
	if m.config.WebhookURL == "" {
		return // Slack alerts disabled
	}

	envTag := ""
	if m.config.Environment == "dev" {
		envTag = "[dev] "
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(
				slack.PlainTextType,
				fmt.Sprintf("🚨 %s%s Error Alert", envTag, m.config.AppName),
				true,
				false,
			),
		),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Service:* %s", m.config.AppName), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Environment:* %s", m.config.Environment), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Context:* %s", context), false, false),
		}, nil),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Error:*\n```%s```", errorMsg), false, false),
			nil,
			nil,
		),
	}
	if m.config.LogsURL != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("🔗 <%s|View Logs>", m.config.LogsURL), false, false),
			nil,
			nil,
		))
	}

	message := &slack.WebhookMessage{
		Blocks: &slack.Blocks{BlockSet: blocks},
	}

	if err := slack.PostWebhook(m.config.WebhookURL, message); err != nil {
		log.Printf("❌ Failed to send Slack alert: %v", err)
	}
}
