package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"sheet-alert-bot/internal/pricefeed"
	"sheet-alert-bot/internal/registry"
	"sheet-alert-bot/internal/ticker"
	"sheet-alert-bot/lib/helpers"
)

var (
	passesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sheetalert",
		Subsystem: "alert_checker",
		Name:      "passes_total",
		Help:      "The total number of completed alert reconciliation passes",
	})
	passesSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sheetalert",
		Subsystem: "alert_checker",
		Name:      "passes_skipped_total",
		Help:      "The number of passes skipped because the price sheet could not be fetched",
	})
	alertsFired = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sheetalert",
		Subsystem: "alert_checker",
		Name:      "alerts_fired_total",
		Help:      "The total number of alerts that triggered and were removed",
	})
	notifyFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sheetalert",
		Subsystem: "alert_checker",
		Name:      "notify_failures_total",
		Help:      "The number of alert notifications that could not be delivered",
	})
)

func init() {
	prometheus.MustRegister(passesTotal, passesSkipped, alertsFired, notifyFailures)
}

// Notifier delivers a MarkdownV2 message to a chat.
type Notifier interface {
	Notify(chatID int64, text string) error
}

// Checker evaluates every standing alert against a fresh price snapshot
// and fires at-most-once notifications.
type Checker struct {
	Source       pricefeed.Source
	Registry     *registry.Registry
	Notifier     Notifier
	FetchTimeout time.Duration
}

// CheckAlerts runs one reconciliation pass. The sheet is fetched exactly
// once per pass; if the fetch fails the pass is skipped and the registry
// is left untouched.
func (c *Checker) CheckAlerts(ctx context.Context) {
	log.Debug("🔄 Checking alerts...")

	fetchCtx := ctx
	if c.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, c.FetchTimeout)
		defer cancel()
	}

	snap, err := c.Source.Fetch(fetchCtx)
	if err != nil {
		passesSkipped.Inc()
		log.Errorf("❌ Skipping alert pass, could not fetch price sheet: %v", err)
		return
	}

	for _, chatID := range c.Registry.Chats() {
		// List returns a copy, so removals during the pass do not
		// perturb iteration.
		for _, a := range c.Registry.List(chatID) {
			price, ok := snap.Price(a.Symbol)
			if !ok {
				log.Debugf("⚠️ No price data for %s, alert stands", a.Symbol)
				continue
			}

			if price > a.Target {
				continue
			}

			// Notify first: a failed delivery keeps the alert standing
			// so it retries on the next pass instead of vanishing.
			if err := c.Notifier.Notify(chatID, TriggeredMessage(a, price)); err != nil {
				notifyFailures.Inc()
				log.Errorf("❌ Failed to send alert notification to chat %d: %v", chatID, err)
				continue
			}

			if c.Registry.PopIfTriggered(chatID, a) {
				alertsFired.Inc()
				log.Debugf("✅ Alert fired for chat %d: %s <= %.2f", chatID, a.Symbol, a.Target)
			}
		}
	}

	passesTotal.Inc()
	log.Debug("✅ Alert check completed.")
}

// Run schedules reconciliation passes: one initial delay, then a fixed
// interval until the context is canceled. An in-flight pass finishes
// before shutdown completes.
func (c *Checker) Run(ctx context.Context, initialDelay, interval time.Duration) {
	log.Info("🚀 Alert checker started.")

	select {
	case <-ctx.Done():
		return
	case <-time.After(initialDelay):
	}
	c.checkSafely(ctx)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("Alert checker stopped.")
			return
		case <-t.C:
			c.checkSafely(ctx)
		}
	}
}

func (c *Checker) checkSafely(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("🔥 Panic recovered in alert checker: %v", r)
		}
	}()
	c.CheckAlerts(ctx)
}

// TriggeredMessage renders the notification sent when an alert fires.
func TriggeredMessage(a ticker.Alert, price float64) string {
	return fmt.Sprintf(
		"🚨 *Alerta\\!* %s atingiu R$ %s \\(alvo R$ %s\\)",
		helpers.EscapeMarkdownV2(a.Symbol),
		helpers.FormatPriceBR(price, true),
		helpers.FormatPriceBR(a.Target, true),
	)
}
