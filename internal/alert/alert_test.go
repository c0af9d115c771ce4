package alert

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheet-alert-bot/internal/pricefeed"
	"sheet-alert-bot/internal/registry"
	"sheet-alert-bot/internal/ticker"
)

type fakeSource struct {
	snap    *pricefeed.Snapshot
	err     error
	fetches int
}

func (f *fakeSource) Fetch(ctx context.Context) (*pricefeed.Snapshot, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeNotifier struct {
	sent []sentMessage
	err  error
}

func (f *fakeNotifier) Notify(chatID int64, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func snapshotOf(pairs ...string) *pricefeed.Snapshot {
	snap := pricefeed.NewSnapshot()
	for i := 0; i+1 < len(pairs); i += 2 {
		snap.Set(pairs[i], pairs[i+1])
	}
	return snap
}

func TestCheckPassFiresAtOrBelowTarget(t *testing.T) {
	reg := registry.New()
	reg.Add(10, ticker.Alert{Symbol: "PETR4.SA", Target: 30})

	notifier := &fakeNotifier{}
	c := &Checker{
		Source:   &fakeSource{snap: snapshotOf("PETR4.SA", "R$ 29,90")},
		Registry: reg,
		Notifier: notifier,
	}

	c.CheckAlerts(context.Background())

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, int64(10), notifier.sent[0].chatID)
	assert.Contains(t, notifier.sent[0].text, "PETR4\\.SA")
	assert.Contains(t, notifier.sent[0].text, "29,90")
	assert.Empty(t, reg.List(10), "fired alert is removed")

	// A second pass with the same price fires nothing.
	c.CheckAlerts(context.Background())
	assert.Len(t, notifier.sent, 1)
}

func TestCheckPassFiresAtExactTarget(t *testing.T) {
	reg := registry.New()
	reg.Add(10, ticker.Alert{Symbol: "PETR4.SA", Target: 30})

	notifier := &fakeNotifier{}
	c := &Checker{
		Source:   &fakeSource{snap: snapshotOf("PETR4.SA", "R$ 30,00")},
		Registry: reg,
		Notifier: notifier,
	}

	c.CheckAlerts(context.Background())

	assert.Len(t, notifier.sent, 1, "trigger is at-or-below, not strictly below")
	assert.Empty(t, reg.List(10))
}

func TestCheckPassLeavesAlertAboveTarget(t *testing.T) {
	reg := registry.New()
	reg.Add(10, ticker.Alert{Symbol: "VALE3.SA", Target: 50})

	notifier := &fakeNotifier{}
	c := &Checker{
		Source:   &fakeSource{snap: snapshotOf("VALE3.SA", "R$ 55,00")},
		Registry: reg,
		Notifier: notifier,
	}

	c.CheckAlerts(context.Background())

	assert.Empty(t, notifier.sent)
	assert.Len(t, reg.List(10), 1, "alert stays standing")
}

func TestCheckPassSkipsUnknownPrice(t *testing.T) {
	reg := registry.New()
	reg.Add(10, ticker.Alert{Symbol: "BBAS3.SA", Target: 40})
	reg.Add(10, ticker.Alert{Symbol: "WEG3.SA", Target: 40})

	notifier := &fakeNotifier{}
	c := &Checker{
		// WEG3 present but unparseable, BBAS3 absent entirely.
		Source:   &fakeSource{snap: snapshotOf("WEG3.SA", "#N/A")},
		Registry: reg,
		Notifier: notifier,
	}

	c.CheckAlerts(context.Background())

	assert.Empty(t, notifier.sent)
	assert.Len(t, reg.List(10), 2, "a data gap must not destroy standing alerts")
}

func TestCheckPassSkippedWhenFetchFails(t *testing.T) {
	reg := registry.New()
	reg.Add(10, ticker.Alert{Symbol: "PETR4.SA", Target: 100})

	notifier := &fakeNotifier{}
	src := &fakeSource{err: errors.New("sheet unreachable")}
	c := &Checker{Source: src, Registry: reg, Notifier: notifier}

	c.CheckAlerts(context.Background())

	assert.Empty(t, notifier.sent)
	assert.Len(t, reg.List(10), 1, "registry untouched on fetch failure")

	// Next tick with a healthy sheet evaluates normally.
	src.err = nil
	src.snap = snapshotOf("PETR4.SA", "R$ 29,90")
	c.CheckAlerts(context.Background())

	assert.Len(t, notifier.sent, 1)
	assert.Empty(t, reg.List(10))
}

func TestCheckPassFetchesSheetOncePerPass(t *testing.T) {
	reg := registry.New()
	for i := 0; i < 5; i++ {
		reg.Add(int64(i), ticker.Alert{Symbol: "PETR4.SA", Target: 1})
	}

	src := &fakeSource{snap: snapshotOf("PETR4.SA", "R$ 30,00")}
	c := &Checker{Source: src, Registry: reg, Notifier: &fakeNotifier{}}

	c.CheckAlerts(context.Background())

	assert.Equal(t, 1, src.fetches, "one fetch serves every alert in the pass")
}

func TestCheckPassDeliveryFailureKeepsAlert(t *testing.T) {
	reg := registry.New()
	reg.Add(10, ticker.Alert{Symbol: "PETR4.SA", Target: 30})

	notifier := &fakeNotifier{err: errors.New("telegram down")}
	c := &Checker{
		Source:   &fakeSource{snap: snapshotOf("PETR4.SA", "R$ 29,90")},
		Registry: reg,
		Notifier: notifier,
	}

	c.CheckAlerts(context.Background())
	assert.Len(t, reg.List(10), 1, "undelivered alert must not be dropped")

	notifier.err = nil
	c.CheckAlerts(context.Background())
	assert.Len(t, notifier.sent, 1)
	assert.Empty(t, reg.List(10))
}

func TestCheckPassDeliveryFailureDoesNotBlockSiblings(t *testing.T) {
	reg := registry.New()
	reg.Add(10, ticker.Alert{Symbol: "PETR4.SA", Target: 30})
	reg.Add(11, ticker.Alert{Symbol: "PETR4.SA", Target: 30})

	failFirst := &selectiveNotifier{failChat: 10}
	c := &Checker{
		Source:   &fakeSource{snap: snapshotOf("PETR4.SA", "R$ 29,90")},
		Registry: reg,
		Notifier: failFirst,
	}

	c.CheckAlerts(context.Background())

	assert.Len(t, reg.List(10), 1, "failed chat keeps its alert")
	assert.Empty(t, reg.List(11), "other chats still evaluated")
}

type selectiveNotifier struct {
	failChat int64
	sent     []sentMessage
}

func (s *selectiveNotifier) Notify(chatID int64, text string) error {
	if chatID == s.failChat {
		return errors.New("delivery refused")
	}
	s.sent = append(s.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func TestDuplicateAlertsEachFireOnce(t *testing.T) {
	reg := registry.New()
	reg.Add(10, ticker.Alert{Symbol: "ITUB4.SA", Target: 25})
	reg.Add(10, ticker.Alert{Symbol: "ITUB4.SA", Target: 25})

	notifier := &fakeNotifier{}
	c := &Checker{
		Source:   &fakeSource{snap: snapshotOf("ITUB4.SA", "R$ 24,00")},
		Registry: reg,
		Notifier: notifier,
	}

	c.CheckAlerts(context.Background())

	assert.Len(t, notifier.sent, 2, "each duplicate fires independently")
	assert.Empty(t, reg.List(10), "each pop removed exactly one entry")
}

func TestManualRemovalBeatsReconciliation(t *testing.T) {
	reg := registry.New()
	a := ticker.Alert{Symbol: "PETR4.SA", Target: 30}
	reg.Add(10, a)

	// Manual removal between the list snapshot and the pop.
	require.Equal(t, 1, reg.Remove(10, a))
	assert.False(t, reg.PopIfTriggered(10, a), "pop observes already removed")
}

func TestTriggeredMessage(t *testing.T) {
	msg := TriggeredMessage(ticker.Alert{Symbol: "PETR4.SA", Target: 30}, 29.9)
	assert.Equal(t, "🚨 *Alerta\\!* PETR4\\.SA atingiu R$ 29,90 \\(alvo R$ 30,00\\)", msg)
}
