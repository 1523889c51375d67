package duty

import (
	"errors"
	"testing"
	"time"

	"github.com/vodinokreas/dutybot/internal/config"
	"github.com/vodinokreas/dutybot/internal/discord"
)

// fastConfig shrinks scheduler timing so a full reminder round fits in a
// test run.
func fastConfig() *config.Config {
	cfg := slowConfig()
	cfg.ReminderMinInterval = 20 * time.Millisecond
	cfg.ReminderMaxInterval = 30 * time.Millisecond
	cfg.PromptTimeout = 60 * time.Millisecond
	return cfg
}

func TestReminderLoop_PromptTimeoutAutoEnds(t *testing.T) {
	f := newTestFixture(fastConfig())
	if err := f.engine.Start("user-1", "Mod One"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	waitUntil(t, time.Second, func() bool { return f.messenger.promptCount() >= 1 }, "expected a reminder prompt to be sent")
	if !f.recorder.hasTitle("Duty Reminder Sent") {
		t.Fatal("expected Duty Reminder Sent audit record")
	}

	waitUntil(t, time.Second, func() bool {
		_, ok := f.session("user-1")
		return !ok
	}, "expected session to auto-end after prompt timeout")

	ev, ok := f.recorder.lastTitled("Duty Auto-Ended")
	if !ok {
		t.Fatal("expected Duty Auto-Ended audit record")
	}
	if !hasFieldValue(ev, "Auto-End Reason", reasonPromptTimeout) {
		t.Fatalf("expected timeout reason, got %+v", ev.Fields)
	}
	if f.points.addCalls != 1 {
		t.Fatalf("expected points awarded on timeout auto-end, got %d ledger writes", f.points.addCalls)
	}
}

func TestReminderLoop_ContinueReloops(t *testing.T) {
	f := newTestFixture(fastConfig())
	if err := f.engine.Start("user-1", "Mod One"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	waitUntil(t, time.Second, func() bool { return f.messenger.promptCount() >= 1 }, "expected first reminder prompt")
	if err := f.engine.Continue("user-1", "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	waitUntil(t, time.Second, func() bool { return f.messenger.promptCount() >= 2 }, "expected loop to re-enter waiting and prompt again")
	sess, ok := f.session("user-1")
	if !ok {
		t.Fatal("expected session to survive an affirmed continue")
	}
	if sess.Continues < 1 {
		t.Fatalf("expected at least one continue, got %d", sess.Continues)
	}

	f.engine.End("user-1", CauseManual, "")
}

func TestReminderLoop_UnreachableUserAutoEnds(t *testing.T) {
	f := newTestFixture(fastConfig())
	f.messenger.promptErr = discord.ErrUnreachable
	if err := f.engine.Start("user-1", "Mod One"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	waitUntil(t, time.Second, func() bool {
		_, ok := f.session("user-1")
		return !ok
	}, "expected session to auto-end when reminder is undeliverable")

	ev, ok := f.recorder.lastTitled("Duty Auto-Ended")
	if !ok {
		t.Fatal("expected Duty Auto-Ended audit record")
	}
	if !hasFieldValue(ev, "Auto-End Reason", reasonNoDMChannel) {
		t.Fatalf("expected no-DM reason, got %+v", ev.Fields)
	}
}

func TestReminderLoop_MaxDurationEndsWithoutPrompt(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxDutyDuration = time.Millisecond
	f := newTestFixture(cfg)
	if err := f.engine.Start("user-1", "Mod One"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	waitUntil(t, time.Second, func() bool {
		_, ok := f.session("user-1")
		return !ok
	}, "expected session to auto-end on max duration")

	if f.messenger.promptCount() != 0 {
		t.Fatalf("expected no prompt before max-duration end, got %d", f.messenger.promptCount())
	}
	ev, ok := f.recorder.lastTitled("Duty Auto-Ended")
	if !ok {
		t.Fatal("expected Duty Auto-Ended audit record")
	}
	if !hasFieldValue(ev, "Auto-End Reason", reasonMaxDuration) {
		t.Fatalf("expected max-duration reason, got %+v", ev.Fields)
	}
}

func TestReminderLoop_EndCancelsOutstandingTimer(t *testing.T) {
	f := newTestFixture(fastConfig())
	if err := f.engine.Start("user-1", "Mod One"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.engine.End("user-1", CauseManual, "") {
		t.Fatal("expected End to close the session")
	}

	time.Sleep(100 * time.Millisecond)
	if f.messenger.promptCount() != 0 {
		t.Fatalf("expected no reminder after teardown, got %d", f.messenger.promptCount())
	}
}

func TestReminderLoop_GenericSendErrorLeavesSessionOpen(t *testing.T) {
	f := newTestFixture(fastConfig())
	f.messenger.promptErr = errors.New("gateway hiccup")
	if err := f.engine.Start("user-1", "Mod One"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The loop logs and exits; the session stays until an explicit end.
	time.Sleep(150 * time.Millisecond)
	if _, ok := f.session("user-1"); !ok {
		t.Fatal("expected session to remain open after a non-delivery scheduler error")
	}
	if f.points.addCalls != 0 {
		t.Fatalf("expected no ledger writes, got %d", f.points.addCalls)
	}

	f.engine.End("user-1", CauseManual, "")
}
