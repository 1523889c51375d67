package duty

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/vodinokreas/dutybot/internal/discord"
)

// reminderLoop is the per-session check-in scheduler: sleep a random
// interval, then either auto-end on max duration, or prompt the user and
// wait for a continue within the response deadline. Any path that ends the
// session cancels ctx, so a wake after teardown is a silent no-op.
func (e *Engine) reminderLoop(ctx context.Context, userID string) {
	timer := time.NewTimer(e.drawReminderInterval())
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("reminder timer cancelled", "user_id", userID)
			return
		case <-timer.C:
		}

		e.mu.Lock()
		ad, ok := e.sessions[userID]
		if !ok {
			e.mu.Unlock()
			return
		}
		sess := *ad.session
		elapsed := time.Now().UTC().Sub(sess.StartedAt)
		if elapsed >= e.cfg.MaxDutyDuration {
			e.mu.Unlock()
			slog.Info("duty exceeded maximum duration", "user_id", userID, "elapsed", elapsed)
			e.End(userID, CauseMaxDuration, reasonMaxDuration)
			return
		}
		respCh := make(chan struct{}, 1)
		ad.prompt = respCh
		e.mu.Unlock()

		if err := e.messenger.SendDirectPrompt(userID, reminderPrompt(sess, elapsed)); err != nil {
			e.clearPrompt(userID, respCh)
			if errors.Is(err, discord.ErrUnreachable) {
				slog.Warn("reminder undeliverable, ending duty", "user_id", userID)
				e.End(userID, CauseNoDMChannel, reasonNoDMChannel)
				return
			}
			// The session stays open; the loop stops waking it. Cleanup
			// falls to the next explicit end or a superseding start.
			slog.Error("failed to send duty reminder", "error", err, "user_id", userID)
			return
		}
		slog.Info("reminder sent", "user_id", userID, "duration", elapsed, "continues", sess.Continues)
		e.audit.Record(auditReminderSent(sess, elapsed))

		deadline := time.NewTimer(e.cfg.PromptTimeout)
		select {
		case <-ctx.Done():
			deadline.Stop()
			return
		case <-respCh:
			deadline.Stop()
		case <-deadline.C:
			// A continue that raced the deadline still counts.
			select {
			case <-respCh:
			default:
				e.clearPrompt(userID, respCh)
				slog.Info("no response to reminder", "user_id", userID, "timeout", e.cfg.PromptTimeout)
				e.End(userID, CauseTimeout, reasonPromptTimeout)
				return
			}
		}
		timer.Reset(e.drawReminderInterval())
	}
}

// clearPrompt detaches a pending prompt only if it is still the one this
// loop installed; a newer prompt belonging to a superseding session is
// left alone.
func (e *Engine) clearPrompt(userID string, ch chan struct{}) {
	e.mu.Lock()
	if ad, ok := e.sessions[userID]; ok && ad.prompt == ch {
		ad.prompt = nil
	}
	e.mu.Unlock()
}

func (e *Engine) drawReminderInterval() time.Duration {
	span := e.cfg.ReminderMaxInterval - e.cfg.ReminderMinInterval
	if span <= 0 {
		return e.cfg.ReminderMinInterval
	}
	return e.cfg.ReminderMinInterval + time.Duration(rand.Int63n(int64(span+1)))
}
