package duty

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vodinokreas/dutybot/internal/audit"
	"github.com/vodinokreas/dutybot/internal/config"
	"github.com/vodinokreas/dutybot/internal/discord"
	"github.com/vodinokreas/dutybot/internal/store"
)

// Engine owns the duty-session registry and runs every lifecycle
// transition. All registry and timer mutation happens under one mutex, so
// no operation observes a half-updated session.
type Engine struct {
	cfg        *config.Config
	moderators store.ModeratorStore
	points     store.PointsStore
	messenger  discord.Client
	audit      audit.Recorder

	mu       sync.Mutex
	sessions map[string]*activeDuty
	timers   map[string]context.CancelFunc
}

func NewEngine(cfg *config.Config, moderators store.ModeratorStore, points store.PointsStore, messenger discord.Client, recorder audit.Recorder) *Engine {
	return &Engine{
		cfg:        cfg,
		moderators: moderators,
		points:     points,
		messenger:  messenger,
		audit:      recorder,
		sessions:   make(map[string]*activeDuty),
		timers:     make(map[string]context.CancelFunc),
	}
}

// Start opens a new duty session for an allow-listed user and binds a
// fresh reminder timer to it. A stale timer left behind by an earlier
// session for the same user is cancelled before the new one is created.
func (e *Engine) Start(userID, userName string) error {
	if !e.moderators.Contains(userID) {
		return ErrNotAuthorized
	}

	e.mu.Lock()
	if _, exists := e.sessions[userID]; exists {
		e.mu.Unlock()
		return ErrAlreadyOnDuty
	}
	if cancel, ok := e.timers[userID]; ok {
		cancel()
		delete(e.timers, userID)
		slog.Info("cancelled stale reminder timer", "user_id", userID, "reason", "starting new duty")
	}
	now := time.Now().UTC()
	sess := &DutySession{
		ID:             uuid.NewString(),
		UserID:         userID,
		UserName:       userName,
		StartedAt:      now,
		LastContinueAt: now,
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.sessions[userID] = &activeDuty{session: sess}
	e.timers[userID] = cancel
	snapshot := *sess
	e.mu.Unlock()

	go e.reminderLoop(ctx, userID)
	slog.Info("duty started", "user_id", userID, "session_id", snapshot.ID)
	e.audit.Record(auditStarted(snapshot))
	return nil
}

// Continue affirms an active session in response to a reminder prompt.
// Signalling the pending prompt prevents the paired deadline from firing a
// duplicate auto-end. The session is snapshotted under the lock so audit
// and log output never read fields mid-mutation.
func (e *Engine) Continue(ownerID, responderID string) error {
	if responderID != ownerID {
		return ErrNotSessionOwner
	}

	e.mu.Lock()
	ad, ok := e.sessions[ownerID]
	if !ok {
		e.mu.Unlock()
		return ErrNotOnDuty
	}
	now := time.Now().UTC()
	ad.session.LastContinueAt = now
	ad.session.Continues++
	snapshot := *ad.session
	duration := now.Sub(snapshot.StartedAt)
	if ad.prompt != nil {
		select {
		case ad.prompt <- struct{}{}:
		default:
		}
		ad.prompt = nil
	}
	e.mu.Unlock()

	slog.Info("duty continued", "user_id", ownerID, "continues", snapshot.Continues, "duration", duration)
	e.audit.Record(auditContinued(snapshot, duration))
	return nil
}

// End closes a session from any cause. It is idempotent: ending an absent
// session reports false and touches nothing. Once the duration is
// computed, the point award and the audit record are unconditional; a
// failed DM notice or ledger write is logged and absorbed.
func (e *Engine) End(userID string, cause EndCause, reason string) bool {
	e.mu.Lock()
	ad, ok := e.sessions[userID]
	if !ok {
		e.mu.Unlock()
		return false
	}
	delete(e.sessions, userID)
	if cancel, ok := e.timers[userID]; ok {
		cancel()
		delete(e.timers, userID)
	}
	ad.prompt = nil
	sess := *ad.session
	e.mu.Unlock()

	duration := time.Now().UTC().Sub(sess.StartedAt)
	awarded := AwardedPoints(duration)
	newTotal, err := e.points.Add(sess.UserID, awarded)
	if err != nil {
		slog.Error("failed to persist points award", "error", err, "user_id", sess.UserID, "points", awarded)
	}

	slog.Info("duty ended", "user_id", sess.UserID, "session_id", sess.ID, "cause", string(cause),
		"duration", duration, "points_earned", awarded, "total_points", newTotal, "continues", sess.Continues)
	e.audit.Record(auditEnded(sess, cause, reason, duration, awarded, newTotal))

	if err := e.messenger.SendDirectEmbed(sess.UserID, endNotice(cause, reason, duration)); err != nil {
		if errors.Is(err, discord.ErrUnreachable) {
			slog.Warn("duty end notice undeliverable", "user_id", sess.UserID)
		} else {
			slog.Error("failed to send duty end notice", "error", err, "user_id", sess.UserID)
		}
	}
	return true
}

// ForceEnd closes another user's session on an administrator's behalf.
func (e *Engine) ForceEnd(targetID, invokerName string) error {
	if !e.End(targetID, CauseForceAdmin, "Force ended by "+invokerName) {
		return ErrNotOnDuty
	}
	return nil
}

// ActiveSessions returns a snapshot ordered by start time.
func (e *Engine) ActiveSessions() []DutySession {
	e.mu.Lock()
	out := make([]DutySession, 0, len(e.sessions))
	for _, ad := range e.sessions {
		out = append(out, *ad.session)
	}
	e.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

func (e *Engine) AddModerator(userID string) (bool, error) {
	added, err := e.moderators.Add(userID)
	if err != nil {
		return added, err
	}
	if added {
		slog.Info("moderator added", "user_id", userID)
	}
	return added, nil
}

func (e *Engine) RemoveModerator(userID string) (bool, error) {
	removed, err := e.moderators.Remove(userID)
	if err != nil {
		return removed, err
	}
	if removed {
		slog.Info("moderator removed", "user_id", userID)
	}
	return removed, nil
}

func (e *Engine) Moderators() []string {
	return e.moderators.List()
}

func (e *Engine) Points(userID string) int {
	return e.points.Get(userID)
}

// AddPoints applies a manual adjustment. Amounts must be positive; the
// ledger is untouched on rejection.
func (e *Engine) AddPoints(adminID, adminName, targetID string, amount int) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidArgument
	}
	newTotal, err := e.points.Add(targetID, amount)
	if err != nil {
		return newTotal, err
	}
	slog.Info("points manually added", "admin_id", adminID, "target_id", targetID, "amount", amount, "new_total", newTotal)
	e.audit.Record(auditPointsAdded(adminName, adminID, targetID, amount, newTotal))
	return newTotal, nil
}

func (e *Engine) ResetPoints() (int, error) {
	cleared, err := e.points.ResetAll()
	if err != nil {
		return cleared, err
	}
	slog.Info("all points reset", "previous_user_count", cleared)
	return cleared, nil
}

// Leaderboard returns up to topN ledger entries sorted by points
// descending. Ties keep ledger insertion order.
func (e *Engine) Leaderboard(topN int) []store.PointsEntry {
	entries := e.points.Entries()
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Points > entries[j].Points })
	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}
	return entries
}
