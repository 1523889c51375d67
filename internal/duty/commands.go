package duty

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/vodinokreas/dutybot/internal/discord"
)

const (
	commandDutyStart   = "dutystart"
	commandEndDuty     = "endduty"
	commandForceEnd    = "forceend"
	commandAddMod      = "addmod"
	commandRemoveMod   = "removemod"
	commandViewMods    = "viewmods"
	commandViewDuties  = "viewduties"
	commandTotal       = "total"
	commandAddPoints   = "addpoints"
	commandResetPoints = "resetpoints"
	commandLeaderboard = "leaderboard"

	optionUserID = "user_id"
	optionPoints = "points"

	componentPrefix   = "duty"
	componentContinue = "continue"
	componentEnd      = "end"

	leaderboardSize = 10
)

func SlashCommandDefinitions() []discord.SlashCommandDefinition {
	userIDOption := discord.SlashCommandOption{
		Name:        optionUserID,
		Description: "Target user ID",
		Required:    true,
	}
	return []discord.SlashCommandDefinition{
		{Name: commandDutyStart, Description: "Start your duty shift and begin receiving reminders"},
		{Name: commandEndDuty, Description: "End your current duty shift"},
		{Name: commandForceEnd, Description: "Force end a user's duty (Admin only)", Options: []discord.SlashCommandOption{userIDOption}},
		{Name: commandAddMod, Description: "Add a moderator who can use duty commands (Admin only)", Options: []discord.SlashCommandOption{userIDOption}},
		{Name: commandRemoveMod, Description: "Remove a moderator's duty command access (Admin only)", Options: []discord.SlashCommandOption{userIDOption}},
		{Name: commandViewMods, Description: "View all authorized moderator IDs (Admin only)"},
		{Name: commandViewDuties, Description: "View all current active duties (Admin only)"},
		{Name: commandTotal, Description: "View a user's total points (Admin only)", Options: []discord.SlashCommandOption{userIDOption}},
		{Name: commandAddPoints, Description: "Add points to a user (Admin only)", Options: []discord.SlashCommandOption{
			userIDOption,
			{Name: optionPoints, Description: "Points to add", Required: true, Integer: true},
		}},
		{Name: commandResetPoints, Description: "Reset all points (Admin only)"},
		{Name: commandLeaderboard, Description: "View the points leaderboard (Admin only)"},
	}
}

func continueCustomID(userID string) string {
	return strings.Join([]string{componentPrefix, componentContinue, userID}, ":")
}

func endCustomID(userID string) string {
	return strings.Join([]string{componentPrefix, componentEnd, userID}, ":")
}

// HandleSlashCommand routes a guild slash command onto the engine. Admin
// gating happens here from the member's role list; the engine trusts the
// identities it is handed.
func (e *Engine) HandleSlashCommand(ev discord.SlashCommandEvent) {
	if ev.GuildID != e.cfg.DiscordGuildID {
		return
	}
	respond := func(content string) {
		if ev.RespondEphemeral == nil {
			return
		}
		if err := ev.RespondEphemeral(content); err != nil {
			slog.Error("failed to respond to slash command", "error", err, "command", ev.CommandName, "user_id", ev.UserID)
		}
	}

	switch ev.CommandName {
	case commandDutyStart:
		respond(e.handleDutyStart(ev))
	case commandEndDuty:
		respond(e.handleEndDuty(ev))
	case commandForceEnd:
		respond(e.requireAdmin(ev, e.handleForceEnd))
	case commandAddMod:
		respond(e.requireAdmin(ev, e.handleAddMod))
	case commandRemoveMod:
		respond(e.requireAdmin(ev, e.handleRemoveMod))
	case commandViewMods:
		respond(e.requireAdmin(ev, e.handleViewMods))
	case commandViewDuties:
		respond(e.requireAdmin(ev, e.handleViewDuties))
	case commandTotal:
		respond(e.requireAdmin(ev, e.handleTotal))
	case commandAddPoints:
		respond(e.requireAdmin(ev, e.handleAddPoints))
	case commandResetPoints:
		respond(e.requireAdmin(ev, e.handleResetPoints))
	case commandLeaderboard:
		respond(e.requireAdmin(ev, e.handleLeaderboard))
	default:
		respond(messageUnknownCommand)
	}
}

// HandleComponent routes reminder-prompt button presses. The custom ID
// carries the session owner's user ID; a press from anyone else is a stale
// or misdirected response and is rejected.
func (e *Engine) HandleComponent(ev discord.ComponentEvent) {
	parts := strings.Split(ev.CustomID, ":")
	if len(parts) != 3 || parts[0] != componentPrefix {
		return
	}
	action, ownerID := parts[1], parts[2]

	respond := func(content string) {
		if ev.RespondEphemeral == nil {
			return
		}
		if err := ev.RespondEphemeral(content); err != nil {
			slog.Error("failed to respond to component interaction", "error", err, "custom_id", ev.CustomID, "user_id", ev.UserID)
		}
	}

	switch action {
	case componentContinue:
		switch err := e.Continue(ownerID, ev.UserID); {
		case err == nil:
			respond(messageDutyContinued)
		case errors.Is(err, ErrNotSessionOwner):
			respond(messageCannotRespond)
		case errors.Is(err, ErrNotOnDuty):
			respond(messageNotOnDuty)
		default:
			slog.Error("continue failed", "error", err, "user_id", ev.UserID)
			respond(messageCommandFailed)
		}
	case componentEnd:
		if ev.UserID != ownerID {
			respond(messageCannotEnd)
			return
		}
		if e.End(ownerID, CauseManual, "") {
			respond(messageDutyEnded)
		} else {
			respond(messageNotOnDuty)
		}
	}
}

func (e *Engine) isAdmin(ev discord.SlashCommandEvent) bool {
	return slices.Contains(ev.MemberRoleIDs, e.cfg.DiscordAdminRoleID)
}

func (e *Engine) requireAdmin(ev discord.SlashCommandEvent, handler func(discord.SlashCommandEvent) string) string {
	if !e.isAdmin(ev) {
		return messageNotAuthorizedCommand
	}
	return handler(ev)
}

func (e *Engine) handleDutyStart(ev discord.SlashCommandEvent) string {
	switch err := e.Start(ev.UserID, ev.UserDisplayName); {
	case err == nil:
		return messageDutyStarted
	case errors.Is(err, ErrNotAuthorized):
		return messageNotAuthorizedDuty
	case errors.Is(err, ErrAlreadyOnDuty):
		return messageAlreadyOnDuty
	default:
		slog.Error("duty start failed", "error", err, "user_id", ev.UserID)
		return messageCommandFailed
	}
}

func (e *Engine) handleEndDuty(ev discord.SlashCommandEvent) string {
	if e.End(ev.UserID, CauseManual, "") {
		return messageDutyEnded
	}
	return messageNotOnDuty
}

func (e *Engine) handleForceEnd(ev discord.SlashCommandEvent) string {
	targetID, ok := snowflakeOption(ev, optionUserID)
	if !ok {
		return messageInvalidUserID
	}
	switch err := e.ForceEnd(targetID, ev.UserDisplayName); {
	case err == nil:
		return fmt.Sprintf("Force ended duty for <@%s>.", targetID)
	case errors.Is(err, ErrNotOnDuty):
		return messageTargetNotOnDuty
	default:
		slog.Error("force end failed", "error", err, "target_id", targetID)
		return messageCommandFailed
	}
}

func (e *Engine) handleAddMod(ev discord.SlashCommandEvent) string {
	targetID, ok := snowflakeOption(ev, optionUserID)
	if !ok {
		return messageInvalidUserID
	}
	added, err := e.AddModerator(targetID)
	if err != nil {
		slog.Error("failed to add moderator", "error", err, "target_id", targetID)
		return messageCommandFailed
	}
	if !added {
		return fmt.Sprintf("User ID %s is already authorized.", targetID)
	}
	return fmt.Sprintf("User ID %s added as authorized mod.", targetID)
}

func (e *Engine) handleRemoveMod(ev discord.SlashCommandEvent) string {
	targetID, ok := snowflakeOption(ev, optionUserID)
	if !ok {
		return messageInvalidUserID
	}
	removed, err := e.RemoveModerator(targetID)
	if err != nil {
		slog.Error("failed to remove moderator", "error", err, "target_id", targetID)
		return messageCommandFailed
	}
	if !removed {
		return fmt.Sprintf("User ID %s is not in the list.", targetID)
	}
	return fmt.Sprintf("User ID %s removed from authorized mods.", targetID)
}

func (e *Engine) handleViewMods(ev discord.SlashCommandEvent) string {
	mods := e.Moderators()
	if len(mods) == 0 {
		return messageNoModerators
	}
	lines := make([]string, 0, len(mods)+1)
	lines = append(lines, "Authorized moderators:")
	for _, id := range mods {
		lines = append(lines, fmt.Sprintf("- %s (ID: %s)", e.messenger.ResolveDisplayName(id), id))
	}
	return strings.Join(lines, "\n")
}

func (e *Engine) handleViewDuties(ev discord.SlashCommandEvent) string {
	sessions := e.ActiveSessions()
	if len(sessions) == 0 {
		return messageNoActiveDuties
	}
	lines := make([]string, 0, len(sessions)+1)
	lines = append(lines, "Active duties:")
	for _, s := range sessions {
		lines = append(lines, fmt.Sprintf("- %s (ID: %s) — started %s", s.UserName, s.UserID, s.StartedAt.UTC().Format("2006-01-02 15:04:05")))
	}
	return strings.Join(lines, "\n")
}

func (e *Engine) handleTotal(ev discord.SlashCommandEvent) string {
	targetID, ok := snowflakeOption(ev, optionUserID)
	if !ok {
		return messageInvalidUserID
	}
	return fmt.Sprintf("<@%s> has **%d** points.", targetID, e.Points(targetID))
}

func (e *Engine) handleAddPoints(ev discord.SlashCommandEvent) string {
	targetID, ok := snowflakeOption(ev, optionUserID)
	if !ok {
		return messageInvalidUserID
	}
	amount := int(ev.IntOptions[optionPoints])
	newTotal, err := e.AddPoints(ev.UserID, ev.UserDisplayName, targetID, amount)
	if err != nil {
		if errors.Is(err, ErrInvalidArgument) {
			return messageInvalidPoints
		}
		slog.Error("failed to add points", "error", err, "target_id", targetID, "amount", amount)
		return messageCommandFailed
	}
	return fmt.Sprintf("Added **%d** points to <@%s>. New total: **%d** points.", amount, targetID, newTotal)
}

func (e *Engine) handleResetPoints(ev discord.SlashCommandEvent) string {
	if _, err := e.ResetPoints(); err != nil {
		slog.Error("failed to reset points", "error", err)
		return messageCommandFailed
	}
	return messagePointsReset
}

func (e *Engine) handleLeaderboard(ev discord.SlashCommandEvent) string {
	entries := e.Leaderboard(leaderboardSize)
	if len(entries) == 0 {
		return messageNoPointsData
	}
	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, "Points leaderboard:")
	for i, entry := range entries {
		lines = append(lines, fmt.Sprintf("%d. %s — %d points", i+1, e.messenger.ResolveDisplayName(entry.UserID), entry.Points))
	}
	return strings.Join(lines, "\n")
}

func snowflakeOption(ev discord.SlashCommandEvent, name string) (string, bool) {
	raw := strings.TrimSpace(ev.StringOptions[name])
	if raw == "" {
		return "", false
	}
	if _, err := strconv.ParseUint(raw, 10, 64); err != nil {
		return "", false
	}
	return raw, true
}
