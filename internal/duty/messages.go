package duty

import (
	"fmt"
	"time"

	"github.com/vodinokreas/dutybot/internal/audit"
	"github.com/vodinokreas/dutybot/internal/discord"
)

const (
	colorGreen  = 0x57F287
	colorRed    = 0xED4245
	colorOrange = 0xE67E22
	colorYellow = 0xFEE75C
	colorGold   = 0xF1C40F
)

const (
	messageNotAuthorizedCommand = "You are not authorized to use this command."
	messageNotAuthorizedDuty    = "You are not authorized to start duty."
	messageAlreadyOnDuty        = "You are already on duty."
	messageNotOnDuty            = "You are not on duty."
	messageDutyStarted          = "Duty started. You will receive periodic check-in reminders by DM."
	messageDutyEnded            = "Duty ended."
	messageDutyContinued        = "Duty continued."
	messageCannotRespond        = "You cannot respond to this duty."
	messageCannotEnd            = "You cannot end this duty."
	messageTargetNotOnDuty      = "User is not on duty."
	messageInvalidUserID        = "Invalid user ID."
	messageInvalidPoints        = "Points must be a positive number."
	messageNoModerators         = "No moderators added yet."
	messageNoActiveDuties       = "There are no active duties."
	messageNoPointsData         = "No points data available."
	messagePointsReset          = "All points have been reset."
	messageUnknownCommand       = "Unknown command."
	messageCommandFailed        = "An error occurred while handling the command."

	reasonPromptTimeout = "No response to reminder (2 minute timeout)"
	reasonMaxDuration   = "Maximum duty duration exceeded"
	reasonNoDMChannel   = "Unable to send reminder (DMs disabled)"

	promptContinueLabel = "Continue Duty"
	promptEndLabel      = "End Duty"
)

const timestampLayout = "Monday, 02 January 2006 15:04 PM"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

func userField(userName, userID string) string {
	return fmt.Sprintf("%s (%s)", userName, userID)
}

func auditStarted(sess DutySession) audit.Event {
	return audit.Event{
		Title: "Duty Started",
		Color: colorGreen,
		Fields: []audit.Field{
			{Name: "User", Value: userField(sess.UserName, sess.UserID)},
			{Name: "Start Time", Value: formatTimestamp(sess.StartedAt)},
		},
	}
}

func auditContinued(sess DutySession, duration time.Duration) audit.Event {
	return audit.Event{
		Title: "Duty Continued",
		Color: colorGreen,
		Fields: []audit.Field{
			{Name: "User", Value: userField(sess.UserName, sess.UserID)},
			{Name: "Continue Time", Value: formatTimestamp(sess.LastContinueAt)},
			{Name: "Continue Count", Value: fmt.Sprintf("%d", sess.Continues)},
			{Name: "Total Duration", Value: formatDuration(duration)},
		},
	}
}

func auditReminderSent(sess DutySession, duration time.Duration) audit.Event {
	return audit.Event{
		Title: "Duty Reminder Sent",
		Color: colorYellow,
		Fields: []audit.Field{
			{Name: "User", Value: userField(sess.UserName, sess.UserID)},
			{Name: "Duration", Value: formatDuration(duration)},
			{Name: "Continue Count", Value: fmt.Sprintf("%d", sess.Continues)},
			{Name: "Time", Value: formatTimestamp(time.Now().UTC())},
		},
	}
}

func auditEnded(sess DutySession, cause EndCause, reason string, duration time.Duration, awarded, newTotal int) audit.Event {
	title := "Duty Ended"
	color := colorRed
	if cause.Auto() {
		title = "Duty Auto-Ended"
		color = colorOrange
	}
	fields := []audit.Field{
		{Name: "User", Value: userField(sess.UserName, sess.UserID)},
		{Name: "End Time", Value: formatTimestamp(time.Now().UTC())},
		{Name: "Duration", Value: formatDuration(duration)},
		{Name: "Points Earned", Value: fmt.Sprintf("%d", awarded)},
		{Name: "Total Points", Value: fmt.Sprintf("%d", newTotal)},
		{Name: "Continues", Value: fmt.Sprintf("%d", sess.Continues)},
	}
	if cause.Auto() && reason != "" {
		fields = append(fields, audit.Field{Name: "Auto-End Reason", Value: reason})
	}
	return audit.Event{Title: title, Color: color, Fields: fields}
}

func auditPointsAdded(adminName, adminID, targetID string, added, newTotal int) audit.Event {
	return audit.Event{
		Title: "Points Manually Added",
		Color: colorGold,
		Fields: []audit.Field{
			{Name: "Admin", Value: userField(adminName, adminID)},
			{Name: "Target User", Value: fmt.Sprintf("<@%s> (%s)", targetID, targetID)},
			{Name: "Points Added", Value: fmt.Sprintf("%d", added)},
			{Name: "New Total", Value: fmt.Sprintf("%d", newTotal)},
			{Name: "Time", Value: formatTimestamp(time.Now().UTC())},
		},
	}
}

func reminderPrompt(sess DutySession, duration time.Duration) discord.Prompt {
	return discord.Prompt{
		Embed: discord.Embed{
			Title:       "Duty Reminder",
			Description: fmt.Sprintf("You have been on duty for %s. Please choose an option:", formatDuration(duration)),
			Color:       colorYellow,
			Fields: []discord.EmbedField{
				{Name: "Current Duration", Value: formatDuration(duration)},
				{Name: "Continue Count", Value: fmt.Sprintf("%d", sess.Continues)},
			},
		},
		ContinueLabel:    promptContinueLabel,
		ContinueCustomID: continueCustomID(sess.UserID),
		EndLabel:         promptEndLabel,
		EndCustomID:      endCustomID(sess.UserID),
	}
}

func endNotice(cause EndCause, reason string, duration time.Duration) discord.Embed {
	embed := discord.Embed{
		Title:       "Duty Ended",
		Description: "Thank you for your service!",
		Color:       colorRed,
		Fields: []discord.EmbedField{
			{Name: "Duration", Value: formatDuration(duration)},
		},
	}
	if cause.Auto() {
		embed.Title = "Duty Auto-Ended"
		embed.Description = "Your duty was automatically ended."
		embed.Color = colorOrange
		if reason != "" {
			embed.Fields = append(embed.Fields, discord.EmbedField{Name: "Reason", Value: reason})
		}
	}
	return embed
}
