package duty

import (
	"strings"
	"testing"

	"github.com/vodinokreas/dutybot/internal/discord"
)

func slashEvent(command, userID string, admin bool) (discord.SlashCommandEvent, *string) {
	var got string
	roles := []string{"role-other"}
	if admin {
		roles = append(roles, "role-admin")
	}
	ev := discord.SlashCommandEvent{
		GuildID:         "guild-1",
		CommandName:     command,
		UserID:          userID,
		UserDisplayName: "name-" + userID,
		MemberRoleIDs:   roles,
		StringOptions:   map[string]string{},
		IntOptions:      map[string]int64{},
		RespondEphemeral: func(content string) error {
			got = content
			return nil
		},
	}
	return ev, &got
}

func TestHandleSlashCommand_IgnoresOtherGuild(t *testing.T) {
	f := newTestFixture(slowConfig())
	ev, got := slashEvent(commandDutyStart, "user-1", false)
	ev.GuildID = "guild-2"

	f.engine.HandleSlashCommand(ev)

	if *got != "" {
		t.Fatalf("expected no response for foreign guild, got %q", *got)
	}
	if _, ok := f.session("user-1"); ok {
		t.Fatal("expected no session for foreign guild command")
	}
}

func TestHandleSlashCommand_DutyStartResponses(t *testing.T) {
	f := newTestFixture(slowConfig())

	ev, got := slashEvent(commandDutyStart, "user-2", false)
	f.engine.HandleSlashCommand(ev)
	if *got != messageNotAuthorizedDuty {
		t.Fatalf("unexpected response: %q", *got)
	}

	ev, got = slashEvent(commandDutyStart, "user-1", false)
	f.engine.HandleSlashCommand(ev)
	if *got != messageDutyStarted {
		t.Fatalf("unexpected response: %q", *got)
	}

	ev, got = slashEvent(commandDutyStart, "user-1", false)
	f.engine.HandleSlashCommand(ev)
	if *got != messageAlreadyOnDuty {
		t.Fatalf("unexpected response: %q", *got)
	}

	f.engine.End("user-1", CauseManual, "")
}

func TestHandleSlashCommand_AdminGate(t *testing.T) {
	f := newTestFixture(slowConfig())
	adminOnly := []string{
		commandForceEnd, commandAddMod, commandRemoveMod, commandViewMods,
		commandViewDuties, commandTotal, commandAddPoints, commandResetPoints, commandLeaderboard,
	}
	for _, command := range adminOnly {
		ev, got := slashEvent(command, "user-1", false)
		f.engine.HandleSlashCommand(ev)
		if *got != messageNotAuthorizedCommand {
			t.Fatalf("expected admin gate for %s, got %q", command, *got)
		}
	}
}

func TestHandleSlashCommand_AddPointsValidation(t *testing.T) {
	f := newTestFixture(slowConfig())

	ev, got := slashEvent(commandAddPoints, "admin-1", true)
	ev.StringOptions[optionUserID] = "not-a-snowflake"
	ev.IntOptions[optionPoints] = 5
	f.engine.HandleSlashCommand(ev)
	if *got != messageInvalidUserID {
		t.Fatalf("expected invalid user id rejection, got %q", *got)
	}

	ev, got = slashEvent(commandAddPoints, "admin-1", true)
	ev.StringOptions[optionUserID] = "123456789"
	ev.IntOptions[optionPoints] = 0
	f.engine.HandleSlashCommand(ev)
	if *got != messageInvalidPoints {
		t.Fatalf("expected non-positive points rejection, got %q", *got)
	}
	if f.points.addCalls != 0 {
		t.Fatalf("expected ledger untouched, got %d writes", f.points.addCalls)
	}

	ev, got = slashEvent(commandAddPoints, "admin-1", true)
	ev.StringOptions[optionUserID] = "123456789"
	ev.IntOptions[optionPoints] = 12
	f.engine.HandleSlashCommand(ev)
	if !strings.Contains(*got, "12") || !strings.Contains(*got, "123456789") {
		t.Fatalf("unexpected add points response: %q", *got)
	}
}

func TestHandleSlashCommand_ModeratorRoundTrip(t *testing.T) {
	f := newTestFixture(slowConfig())

	ev, got := slashEvent(commandAddMod, "admin-1", true)
	ev.StringOptions[optionUserID] = "555"
	f.engine.HandleSlashCommand(ev)
	if !strings.Contains(*got, "added as authorized mod") {
		t.Fatalf("unexpected addmod response: %q", *got)
	}

	f.engine.HandleSlashCommand(ev)
	if !strings.Contains(*got, "already authorized") {
		t.Fatalf("unexpected duplicate addmod response: %q", *got)
	}

	ev, got = slashEvent(commandViewMods, "admin-1", true)
	f.engine.HandleSlashCommand(ev)
	if !strings.Contains(*got, "555") {
		t.Fatalf("expected moderator list to include 555, got %q", *got)
	}

	ev, got = slashEvent(commandRemoveMod, "admin-1", true)
	ev.StringOptions[optionUserID] = "555"
	f.engine.HandleSlashCommand(ev)
	if !strings.Contains(*got, "removed from authorized mods") {
		t.Fatalf("unexpected removemod response: %q", *got)
	}

	f.engine.HandleSlashCommand(ev)
	if !strings.Contains(*got, "not in the list") {
		t.Fatalf("unexpected absent removemod response: %q", *got)
	}
}

func TestHandleSlashCommand_Leaderboard(t *testing.T) {
	f := newTestFixture(slowConfig())

	ev, got := slashEvent(commandLeaderboard, "admin-1", true)
	f.engine.HandleSlashCommand(ev)
	if *got != messageNoPointsData {
		t.Fatalf("expected empty-ledger response, got %q", *got)
	}

	if _, err := f.engine.AddPoints("admin-1", "Admin", "111", 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.engine.AddPoints("admin-1", "Admin", "222", 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.engine.HandleSlashCommand(ev)
	lines := strings.Split(*got, "\n")
	if len(lines) != 3 {
		t.Fatalf("unexpected leaderboard shape: %q", *got)
	}
	if !strings.HasPrefix(lines[1], "1. name-222") || !strings.HasPrefix(lines[2], "2. name-111") {
		t.Fatalf("unexpected leaderboard ordering: %q", *got)
	}
}

func TestHandleComponent_ContinueAndEnd(t *testing.T) {
	f := newTestFixture(slowConfig())
	if err := f.engine.Start("user-1", "Mod One"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got string
	respond := func(content string) error {
		got = content
		return nil
	}

	f.engine.HandleComponent(discord.ComponentEvent{
		CustomID:         continueCustomID("user-1"),
		UserID:           "user-2",
		RespondEphemeral: respond,
	})
	if got != messageCannotRespond {
		t.Fatalf("expected non-owner rejection, got %q", got)
	}

	f.engine.HandleComponent(discord.ComponentEvent{
		CustomID:         continueCustomID("user-1"),
		UserID:           "user-1",
		RespondEphemeral: respond,
	})
	if got != messageDutyContinued {
		t.Fatalf("expected continue confirmation, got %q", got)
	}

	f.engine.HandleComponent(discord.ComponentEvent{
		CustomID:         endCustomID("user-1"),
		UserID:           "user-2",
		RespondEphemeral: respond,
	})
	if got != messageCannotEnd {
		t.Fatalf("expected non-owner end rejection, got %q", got)
	}

	f.engine.HandleComponent(discord.ComponentEvent{
		CustomID:         endCustomID("user-1"),
		UserID:           "user-1",
		RespondEphemeral: respond,
	})
	if got != messageDutyEnded {
		t.Fatalf("expected end confirmation, got %q", got)
	}
	if _, ok := f.session("user-1"); ok {
		t.Fatal("expected session removed after end button")
	}

	f.engine.HandleComponent(discord.ComponentEvent{
		CustomID:         endCustomID("user-1"),
		UserID:           "user-1",
		RespondEphemeral: respond,
	})
	if got != messageNotOnDuty {
		t.Fatalf("expected stale end press to report not on duty, got %q", got)
	}
}

func TestHandleComponent_IgnoresForeignCustomIDs(t *testing.T) {
	f := newTestFixture(slowConfig())
	responded := false

	f.engine.HandleComponent(discord.ComponentEvent{
		CustomID: "poll:vote:user-1",
		UserID:   "user-1",
		RespondEphemeral: func(string) error {
			responded = true
			return nil
		},
	})
	if responded {
		t.Fatal("expected foreign component to be ignored")
	}
}
