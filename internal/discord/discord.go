package discord

import (
	"context"
	"errors"
)

// ErrUnreachable reports that a direct message could not be delivered,
// typically because the user has DMs disabled or has blocked the bot.
var ErrUnreachable = errors.New("user is unreachable via direct message")

type EmbedField struct {
	Name  string
	Value string
}

type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
}

// Prompt is a direct message carrying a two-choice decision. The custom IDs
// identify the component interactions routed back through the component
// handler.
type Prompt struct {
	Embed            Embed
	ContinueLabel    string
	ContinueCustomID string
	EndLabel         string
	EndCustomID      string
}

type SlashCommandOption struct {
	Name        string
	Description string
	Required    bool
	Integer     bool
}

type SlashCommandDefinition struct {
	Name        string
	Description string
	Options     []SlashCommandOption
}

type SlashCommandEvent struct {
	GuildID          string
	ChannelID        string
	CommandName      string
	UserID           string
	UserDisplayName  string
	MemberRoleIDs    []string
	StringOptions    map[string]string
	IntOptions       map[string]int64
	RespondEphemeral func(content string) error
}

type ComponentEvent struct {
	CustomID         string
	UserID           string
	UserDisplayName  string
	RespondEphemeral func(content string) error
}

type Client interface {
	Connect(ctx context.Context) error
	Close() error
	Run() error
	UpsertGuildSlashCommands(guildID string, defs []SlashCommandDefinition) error
	RegisterSlashCommandHandler(handler func(SlashCommandEvent))
	RegisterComponentHandler(handler func(ComponentEvent))
	SendDirectEmbed(userID string, embed Embed) error
	SendDirectPrompt(userID string, prompt Prompt) error
	SendChannelEmbed(channelID string, embed Embed) error
	ResolveDisplayName(userID string) string
}
