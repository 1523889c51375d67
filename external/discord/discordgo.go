package discord

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bwmarrin/discordgo"
	discordpkg "github.com/vodinokreas/dutybot/internal/discord"
)

type Client struct {
	session *discordgo.Session
	token   string
}

func NewClient(token string) discordpkg.Client {
	return &Client{
		token: token,
	}
}

func (c *Client) Connect(ctx context.Context) error {
	_ = ctx
	s, err := discordgo.New("Bot " + c.token)
	if err != nil {
		return err
	}
	c.session = s
	s.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsGuilds | discordgo.IntentsGuildMessages)
	return s.Open()
}

func (c *Client) Close() error {
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

func (c *Client) Run() error {
	select {}
}

func (c *Client) UpsertGuildSlashCommands(guildID string, defs []discordpkg.SlashCommandDefinition) error {
	appID := c.applicationID()
	if appID == "" {
		return errors.New("discord application id is not available")
	}
	existing, err := c.session.ApplicationCommands(appID, guildID)
	if err != nil {
		return err
	}
	existingByName := make(map[string]*discordgo.ApplicationCommand, len(existing))
	for _, cmd := range existing {
		if cmd == nil || cmd.Name == "" {
			continue
		}
		existingByName[cmd.Name] = cmd
	}
	for _, def := range defs {
		if err := c.upsertGuildSlashCommand(appID, guildID, def, existingByName); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) upsertGuildSlashCommand(appID, guildID string, def discordpkg.SlashCommandDefinition, existingByName map[string]*discordgo.ApplicationCommand) error {
	if def.Name == "" {
		return nil
	}
	payload := &discordgo.ApplicationCommand{
		Name:        def.Name,
		Description: def.Description,
		Options:     commandOptions(def.Options),
	}
	cmd, ok := existingByName[def.Name]
	if !ok {
		_, err := c.session.ApplicationCommandCreate(appID, guildID, payload)
		return err
	}
	if cmd.Description == def.Description && sameCommandOptions(cmd.Options, payload.Options) {
		return nil
	}
	_, err := c.session.ApplicationCommandEdit(appID, guildID, cmd.ID, payload)
	return err
}

// sameCommandOptions compares option shapes field by field; a changed
// type, name, description, or required flag forces an edit even when the
// option count is unchanged.
func sameCommandOptions(existing, desired []*discordgo.ApplicationCommandOption) bool {
	if len(existing) != len(desired) {
		return false
	}
	for i := range desired {
		a, b := existing[i], desired[i]
		if a == nil || b == nil {
			return a == b
		}
		if a.Type != b.Type || a.Name != b.Name || a.Description != b.Description || a.Required != b.Required {
			return false
		}
	}
	return true
}

func commandOptions(opts []discordpkg.SlashCommandOption) []*discordgo.ApplicationCommandOption {
	out := make([]*discordgo.ApplicationCommandOption, 0, len(opts))
	for _, opt := range opts {
		optType := discordgo.ApplicationCommandOptionString
		if opt.Integer {
			optType = discordgo.ApplicationCommandOptionInteger
		}
		out = append(out, &discordgo.ApplicationCommandOption{
			Type:        optType,
			Name:        opt.Name,
			Description: opt.Description,
			Required:    opt.Required,
		})
	}
	return out
}

func (c *Client) RegisterSlashCommandHandler(handler func(discordpkg.SlashCommandEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic == nil || ic.Type != discordgo.InteractionApplicationCommand {
			return
		}
		data := ic.ApplicationCommandData()
		if data.Name == "" {
			return
		}
		userID, displayName := interactionUser(ic)
		if userID == "" {
			return
		}
		stringOpts := make(map[string]string)
		intOpts := make(map[string]int64)
		for _, opt := range data.Options {
			if opt == nil {
				continue
			}
			switch opt.Type {
			case discordgo.ApplicationCommandOptionString:
				stringOpts[opt.Name] = opt.StringValue()
			case discordgo.ApplicationCommandOptionInteger:
				intOpts[opt.Name] = opt.IntValue()
			}
		}
		slog.Info("slash command interaction received", "guild_id", ic.GuildID, "command", data.Name, "user_id", userID)
		handler(discordpkg.SlashCommandEvent{
			GuildID:          ic.GuildID,
			ChannelID:        ic.ChannelID,
			CommandName:      data.Name,
			UserID:           userID,
			UserDisplayName:  displayName,
			MemberRoleIDs:    memberRoleIDs(ic),
			StringOptions:    stringOpts,
			IntOptions:       intOpts,
			RespondEphemeral: c.ephemeralResponder(s, ic),
		})
	})
}

func (c *Client) RegisterComponentHandler(handler func(discordpkg.ComponentEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic == nil || ic.Type != discordgo.InteractionMessageComponent {
			return
		}
		data := ic.MessageComponentData()
		if data.CustomID == "" {
			return
		}
		userID, displayName := interactionUser(ic)
		if userID == "" {
			return
		}
		slog.Info("component interaction received", "custom_id", data.CustomID, "user_id", userID)
		handler(discordpkg.ComponentEvent{
			CustomID:         data.CustomID,
			UserID:           userID,
			UserDisplayName:  displayName,
			RespondEphemeral: c.ephemeralResponder(s, ic),
		})
	})
}

func (c *Client) ephemeralResponder(s *discordgo.Session, ic *discordgo.InteractionCreate) func(string) error {
	return func(content string) error {
		return s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: content,
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
	}
}

func interactionUser(ic *discordgo.InteractionCreate) (userID, displayName string) {
	if ic.Member != nil && ic.Member.User != nil {
		u := ic.Member.User
		name := ic.Member.Nick
		if name == "" {
			name = preferredDiscordName(u.GlobalName, u.Username, u.ID)
		}
		return u.ID, name
	}
	if ic.User != nil {
		return ic.User.ID, preferredDiscordName(ic.User.GlobalName, ic.User.Username, ic.User.ID)
	}
	return "", ""
}

func memberRoleIDs(ic *discordgo.InteractionCreate) []string {
	if ic.Member == nil {
		return nil
	}
	return ic.Member.Roles
}

func (c *Client) SendDirectEmbed(userID string, embed discordpkg.Embed) error {
	channel, err := c.session.UserChannelCreate(userID)
	if err != nil {
		return classifyDeliveryError(err)
	}
	_, err = c.session.ChannelMessageSendEmbed(channel.ID, buildEmbed(embed))
	if err != nil {
		return classifyDeliveryError(err)
	}
	return nil
}

func (c *Client) SendDirectPrompt(userID string, prompt discordpkg.Prompt) error {
	channel, err := c.session.UserChannelCreate(userID)
	if err != nil {
		return classifyDeliveryError(err)
	}
	_, err = c.session.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{buildEmbed(prompt.Embed)},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    prompt.ContinueLabel,
						Style:    discordgo.PrimaryButton,
						CustomID: prompt.ContinueCustomID,
					},
					discordgo.Button{
						Label:    prompt.EndLabel,
						Style:    discordgo.DangerButton,
						CustomID: prompt.EndCustomID,
					},
				},
			},
		},
	})
	if err != nil {
		return classifyDeliveryError(err)
	}
	return nil
}

func (c *Client) SendChannelEmbed(channelID string, embed discordpkg.Embed) error {
	_, err := c.session.ChannelMessageSendEmbed(channelID, buildEmbed(embed))
	return err
}

func (c *Client) ResolveDisplayName(userID string) string {
	if c.session == nil {
		return userID
	}
	u, err := c.session.User(userID)
	if err != nil || u == nil {
		return userID
	}
	return preferredDiscordName(u.GlobalName, u.Username, userID)
}

func buildEmbed(embed discordpkg.Embed) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, len(embed.Fields))
	for _, f := range embed.Fields {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  f.Name,
			Value: f.Value,
		})
	}
	return &discordgo.MessageEmbed{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embed.Color,
		Fields:      fields,
	}
}

// DMs to users who disabled them fail with 403; a closed DM channel lookup
// can also fail with 404. Both mean the same thing to the core.
func classifyDeliveryError(err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusForbidden, http.StatusNotFound:
			return discordpkg.ErrUnreachable
		}
	}
	return err
}

func preferredDiscordName(globalName, username, fallback string) string {
	if globalName != "" {
		return globalName
	}
	if username != "" {
		return username
	}
	return fallback
}

func (c *Client) applicationID() string {
	if c.session == nil || c.session.State == nil {
		return ""
	}
	if c.session.State.Application != nil && c.session.State.Application.ID != "" {
		return c.session.State.Application.ID
	}
	if c.session.State.User != nil {
		return c.session.State.User.ID
	}
	return ""
}
