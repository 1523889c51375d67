package audit

import (
	"log/slog"

	internalaudit "github.com/vodinokreas/dutybot/internal/audit"
	"github.com/vodinokreas/dutybot/internal/discord"
)

// ChannelRecorder posts audit events as embeds to a fixed log channel and
// mirrors every event to the structured log.
type ChannelRecorder struct {
	client    discord.Client
	channelID string
}

func NewChannelRecorder(client discord.Client, channelID string) internalaudit.Recorder {
	return &ChannelRecorder{
		client:    client,
		channelID: channelID,
	}
}

func (r *ChannelRecorder) Record(event internalaudit.Event) {
	attrs := make([]any, 0, 2*len(event.Fields))
	for _, f := range event.Fields {
		attrs = append(attrs, f.Name, f.Value)
	}
	slog.Info(event.Title, attrs...)

	fields := make([]discord.EmbedField, 0, len(event.Fields))
	for _, f := range event.Fields {
		fields = append(fields, discord.EmbedField{Name: f.Name, Value: f.Value})
	}
	err := r.client.SendChannelEmbed(r.channelID, discord.Embed{
		Title:       event.Title,
		Description: event.Detail,
		Color:       event.Color,
		Fields:      fields,
	})
	if err != nil {
		slog.Error("failed to send audit embed", "error", err, "channel_id", r.channelID, "title", event.Title)
	}
}
