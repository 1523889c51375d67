package audit

import (
	"github.com/samber/do/v2"
	internalaudit "github.com/vodinokreas/dutybot/internal/audit"
	"github.com/vodinokreas/dutybot/internal/config"
	"github.com/vodinokreas/dutybot/internal/discord"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (internalaudit.Recorder, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := do.MustInvoke[discord.Client](i)
		return NewChannelRecorder(client, cfg.DutyAuditChannelID), nil
	})
}
