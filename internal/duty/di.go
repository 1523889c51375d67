package duty

import (
	"github.com/samber/do/v2"
	"github.com/vodinokreas/dutybot/internal/audit"
	"github.com/vodinokreas/dutybot/internal/config"
	"github.com/vodinokreas/dutybot/internal/discord"
	"github.com/vodinokreas/dutybot/internal/store"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Engine, error) {
		cfg := do.MustInvoke[*config.Config](i)
		moderators := do.MustInvoke[store.ModeratorStore](i)
		points := do.MustInvoke[store.PointsStore](i)
		dc := do.MustInvoke[discord.Client](i)
		recorder := do.MustInvoke[audit.Recorder](i)
		return NewEngine(cfg, moderators, points, dc, recorder), nil
	})
}
