package keepalive

import (
	"github.com/samber/do/v2"
	"github.com/vodinokreas/dutybot/internal/config"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewServer(cfg.KeepAliveAddr), nil
	})
}
