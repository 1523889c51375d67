package store

import (
	"path/filepath"

	"github.com/samber/do/v2"
	"github.com/vodinokreas/dutybot/internal/config"
	internalstore "github.com/vodinokreas/dutybot/internal/store"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (internalstore.ModeratorStore, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewModeratorFileStore(filepath.Join(cfg.DataDir, ModeratorsFilename))
	})
	do.Provide(injector, func(i do.Injector) (internalstore.PointsStore, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewPointsFileStore(filepath.Join(cfg.DataDir, PointsFilename))
	})
}
