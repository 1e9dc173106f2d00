package main

import (
	"context"

	"github.com/eric2788/hashset/internal/modules/config"
	"github.com/eric2788/hashset/internal/services/soak"
	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
)

func main() {

	app := fx.New(
		config.Module,

		fx.Provide(soak.NewService),
		fx.Invoke(run),
	)

	app.Run()
}

func run(lc fx.Lifecycle, svc *soak.Service, shutdowner fx.Shutdowner) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.StartHook(func() {
		go func() {
			if err := svc.Run(ctx); err != nil {
				logrus.Errorf("soak run failed: %v", err)
				_ = shutdowner.Shutdown(fx.ExitCode(1))
				return
			}
			_ = shutdowner.Shutdown()
		}()
	}))
	lc.Append(fx.StopHook(cancel))
}
