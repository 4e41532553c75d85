//go:build wireinject
// +build wireinject

package main

import (
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/adapter/controller"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/adapter/repository"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/adapter/restapi/hydra"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/service"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/infrastructure/cache"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/infrastructure/kafka"
	"github.com/google/wire"
)

func initServer() (*core.RouterQuote, func(), error) {
	panic(wire.Build(core.NewCoreRestAPI, cache.ProviderSet, kafka.ProviderSet, repository.ProviderSet,
		hydra.ProviderSet, service.ProviderSet, controller.ProviderSet))
}
