package service

import (
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/adapter/restapi/hydra"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/dependency"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(NewPermissionFilter, NewEventService, NewAuthVerifyService)

func NewEventService(events dependency.EventRepo, acks dependency.AcknowledgeRepo, tasks dependency.TaskRepo,
	tx dependency.TxManager, notifier dependency.TaskNotifier, lookups *dependency.Lookups,
	permissions *PermissionFilter) EventService {
	return &eventService{
		events:      events,
		acks:        acks,
		tasks:       tasks,
		tx:          tx,
		notifier:    notifier,
		lookups:     lookups,
		permissions: permissions,
	}
}

func NewAuthVerifyService(h hydra.Hydra, users dependency.UserRepo) AuthVerifyService {
	return &authVerifyService{hydra: h, users: users}
}
