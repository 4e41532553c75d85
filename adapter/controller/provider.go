package controller

import (
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/validate"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/service"
	"github.com/go-playground/validator/v10"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(NewValidator, NewEventController, NewHandlerRoute, NewRouterQuote)

func NewValidator() (*validator.Validate, error) {
	va := validator.New()
	if err := validate.Register(va); err != nil {
		return nil, err
	}
	return va, nil
}

// NewHandlerRoute 返回事件接口的路由
func NewHandlerRoute(eventController EventController) core.HttpRouter {
	return &HandlerRoute{
		ec: eventController,
	}
}

// NewRouterQuote 返回路由引用列表
func NewRouterQuote(handlerRoute core.HttpRouter) *core.RouterQuote {
	return &core.RouterQuote{Routes: []core.HttpRouter{
		handlerRoute,
	}}
}

// NewEventController 返回event控制器
func NewEventController(va *validator.Validate, eventService service.EventService,
	authVerifyService service.AuthVerifyService) EventController {
	return &eventController{
		eventService:      eventService,
		authVerifyService: authVerifyService,
		validate:          va,
	}
}
