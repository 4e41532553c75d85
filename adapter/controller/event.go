package controller

import (
	"net/http"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/log"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/service"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/vo"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/kweaver-ai/kweaver-go-lib/rest"
)

type EventController interface {
	Get(c *gin.Context)
	Acknowledge(c *gin.Context)
}

type eventController struct {
	eventService      service.EventService
	authVerifyService service.AuthVerifyService
	validate          *validator.Validate
}

// Get 查询事件
func (ec *eventController) Get(c *gin.Context) {
	ctx := rest.GetLanguageCtx(c)
	// token鉴权
	principal, errAuth := ec.authVerifyService.ResolvePrincipal(ctx, c)
	if errAuth != nil {
		rest.ReplyError(c, HandServiceError(ctx, errAuth))
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		httpErr := NewRestHTTPError(ctx, InvalidParameter).WithErrorDetails(common.ErrorDetailBind + err.Error())
		rest.ReplyError(c, httpErr)
		return
	}
	req, err := vo.DecodeEventGetReq(body)
	if err != nil {
		httpErr := NewRestHTTPError(ctx, InvalidParameter).WithErrorDetails(common.ErrorDetailDecode + err.Error())
		rest.ReplyError(c, httpErr)
		return
	}
	log.Debugf("request get events from host:%s, user:%d", c.Request.Host, principal.UserID)

	result, svcErr := ec.eventService.Get(ctx, principal, req)
	if svcErr != nil {
		log.Errorf("get events failed err:%s", svcErr.Error())
		rest.ReplyError(c, HandServiceError(ctx, svcErr))
		return
	}
	rest.ReplyOK(c, http.StatusOK, result.Body())
}

// Acknowledge 确认事件，action 为 1 时同时提交关闭问题任务
func (ec *eventController) Acknowledge(c *gin.Context) {
	ctx := rest.GetLanguageCtx(c)
	// token鉴权
	principal, errAuth := ec.authVerifyService.ResolvePrincipal(ctx, c)
	if errAuth != nil {
		rest.ReplyError(c, HandServiceError(ctx, errAuth))
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		httpErr := NewRestHTTPError(ctx, InvalidParameter).WithErrorDetails(common.ErrorDetailBind + err.Error())
		rest.ReplyError(c, httpErr)
		return
	}
	req, err := vo.DecodeAcknowledgeReq(body)
	if err != nil {
		httpErr := NewRestHTTPError(ctx, InvalidParameter).WithErrorDetails(common.ErrorDetailDecode + err.Error())
		rest.ReplyError(c, httpErr)
		return
	}
	log.Debugf("request acknowledge events from host:%s, user:%d, req:%+v", c.Request.Host, principal.UserID, req)
	// 参数检验
	if err := ec.validate.Struct(&req); err != nil {
		log.Errorf("acknowledge request validate err:%s", err.Error())
		rest.ReplyError(c, HandleValidateError(ctx, err))
		return
	}

	resp, svcErr := ec.eventService.Acknowledge(ctx, principal, req)
	if svcErr != nil {
		log.Errorf("acknowledge events failed err:%s", svcErr.Error())
		rest.ReplyError(c, HandServiceError(ctx, svcErr))
		return
	}
	rest.ReplyOK(c, http.StatusOK, resp)
}
