package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kweaver-ai/kweaver-go-lib/rest"
)

type HandlerRoute struct {
	ec EventController
}

func (r *HandlerRoute) SetRouter(app *gin.Engine) {
	app.GET("/health", func(c *gin.Context) {
		rest.ReplyOK(c, http.StatusOK, nil)
	})
	group := app.Group("/api/itops_event_manager/v1/")
	group.POST("events/get", r.ec.Get)
	group.POST("events/acknowledge", r.ec.Acknowledge)
}
