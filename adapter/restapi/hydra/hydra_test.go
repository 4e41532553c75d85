package hydra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/config"
	"github.com/gin-gonic/gin"
	"github.com/jarcoal/httpmock"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeRestAPI struct{}

func (fakeRestAPI) RestAPI() *config.RestAPI {
	return &config.RestAPI{HydraAdminAddress: "http://hydra-admin:4445"}
}

const introspectURL = "http://hydra-admin:4445/admin/oauth2/introspect"

func TestVerifyToken(t *testing.T) {
	Convey("TestVerifyToken", t, func() {
		h := NewHydra(fakeRestAPI{}).(*hydra)
		httpmock.ActivateNonDefault(h.client)
		defer httpmock.DeactivateAndReset()

		newCtx := func(auth string) *gin.Context {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/api/itops_event_manager/v1/events/get", nil)
			if auth != "" {
				c.Request.Header.Set("Authorization", auth)
			}
			return c
		}

		Convey("实名用户", func() {
			httpmock.RegisterResponder(http.MethodPost, introspectURL,
				func(req *http.Request) (*http.Response, error) {
					if err := req.ParseForm(); err != nil || req.PostForm.Get("token") != "abc" {
						return httpmock.NewStringResponse(http.StatusBadRequest, "bad token"), nil
					}
					return httpmock.NewStringResponse(http.StatusOK, `{"active":true,"sub":"42","scope":"all",
						"client_id":"web","ext":{"visitor_type":"realname","login_ip":"10.0.0.1","client_type":"web"}}`), nil
				})

			visitor, err := h.VerifyToken(context.Background(), newCtx("Bearer abc"))
			So(err, ShouldBeNil)
			So(visitor.ID, ShouldEqual, "42")
			So(visitor.Type, ShouldEqual, VisitorType_RealName)
			So(visitor.ClientType, ShouldEqual, ClientType_Web)
			So(visitor.TokenID, ShouldEqual, "Bearer abc")
		})

		Convey("客户端凭据模式", func() {
			httpmock.RegisterResponder(http.MethodPost, introspectURL,
				httpmock.NewStringResponder(http.StatusOK, `{"active":true,"sub":"app","client_id":"app"}`))

			info, err := h.Introspect(context.Background(), "abc")
			So(err, ShouldBeNil)
			So(info.VisitorTyp, ShouldEqual, VisitorType_App)
		})

		Convey("令牌失效", func() {
			httpmock.RegisterResponder(http.MethodPost, introspectURL,
				httpmock.NewStringResponder(http.StatusOK, `{"active":false}`))

			_, err := h.VerifyToken(context.Background(), newCtx("Bearer abc"))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEqual, "oauth info is not active")
		})

		Convey("hydra 返回错误状态码", func() {
			httpmock.RegisterResponder(http.MethodPost, introspectURL,
				httpmock.NewStringResponder(http.StatusInternalServerError, "internal"))

			_, err := h.VerifyToken(context.Background(), newCtx("Bearer abc"))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEqual, "hydra introspect status 500: internal")
		})

		Convey("没有令牌时不请求 hydra", func() {
			_, err := h.VerifyToken(context.Background(), newCtx(""))
			So(err, ShouldNotBeNil)
			So(httpmock.GetTotalCallCount(), ShouldEqual, 0)
		})
	})
}
