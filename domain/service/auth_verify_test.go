package service

import (
	"context"
	"net/http/httptest"
	"testing"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/adapter/restapi/hydra"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeHydra struct {
	visitor hydra.Visitor
	err     error
}

func (f *fakeHydra) Introspect(_ context.Context, _ string) (hydra.TokenIntrospectInfo, error) {
	return hydra.TokenIntrospectInfo{}, nil
}

func (f *fakeHydra) VerifyToken(_ context.Context, _ *gin.Context) (hydra.Visitor, error) {
	return f.visitor, f.err
}

type fakeUsers struct {
	types map[uint64]entity.UserType
	err   core.RepoError
}

func (f *fakeUsers) GetType(_ context.Context, userID uint64) (entity.UserType, bool, core.RepoError) {
	if f.err != nil {
		return 0, false, f.err
	}
	t, ok := f.types[userID]
	return t, ok, nil
}

func TestResolvePrincipal(t *testing.T) {
	Convey("TestResolvePrincipal", t, func() {
		ctx := context.Background()
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		h := &fakeHydra{visitor: hydra.Visitor{ID: "42"}}
		users := &fakeUsers{types: map[uint64]entity.UserType{42: entity.UserTypeSuperAdmin}}
		svc := NewAuthVerifyService(h, users)

		Convey("令牌有效且用户存在", func() {
			p, err := svc.ResolvePrincipal(ctx, c)
			So(err, ShouldBeNil)
			So(p, ShouldResemble, entity.Principal{UserID: 42, Type: entity.UserTypeSuperAdmin})
			So(p.SuperAdmin(), ShouldBeTrue)
		})

		Convey("令牌无效", func() {
			h.err = errors.New("oauth info is not active")
			_, err := svc.ResolvePrincipal(ctx, c)
			So(IsKind(err, ErrUnauthorized), ShouldBeTrue)
		})

		Convey("访问者不是用户", func() {
			h.visitor.ID = "app-client"
			_, err := svc.ResolvePrincipal(ctx, c)
			So(IsKind(err, ErrUnauthorized), ShouldBeTrue)
		})

		Convey("用户不存在", func() {
			h.visitor.ID = "43"
			_, err := svc.ResolvePrincipal(ctx, c)
			So(IsKind(err, ErrUnauthorized), ShouldBeTrue)
		})

		Convey("查询用户失败", func() {
			users.err = errStorage
			_, err := svc.ResolvePrincipal(ctx, c)
			So(IsKind(err, ErrInternal), ShouldBeTrue)
		})
	})
}
