package service

import (
	"context"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/adapter/restapi/hydra"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/log"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/dependency"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

type AuthVerifyService interface {
	// ResolvePrincipal 校验令牌并加载用户类型
	ResolvePrincipal(ctx context.Context, c *gin.Context) (entity.Principal, core.ServiceError)
}

type authVerifyService struct {
	hydra hydra.Hydra
	users dependency.UserRepo
}

func (r *authVerifyService) ResolvePrincipal(ctx context.Context, c *gin.Context) (entity.Principal, core.ServiceError) {
	visitor, err := r.hydra.VerifyToken(ctx, c)
	if err != nil {
		log.Errorf("hydra Unauthorized err:%s", err.Error())
		return entity.Principal{}, NewSvUnauthorizedError(nil)
	}

	userID, err := cast.ToUint64E(visitor.ID)
	if err != nil || userID == 0 {
		log.Errorf("visitor id %q is not a user id", visitor.ID)
		return entity.Principal{}, NewSvUnauthorizedError(dependency.NewRepoInternalError(errors.Errorf("invalid visitor id %q", visitor.ID)))
	}

	userType, found, rErr := r.users.GetType(ctx, userID)
	if rErr != nil {
		log.Errorf("get user %d failed: %s", userID, rErr.Error())
		return entity.Principal{}, NewSvcInternalError(rErr)
	}
	if !found {
		log.Warnf("user %d not found", userID)
		return entity.Principal{}, NewSvUnauthorizedError(nil)
	}
	return entity.Principal{UserID: userID, Type: userType}, nil
}
