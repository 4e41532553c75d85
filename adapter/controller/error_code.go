package controller

import (
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/locale"
	"github.com/kweaver-ai/kweaver-go-lib/rest"
)

const ModuleName = "AutoItOpsEventManager"

const (
	// 400
	AutoItOpsEventManager_BadRequest_InvalidParameter = ModuleName + ".BadRequest.InvalidParameter"
	AutoItOpsEventManager_InvalidParameter_EventIDs   = ModuleName + ".InvalidParameter.EventIDsInvalidParameter"
	AutoItOpsEventManager_InvalidParameter_Message    = ModuleName + ".InvalidParameter.MessageInvalidParameter"
	// 401
	AutoItOpsEventManager_Unauthorized = ModuleName + ".Unauthorized.Unauthorized"
	// 403
	AutoItOpsEventManager_Forbidden_NoPermission = ModuleName + ".Forbidden.NoPermission"
	// 500
	AutoItOpsEventManager_InternalError_InternalError   = ModuleName + ".InternalError.InternalError"
	AutoItOpsEventManager_InternalError_StorageError    = ModuleName + ".InternalError.StorageError"
	AutoItOpsEventManager_InternalError_ExecuteSqlError = ModuleName + ".InternalError.ExecuteSqlError"
	AutoItOpsEventManager_InternalError_GenerateID      = ModuleName + ".InternalError.GenerateIDFailed"
)

var (
	errorCodeList = []string{
		AutoItOpsEventManager_BadRequest_InvalidParameter,
		AutoItOpsEventManager_InvalidParameter_EventIDs,
		AutoItOpsEventManager_InvalidParameter_Message,
		AutoItOpsEventManager_Unauthorized,
		AutoItOpsEventManager_Forbidden_NoPermission,
		AutoItOpsEventManager_InternalError_InternalError,
		AutoItOpsEventManager_InternalError_StorageError,
		AutoItOpsEventManager_InternalError_ExecuteSqlError,
		AutoItOpsEventManager_InternalError_GenerateID,
	}
)

func init() {
	locale.Register()
	// 注册
	rest.Register(errorCodeList)
}
