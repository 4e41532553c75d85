package controller

import (
	"context"
	"fmt"
	"net/http"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/dependency"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/service"
	"github.com/go-playground/validator/v10"
	"github.com/kweaver-ai/kweaver-go-lib/rest"
)

var (
	HTTPError = map[string]ErrorInfo{
		// 400
		service.ErrParameter: {
			httpCode:  http.StatusBadRequest,
			errorCode: AutoItOpsEventManager_BadRequest_InvalidParameter,
		},
		"ValidateParamError": {
			httpCode:  http.StatusBadRequest,
			errorCode: ModuleName + ".InvalidParameter.%sInvalidParameter",
		},
		// 401
		service.ErrUnauthorized: {
			httpCode:  http.StatusUnauthorized,
			errorCode: AutoItOpsEventManager_Unauthorized,
		},
		// 403
		service.ErrPermission: {
			httpCode:  http.StatusForbidden,
			errorCode: AutoItOpsEventManager_Forbidden_NoPermission,
		},
		// 500
		service.ErrInternal: {
			httpCode:  http.StatusInternalServerError,
			errorCode: AutoItOpsEventManager_InternalError_InternalError,
		},
		service.ErrStorage: {
			httpCode:  http.StatusInternalServerError,
			errorCode: AutoItOpsEventManager_InternalError_StorageError,
		},
	}
	// 存储错误按仓储错误类型细分
	repoHTTPError = map[string]ErrorInfo{
		dependency.RepoErrExecuteSql: {
			httpCode:  http.StatusInternalServerError,
			errorCode: AutoItOpsEventManager_InternalError_ExecuteSqlError,
		},
		dependency.RepoErrGenerateIDFailed: {
			httpCode:  http.StatusInternalServerError,
			errorCode: AutoItOpsEventManager_InternalError_GenerateID,
		},
	}
	InvalidParameter = ErrorInfo{
		httpCode:  http.StatusBadRequest,
		errorCode: AutoItOpsEventManager_BadRequest_InvalidParameter,
	}
)

type ErrorInfo struct {
	httpCode  int
	errorCode string
}

func HandleValidateError(ctx context.Context, err error) *rest.HTTPError {
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range errs {
			errInfo := HTTPError["ValidateParamError"]
			errInfo.errorCode = fmt.Sprintf(errInfo.errorCode, e.StructField())
			return NewRestHTTPError(ctx, errInfo).WithErrorDetails(e.Error())
		}
	}
	return NewRestHTTPError(ctx, InvalidParameter).WithErrorDetails(err.Error())
}

func NewRestHTTPError(ctx context.Context, info ErrorInfo) *rest.HTTPError {
	return rest.NewHTTPError(ctx, info.httpCode, info.errorCode)
}

// HandServiceError 按错误类型映射状态码，Detail 作为错误详情返回给调用方
func HandServiceError(ctx context.Context, err core.ServiceError) *rest.HTTPError {
	info := errorInfo(err)
	httpErr := NewRestHTTPError(ctx, info)
	if detail := err.Detail(); detail != "" {
		return httpErr.WithErrorDetails(detail)
	}
	return httpErr
}

func errorInfo(err core.ServiceError) ErrorInfo {
	if err.Type() == service.ErrStorage && err.GetError() != nil {
		if info, ok := repoHTTPError[err.GetError().Type()]; ok {
			return info
		}
	}
	if info, ok := HTTPError[err.Type()]; ok {
		return info
	}
	return HTTPError[service.ErrInternal]
}
