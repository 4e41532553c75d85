package service

import (
	"fmt"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
)

const (
	ErrParameter    = "ParameterError"
	ErrPermission   = "PermissionError"
	ErrStorage      = "StorageError"
	ErrUnauthorized = "Unauthorized"
	ErrInternal     = "InternalError"
)

type serviceError struct {
	err     core.RepoError
	ErrType string
	detail  string
}

func (e *serviceError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.Type(), e.err.Error())
	}
	if e.detail != "" {
		return fmt.Sprintf("%s: %s", e.Type(), e.detail)
	}
	return e.Type()
}

func (e *serviceError) GetError() core.RepoError {
	return e.err
}

func (e *serviceError) Type() string {
	return e.ErrType
}

func (e *serviceError) Detail() string {
	return e.detail
}

func NewSvcParameterError(format string, args ...interface{}) core.ServiceError {
	return &serviceError{
		ErrType: ErrParameter,
		detail:  fmt.Sprintf(format, args...),
	}
}

func NewSvcPermissionError(format string, args ...interface{}) core.ServiceError {
	return &serviceError{
		ErrType: ErrPermission,
		detail:  fmt.Sprintf(format, args...),
	}
}

// NewSvcStorageError 写入失败，整个操作回滚
func NewSvcStorageError(err core.RepoError) core.ServiceError {
	e := &serviceError{
		err:     err,
		ErrType: ErrStorage,
	}
	if err != nil {
		e.detail = err.Error()
	}
	return e
}

func NewSvcInternalError(err core.RepoError) core.ServiceError {
	e := &serviceError{
		err:     err,
		ErrType: ErrInternal,
	}
	if err != nil {
		e.detail = err.Error()
	}
	return e
}

func NewSvUnauthorizedError(err core.RepoError) core.ServiceError {
	return &serviceError{
		err:     err,
		ErrType: ErrUnauthorized,
		detail:  "Not authorized.",
	}
}

// IsKind 判断错误类型
func IsKind(err error, kind string) bool {
	svcErr, ok := err.(core.ServiceError)
	if !ok || svcErr == nil {
		return false
	}
	return svcErr.Type() == kind
}

const (
	msgIncorrectArguments = "Incorrect arguments passed to function."
	msgEmptyMessage       = "Incorrect value for field \"message\": cannot be empty."
	msgNoPermissions      = "No permissions to referred object or it does not exist!"
	msgOnlyTriggerEvents  = "Only trigger events can be acknowledged."
	msgNotProblemState    = "Cannot close problem: event is not in PROBLEM state."
	msgNoManualClose      = "Cannot close problem: trigger does not allow manual closing."
)
