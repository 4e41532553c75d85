package core

type ServiceError interface {
	Error() string
	GetError() RepoError
	Type() string
	// Detail 面向调用方的可读原因
	Detail() string
}
