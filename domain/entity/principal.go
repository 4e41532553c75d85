package entity

// UserType 用户类型
type UserType int

const (
	UserTypeUser       UserType = 1
	UserTypeAdmin      UserType = 2
	UserTypeSuperAdmin UserType = 3
)

// Permission 用户组对主机组的权限级别
type Permission int

const (
	PermissionDeny      Permission = 0
	PermissionRead      Permission = 2
	PermissionReadWrite Permission = 3
)

// Principal 已认证的调用方
type Principal struct {
	UserID uint64
	Type   UserType
}

func (p Principal) SuperAdmin() bool {
	return p.Type == UserTypeSuperAdmin
}

// RequiredPermission editable 时需要读写权限，否则只需读权限
func RequiredPermission(editable bool) Permission {
	if editable {
		return PermissionReadWrite
	}
	return PermissionRead
}
