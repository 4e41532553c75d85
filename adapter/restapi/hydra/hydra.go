package hydra

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/log"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/pkg/errors"
)

var ProviderSet = wire.NewSet(NewHydra)

// VisitorType 访问者类型
type VisitorType string

// 访问者类型定义
const (
	VisitorType_RealName  VisitorType = "realname"  // 实名用户
	VisitorType_Anonymous VisitorType = "anonymous" // 匿名用户
	VisitorType_App       VisitorType = "business"  // 应用账户
)

// ClientType 设备类型
type ClientType string

const (
	ClientType_Web     ClientType = "web"
	ClientType_Unknown ClientType = "unknown"
)

// TokenIntrospectInfo 令牌内省结果
type TokenIntrospectInfo struct {
	Active     bool        // 令牌状态
	VisitorID  string      // 访问者ID
	Scope      string      // 权限范围
	ClientID   string      // 客户端ID
	VisitorTyp VisitorType // 访问者类型
	// 以下字段只在实名用户时存在
	LoginIP   string
	ClientTyp ClientType
}

// Visitor 访问者信息
type Visitor struct {
	ID string

	// TokenID 不参与序列化，防止令牌被持久化
	TokenID    string `json:"-"`
	IP         string
	UserAgent  string
	ClientID   string
	Type       VisitorType
	ClientType ClientType
}

// introspectResp hydra 内省接口的响应
type introspectResp struct {
	Active   bool   `json:"active"`
	Sub      string `json:"sub"`
	Scope    string `json:"scope"`
	ClientID string `json:"client_id"`
	Ext      struct {
		VisitorType string `json:"visitor_type"`
		LoginIP     string `json:"login_ip"`
		ClientType  string `json:"client_type"`
	} `json:"ext"`
}

// Hydra 授权服务接口
type Hydra interface {
	// Introspect token内省
	Introspect(ctx context.Context, token string) (info TokenIntrospectInfo, err error)

	// token 有效性检查
	VerifyToken(ctx context.Context, c *gin.Context) (Visitor, error)
}

type hydra struct {
	adminAddress string
	client       *http.Client
}

// NewHydra 地址取自配置 restapi.hydraAdminAddress
func NewHydra(restAPI core.RestAPI) Hydra {
	return &hydra{
		adminAddress: restAPI.RestAPI().HydraAdminAddress,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

// Introspect token内省
func (h *hydra) Introspect(ctx context.Context, token string) (info TokenIntrospectInfo, err error) {
	target := fmt.Sprintf("%v/admin/oauth2/introspect", h.adminAddress)
	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := h.client.Do(req)
	if err != nil {
		log.Errorf("hydra Introspect err:%s", err.Error())
		return
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Errorf("hydra Introspect request close err:%s", closeErr.Error())
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return
	}
	if (resp.StatusCode < http.StatusOK) || (resp.StatusCode >= http.StatusMultipleChoices) {
		err = errors.Errorf("hydra introspect status %d: %s", resp.StatusCode, body)
		return
	}

	var r introspectResp
	if err = sonic.Unmarshal(body, &r); err != nil {
		return
	}

	info.Active = r.Active
	if !info.Active {
		return
	}
	info.VisitorID = r.Sub
	info.Scope = r.Scope
	info.ClientID = r.ClientID
	// 客户端凭据模式
	if info.VisitorID == info.ClientID {
		info.VisitorTyp = VisitorType_App
		return
	}

	info.VisitorTyp = VisitorType(r.Ext.VisitorType)
	switch info.VisitorTyp {
	case VisitorType_Anonymous:
		// 匿名用户没有设备信息，按 web 处理
		info.ClientTyp = ClientType_Web
	case VisitorType_RealName:
		info.LoginIP = r.Ext.LoginIP
		info.ClientTyp = ClientType(r.Ext.ClientType)
		if info.ClientTyp == "" {
			info.ClientTyp = ClientType_Unknown
		}
	}
	return
}

func (h *hydra) VerifyToken(ctx context.Context, c *gin.Context) (Visitor, error) {
	tokenID := c.GetHeader("Authorization")
	token := strings.TrimPrefix(tokenID, "Bearer ")
	if token == "" {
		return Visitor{}, errors.New("missing bearer token")
	}
	info, err := h.Introspect(ctx, token)
	if err != nil {
		return Visitor{}, err
	}

	if !info.Active {
		err = errors.New("oauth info is not active")
		return Visitor{}, err
	}

	visitor := Visitor{
		ID:         info.VisitorID,
		TokenID:    tokenID,
		IP:         c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
		Type:       info.VisitorTyp,
		ClientType: info.ClientTyp,
		ClientID:   info.ClientID,
	}

	return visitor, nil
}
