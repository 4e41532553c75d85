package config

import (
	"os"
	"strings"
	"time"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/log"
	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

var (
	//配置文件信息
	cfgPath string = "./config/"
	cfgName string = "config"
	cfgType string = "yaml"
	//服务版本路径
	versionPath string = "./VERSION"

	gCfg *GlobalCfg
	vp   *viper.Viper
)

const (
	ReleaseMode string = "release"
	DebugMode   string = "debug"

	RedisModeStandalone = "standalone"
	RedisModeSentinel   = "sentinel"
)

type GlobalCfg struct {
	App        AppCfg        `mapstructure:"app"`
	Log        log.LogCfg    `mapstructure:"log"`
	Mysql      MysqlCfg      `mapstructure:"mysql"`
	Redis      RedisCfg      `mapstructure:"redis"`
	Kafka      KafkaCfg      `mapstructure:"kafka"`
	HttpServer HttpServerCfg `mapstructure:"server"`
	RestAPI    RestAPI       `mapstructure:"restapi"`
}

// application config
type AppCfg struct {
	Mode    string `mapstructure:"mode"`    // 启动模式 : release，debug
	Version string `mapstructure:"version"` // 应用版本
	NodeID  int64  `mapstructure:"nodeID"`  // 实例编号，用于生成全局唯一 ID（0-1023）
}

// http server config
type HttpServerCfg struct {
	RunMode      string        `mapstructure:"runMode"`
	Addr         int           `mapstructure:"httpPort"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
}

// db config
type MysqlCfg struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxOpenConns    int    `mapstructure:"maxOpenConns"`
	MaxIdleConns    int    `mapstructure:"maxIdleConns"`
	ConnMaxLifetime int    `mapstructure:"connMaxLifetime"` // 秒
}

// redis config，用于缓存用户组关系
type RedisCfg struct {
	Enabled       bool     `mapstructure:"enabled"`
	Mode          string   `mapstructure:"mode"` // standalone, sentinel
	Addrs         []string `mapstructure:"addrs"`
	MasterName    string   `mapstructure:"masterName"`
	Username      string   `mapstructure:"username"`
	Password      string   `mapstructure:"password"`
	DB            int      `mapstructure:"db"`
	GroupCacheTTL int      `mapstructure:"groupCacheTTL"` // 秒
}

// kafka config，关闭问题任务写入后的通知
type KafkaCfg struct {
	Enabled      bool     `mapstructure:"enabled"`
	Brokers      []string `mapstructure:"brokers"`
	TaskTopic    string   `mapstructure:"taskTopic"`
	WriteTimeout int      `mapstructure:"writeTimeout"` // 秒
	SASL         SASLCfg  `mapstructure:"sasl"`
}

type SASLCfg struct {
	Enabled   bool   `mapstructure:"enabled"`
	Mechanism string `mapstructure:"mechanism"` // PLAIN, SCRAM-SHA-256, SCRAM-SHA-512
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
}

// RestAPI
type RestAPI struct {
	HydraAdminAddress string `mapstructure:"hydraAdminAddress"`
}

func Get() *GlobalCfg {
	if gCfg == nil {
		gCfg = Default()
	}
	return gCfg
}

// Default 返回未读取配置文件时的默认值
func Default() *GlobalCfg {
	return &GlobalCfg{
		App: AppCfg{Mode: DebugMode},
		Log: log.LogCfg{Level: "info", Development: true},
		Mysql: MysqlCfg{
			Driver:          "mysql",
			Host:            "127.0.0.1",
			Port:            3306,
			Database:        "itops",
			MaxOpenConns:    100,
			MaxIdleConns:    20,
			ConnMaxLifetime: 100,
		},
		Redis: RedisCfg{Mode: RedisModeStandalone, GroupCacheTTL: 60},
		Kafka: KafkaCfg{TaskTopic: "itops_task_close_problem", WriteTimeout: 10},
		HttpServer: HttpServerCfg{
			RunMode:      gin.DebugMode,
			Addr:         13048,
			ReadTimeout:  60,
			WriteTimeout: 60,
		},
		RestAPI: RestAPI{HydraAdminAddress: "http://hydra-admin:4445"},
	}
}

// 初始化配置
func InitPremise() {
	vp = viper.New()
	vp.AddConfigPath(cfgPath)
	vp.SetConfigName(cfgName)
	vp.SetConfigType(cfgType)
	vp.SetEnvPrefix("ITOPS_EVENT")
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()
	loadSetting(vp)
	vp.WatchConfig()
	vp.OnConfigChange(func(e fsnotify.Event) {
		log.Infof("config file changed: %s", e.Name)
		loadSetting(vp)
	})
}

func loadSetting(vp *viper.Viper) {
	if err := vp.ReadInConfig(); err != nil {
		panic(err.Error())
	}
	cfg := Default()
	if err := vp.Unmarshal(cfg); err != nil {
		panic(err.Error())
	}
	cfg.App.Version, _ = parseVersion(versionPath)
	setRunMode(cfg)
	gCfg = cfg
	log.InitLogger(gCfg.Log)
}

func parseVersion(versionPath string) (string, error) {
	b, err := os.ReadFile(versionPath)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func setRunMode(cfg *GlobalCfg) {
	switch cfg.App.Mode {
	case ReleaseMode:
		cfg.Log.Development = false
		cfg.HttpServer.RunMode = gin.ReleaseMode
	default:
		cfg.Log.Development = true
		cfg.HttpServer.RunMode = gin.DebugMode
	}
}
