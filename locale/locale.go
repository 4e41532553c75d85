package locale

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/kweaver-ai/kweaver-go-lib/i18n"
)

// 部署时资源文件随镜像放在工作目录下
const localeDir = "./locale"

// Register 注册错误码的国际化资源。
// 单测中（I18N_MODE_UT=true）或工作目录下没有资源目录时按源码目录查找
func Register() {
	i18n.RegisterI18n(resolveDir())
}

func resolveDir() string {
	if os.Getenv("I18N_MODE_UT") != "true" {
		if _, err := os.Stat(localeDir); err == nil {
			return localeDir
		}
	}
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}
