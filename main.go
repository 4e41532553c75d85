package main

import (
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/log"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/config"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/migrations/0.1.0"
)

func main() {
	// 初始化服务配置
	config.InitPremise()
	__1_0.InitDataBase()
	router, cleanup, err := initServer()
	if err != nil {
		log.Errorf("init server failed: %v", err)
		panic(err)
	}
	defer cleanup()
	core.InitHttpServer(router)
}
