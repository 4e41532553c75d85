package repository

import (
	"database/sql"
	"time"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/config"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/dependency"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/infrastructure/cache"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/infrastructure/db"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/utils/idgen"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(db.NewDBAccess, NewRepo, NewIDGenerator, NewEventRepo, NewAcknowledgeRepo,
	NewTaskRepo, NewTxManager, NewLookups, NewGroupResolver, NewUserRepo)

func NewRepo(db *sql.DB) core.Repo {
	return core.Repo{DB: db}
}

// NewIDGenerator 多实例部署时 app.nodeID 需各不相同
func NewIDGenerator() (*idgen.Generator, error) {
	return idgen.New(config.Get().App.NodeID)
}

func NewEventRepo(repo core.Repo) dependency.EventRepo {
	return &eventRepo{recordRepo: recordRepo{Repo: repo}}
}

func NewAcknowledgeRepo(repo core.Repo, idGen *idgen.Generator) dependency.AcknowledgeRepo {
	return &acknowledgeRepo{Repo: repo, idGen: idGen}
}

func NewTaskRepo(repo core.Repo, idGen *idgen.Generator) dependency.TaskRepo {
	return &taskRepo{Repo: repo, idGen: idGen}
}

func NewTxManager(db *sql.DB) dependency.TxManager {
	return &txManager{db: db}
}

func NewGroupResolver(repo core.Repo, c cache.Cache) dependency.GroupResolver {
	return &groupRepo{
		Repo:  repo,
		cache: c,
		ttl:   time.Duration(config.Get().Redis.GroupCacheTTL) * time.Second,
	}
}

func NewUserRepo(repo core.Repo) dependency.UserRepo {
	return &userRepo{Repo: repo}
}
