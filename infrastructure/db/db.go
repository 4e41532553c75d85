package db

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/log"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/config"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/kweaver-ai/proton-rds-sdk-go/driver"
	"github.com/pkg/errors"
)

const (
	DefaultDriverName = "mysql"
)

var (
	dbOnce sync.Once
	db     *sql.DB
	dbErr  error
)

// NewDBAccess 进程内共享一个连接池
func NewDBAccess() (*sql.DB, error) {
	dbOnce.Do(func() {
		db, dbErr = NewDB()
	})
	return db, dbErr
}

func NewDB() (*sql.DB, error) {
	conf := config.Get().Mysql
	conn, err := open(conf, conf.Database)
	if err != nil {
		return nil, err
	}
	// 最大连接数
	conn.SetMaxOpenConns(conf.MaxOpenConns)
	// 闲置连接数
	conn.SetMaxIdleConns(conf.MaxIdleConns)
	// 最大连接周期
	conn.SetConnMaxLifetime(time.Duration(conf.ConnMaxLifetime) * time.Second)
	return conn, nil
}

// ConnectDB 不指定库名连接，用于建库
func ConnectDB() (*sql.DB, error) {
	return open(config.Get().Mysql, "")
}

func open(conf config.MysqlCfg, database string) (*sql.DB, error) {
	driver := conf.Driver
	if driver == "" {
		driver = DefaultDriverName
	}
	log.Infof("connect db %s:%d/%s with driver %s", conf.Host, conf.Port, database, driver)
	conn, err := sql.Open(driver, DSN(conf, database))
	if err != nil {
		return nil, errors.Wrapf(err, "new db err:")
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, errors.Wrapf(err, "db ping err")
	}
	return conn, nil
}

// DSN mysql 与 proton-rds 驱动使用相同格式
func DSN(conf config.MysqlCfg, database string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=false&loc=Local",
		conf.Username, conf.Password, conf.Host, conf.Port, database)
}
