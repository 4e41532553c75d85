package __1_0

import (
	"database/sql"
	"fmt"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/log"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/config"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/infrastructure/db"
	"github.com/pkg/errors"
)

const tableOptions = " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin"

type table struct {
	name string
	ddl  string
}

// tables 建表顺序与依赖无关，均为 IF NOT EXISTS
var tables = []table{
	{"events", `CREATE TABLE IF NOT EXISTS events (
    eventid BIGINT UNSIGNED NOT NULL,
    source INT NOT NULL DEFAULT 0,
    object INT NOT NULL DEFAULT 0,
    objectid BIGINT UNSIGNED NOT NULL DEFAULT 0,
    clock INT NOT NULL DEFAULT 0,
    ns INT NOT NULL DEFAULT 0,
    value INT NOT NULL DEFAULT 0,
    acknowledged INT NOT NULL DEFAULT 0,
    name VARCHAR(2048) NOT NULL DEFAULT '',
    PRIMARY KEY (eventid),
    KEY events_1 (source, object, objectid, clock),
    KEY events_2 (source, object, clock)
)`},
	{"event_recovery", `CREATE TABLE IF NOT EXISTS event_recovery (
    eventid BIGINT UNSIGNED NOT NULL,
    r_eventid BIGINT UNSIGNED NOT NULL,
    c_eventid BIGINT UNSIGNED NULL,
    correlationid BIGINT UNSIGNED NULL,
    PRIMARY KEY (eventid),
    KEY event_recovery_1 (r_eventid)
)`},
	{"acknowledges", `CREATE TABLE IF NOT EXISTS acknowledges (
    acknowledgeid BIGINT UNSIGNED NOT NULL,
    userid BIGINT UNSIGNED NOT NULL,
    eventid BIGINT UNSIGNED NOT NULL,
    clock INT NOT NULL DEFAULT 0,
    message VARCHAR(255) NOT NULL DEFAULT '',
    action INT NOT NULL DEFAULT 0,
    PRIMARY KEY (acknowledgeid),
    KEY acknowledges_1 (userid),
    KEY acknowledges_2 (eventid),
    KEY acknowledges_3 (clock)
)`},
	{"task", `CREATE TABLE IF NOT EXISTS task (
    taskid BIGINT UNSIGNED NOT NULL,
    type INT NOT NULL,
    status INT NOT NULL DEFAULT 0,
    clock INT NOT NULL DEFAULT 0,
    PRIMARY KEY (taskid),
    KEY task_1 (status, type)
)`},
	{"task_close_problem", `CREATE TABLE IF NOT EXISTS task_close_problem (
    taskid BIGINT UNSIGNED NOT NULL,
    acknowledgeid BIGINT UNSIGNED NOT NULL,
    PRIMARY KEY (taskid)
)`},
	{"event_tag", `CREATE TABLE IF NOT EXISTS event_tag (
    eventtagid BIGINT UNSIGNED NOT NULL,
    eventid BIGINT UNSIGNED NOT NULL,
    tag VARCHAR(255) NOT NULL DEFAULT '',
    value VARCHAR(255) NOT NULL DEFAULT '',
    PRIMARY KEY (eventtagid),
    KEY event_tag_1 (eventid)
)`},
	{"users", `CREATE TABLE IF NOT EXISTS users (
    userid BIGINT UNSIGNED NOT NULL,
    alias VARCHAR(100) NOT NULL DEFAULT '',
    name VARCHAR(100) NOT NULL DEFAULT '',
    surname VARCHAR(100) NOT NULL DEFAULT '',
    type INT NOT NULL DEFAULT 1,
    PRIMARY KEY (userid),
    UNIQUE KEY users_1 (alias)
)`},
	{"users_groups", `CREATE TABLE IF NOT EXISTS users_groups (
    id BIGINT UNSIGNED NOT NULL,
    usrgrpid BIGINT UNSIGNED NOT NULL,
    userid BIGINT UNSIGNED NOT NULL,
    PRIMARY KEY (id),
    UNIQUE KEY users_groups_1 (usrgrpid, userid),
    KEY users_groups_2 (userid)
)`},
	{"rights", `CREATE TABLE IF NOT EXISTS rights (
    rightid BIGINT UNSIGNED NOT NULL,
    groupid BIGINT UNSIGNED NOT NULL,
    permission INT NOT NULL DEFAULT 0,
    id BIGINT UNSIGNED NOT NULL,
    PRIMARY KEY (rightid),
    KEY rights_1 (groupid),
    KEY rights_2 (id)
)`},
	{"hosts", `CREATE TABLE IF NOT EXISTS hosts (
    hostid BIGINT UNSIGNED NOT NULL,
    host VARCHAR(128) NOT NULL DEFAULT '',
    name VARCHAR(128) NOT NULL DEFAULT '',
    status INT NOT NULL DEFAULT 0,
    PRIMARY KEY (hostid),
    KEY hosts_1 (host)
)`},
	{"hosts_groups", `CREATE TABLE IF NOT EXISTS hosts_groups (
    hostgroupid BIGINT UNSIGNED NOT NULL,
    hostid BIGINT UNSIGNED NOT NULL,
    groupid BIGINT UNSIGNED NOT NULL,
    PRIMARY KEY (hostgroupid),
    UNIQUE KEY hosts_groups_1 (hostid, groupid),
    KEY hosts_groups_2 (groupid)
)`},
	{"items", `CREATE TABLE IF NOT EXISTS items (
    itemid BIGINT UNSIGNED NOT NULL,
    hostid BIGINT UNSIGNED NOT NULL,
    name VARCHAR(255) NOT NULL DEFAULT '',
    key_ VARCHAR(2048) NOT NULL DEFAULT '',
    flags INT NOT NULL DEFAULT 0,
    PRIMARY KEY (itemid),
    KEY items_1 (hostid)
)`},
	{"functions", `CREATE TABLE IF NOT EXISTS functions (
    functionid BIGINT UNSIGNED NOT NULL,
    itemid BIGINT UNSIGNED NOT NULL,
    triggerid BIGINT UNSIGNED NOT NULL,
    PRIMARY KEY (functionid),
    KEY functions_1 (triggerid),
    KEY functions_2 (itemid)
)`},
	{"triggers", `CREATE TABLE IF NOT EXISTS triggers (
    triggerid BIGINT UNSIGNED NOT NULL,
    description VARCHAR(255) NOT NULL DEFAULT '',
    priority INT NOT NULL DEFAULT 0,
    value INT NOT NULL DEFAULT 0,
    manual_close INT NOT NULL DEFAULT 0,
    PRIMARY KEY (triggerid)
)`},
	{"alerts", `CREATE TABLE IF NOT EXISTS alerts (
    alertid BIGINT UNSIGNED NOT NULL,
    eventid BIGINT UNSIGNED NOT NULL,
    userid BIGINT UNSIGNED NULL,
    clock INT NOT NULL DEFAULT 0,
    message TEXT NOT NULL,
    status INT NOT NULL DEFAULT 0,
    PRIMARY KEY (alertid),
    KEY alerts_1 (eventid)
)`},
	{"dhosts", `CREATE TABLE IF NOT EXISTS dhosts (
    dhostid BIGINT UNSIGNED NOT NULL,
    druleid BIGINT UNSIGNED NOT NULL,
    status INT NOT NULL DEFAULT 0,
    PRIMARY KEY (dhostid),
    KEY dhosts_1 (druleid)
)`},
	{"dservices", `CREATE TABLE IF NOT EXISTS dservices (
    dserviceid BIGINT UNSIGNED NOT NULL,
    dhostid BIGINT UNSIGNED NOT NULL,
    type INT NOT NULL DEFAULT 0,
    ip VARCHAR(39) NOT NULL DEFAULT '',
    port INT NOT NULL DEFAULT 0,
    status INT NOT NULL DEFAULT 0,
    PRIMARY KEY (dserviceid),
    KEY dservices_1 (dhostid)
)`},
}

func InitDataBase() {
	conn, err := db.ConnectDB()
	if err != nil {
		panic(fmt.Sprintf("Failed to connect database: %v", err))
	}
	defer conn.Close()
	// USE 只对当前连接生效
	conn.SetMaxOpenConns(1)

	if err := Migrate(conn, config.Get().Mysql.Database); err != nil {
		panic(err.Error())
	}
}

// Migrate 创建数据库及全部表，可重复执行
func Migrate(conn *sql.DB, database string) error {
	// 1. 创建数据库（如果不存在）
	createDBSQL := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s CHARACTER SET utf8mb4 COLLATE utf8mb4_bin", database)
	if _, err := conn.Exec(createDBSQL); err != nil {
		return errors.Wrapf(err, "Failed to create database '%s'", database)
	}
	log.Infof("database '%s' created or already exists", database)

	// 2. 切换数据库
	if _, err := conn.Exec("USE " + database); err != nil {
		return errors.Wrapf(err, "Failed to use database '%s'", database)
	}

	// 3. 建表
	for _, t := range tables {
		if _, err := conn.Exec(t.ddl + tableOptions); err != nil {
			return errors.Wrapf(err, "Failed to create table '%s'", t.name)
		}
		log.Infof("table '%s' created or already exists", t.name)
	}
	return nil
}
