package __1_0

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMigrate(t *testing.T) {
	Convey("TestMigrate", t, func() {
		conn, mock, err := sqlmock.New()
		So(err, ShouldBeNil)
		defer conn.Close()

		Convey("创建数据库与全部表", func() {
			mock.ExpectExec(regexp.QuoteMeta("CREATE DATABASE IF NOT EXISTS itops")).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(regexp.QuoteMeta("USE itops")).WillReturnResult(sqlmock.NewResult(0, 0))
			for _, tb := range tables {
				mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS " + tb.name + " (")).
					WillReturnResult(sqlmock.NewResult(0, 0))
			}

			So(Migrate(conn, "itops"), ShouldBeNil)
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})

		Convey("建表失败时停止", func() {
			mock.ExpectExec(regexp.QuoteMeta("CREATE DATABASE IF NOT EXISTS itops")).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(regexp.QuoteMeta("USE itops")).WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS events (")).
				WillReturnError(errors.New("access denied"))

			err := Migrate(conn, "itops")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "'events'")
		})
	})
}
