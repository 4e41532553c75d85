package idgen

import (
	"sync"
	"testing"

	"github.com/agiledragon/gomonkey/v2"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("TestNew", t, func() {
		Convey("节点号越界", func() {
			_, err := New(1024)
			So(err, ShouldNotBeNil)

			_, err = New(-1)
			So(err, ShouldNotBeNil)
		})

		Convey("合法节点号", func() {
			g, err := New(3)
			So(err, ShouldBeNil)
			So(g, ShouldNotBeNil)
		})
	})
}

func TestNextIDSequence(t *testing.T) {
	Convey("TestNextIDSequence", t, func() {
		g, _ := New(1)

		Convey("连续生成的 ID 唯一且递增", func() {
			var last uint64
			seen := make(map[uint64]bool)
			for i := 0; i < 2000; i++ {
				id := g.NextIDs(1)[0]
				So(id, ShouldBeGreaterThan, last)
				So(seen[id], ShouldBeFalse)
				seen[id] = true
				last = id
			}
		})

		Convey("ID 中携带节点号", func() {
			id := g.NextIDs(1)[0]
			So((id>>nodeShft)&maxNode, ShouldEqual, 1)
		})

		Convey("时钟回拨不产生重复", func() {
			now := int64(1735689600000 + 5000)
			patches := gomonkey.ApplyGlobalVar(&nowMillis, func() int64 { return now })
			defer patches.Reset()

			first := g.NextIDs(1)[0]
			now -= 1000
			second := g.NextIDs(1)[0]
			So(second, ShouldBeGreaterThan, first)
		})
	})
}

func TestNextIDs(t *testing.T) {
	Convey("TestNextIDs", t, func() {
		g, _ := New(2)

		Convey("批量分配数量准确", func() {
			ids := g.NextIDs(5000)
			So(len(ids), ShouldEqual, 5000)
			for i := 1; i < len(ids); i++ {
				So(ids[i], ShouldBeGreaterThan, ids[i-1])
			}
		})

		Convey("非正数返回空切片", func() {
			So(g.NextIDs(0), ShouldResemble, []uint64{})
		})

		Convey("并发分配不重复", func() {
			var wg sync.WaitGroup
			ch := make(chan uint64, 10*200)
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for _, id := range g.NextIDs(200) {
						ch <- id
					}
				}()
			}
			wg.Wait()
			close(ch)
			seen := make(map[uint64]bool)
			for id := range ch {
				So(seen[id], ShouldBeFalse)
				seen[id] = true
			}
			So(len(seen), ShouldEqual, 2000)
		})
	})
}
