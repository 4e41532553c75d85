package idgen

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	// 自定义纪元：2025-01-01 00:00:00 UTC（毫秒）
	customEpoch = int64(1735689600000)

	nodeBits = 10
	seqBits  = 12

	maxNode  = (1 << nodeBits) - 1 // 1023
	seqMask  = (1 << seqBits) - 1  // 4095
	nodeShft = seqBits
	tsShift  = seqBits + nodeBits
)

var nowMillis = func() int64 {
	return time.Now().UnixMilli()
}

// Generator 生成 时间戳(41位)|节点(10位)|序列号(12位) 结构的 ID，
// 同一节点内严格递增，多实例部署时依靠节点号区分。
type Generator struct {
	mu     sync.Mutex
	node   int64
	lastTs int64
	seq    int64
}

// New 创建 ID 生成器实例，node 取值 0-1023。
func New(node int64) (*Generator, error) {
	if node < 0 || node > maxNode {
		return nil, errors.Errorf("idgen: node %d out of range [0, %d]", node, maxNode)
	}
	return &Generator{node: node}, nil
}

// NextIDs 一次性分配 n 个连续生成的 ID，整批在同一把锁内完成
func (g *Generator) NextIDs(n int) []uint64 {
	if n <= 0 {
		return []uint64{}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, g.next())
	}
	return ids
}

func (g *Generator) next() uint64 {
	ts := nowMillis() - customEpoch
	// 时钟回拨时沿用上一次的时间戳，保证递增
	if ts < g.lastTs {
		ts = g.lastTs
	}
	if ts == g.lastTs {
		g.seq = (g.seq + 1) & seqMask
		if g.seq == 0 {
			// 当前毫秒序列号用完，等待下一毫秒
			for ts <= g.lastTs {
				time.Sleep(100 * time.Microsecond)
				ts = nowMillis() - customEpoch
			}
		}
	} else {
		g.seq = 0
	}
	g.lastTs = ts
	return uint64(ts)<<tsShift | uint64(g.node)<<nodeShft | uint64(g.seq)
}
