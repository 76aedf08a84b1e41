package service

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"balance_scale_backend/internal/util"
)

// TargetGenerator 在闭区间内均匀生成会话目标数
type TargetGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewTargetGenerator() *TargetGenerator {
	seed := uint64(time.Now().UnixNano())
	return NewTargetGeneratorWithSource(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewTargetGeneratorWithSource 使用指定随机源，便于测试
func NewTargetGeneratorWithSource(src rand.Source) *TargetGenerator {
	return &TargetGenerator{rng: rand.New(src)}
}

// NextTarget 返回 [min, max] 内的整数
func (g *TargetGenerator) NextTarget(min, max int) (int, error) {
	if min > max {
		return 0, fmt.Errorf("%w: min %d > max %d", util.ErrInvalidRange, min, max)
	}
	// 用 uint64 计算区间长度，[math.MinInt, math.MaxInt] 不会溢出
	span := uint64(max) - uint64(min)

	g.mu.Lock()
	defer g.mu.Unlock()
	if span == ^uint64(0) {
		return int(g.rng.Uint64()), nil
	}
	return min + int(g.rng.Uint64N(span+1)), nil
}
