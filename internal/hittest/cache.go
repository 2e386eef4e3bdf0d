package hittest

import (
	"container/list"
	"sync"
	"time"
)

// cell：量化到整像素的指针坐标
type cell struct{ x, y int }

type slot struct {
	at  cell
	idx int
	exp time.Time
}

// 文档注释：命中结果缓存（按像素格，容量淘汰最久未用，TTL 过期）
// 背景：悬停在同一县内移动时像素格高度重复，缓存可省去包围盒过滤与多边形判定。
// 约束：值为县在索引中的下标，-1 表示未命中；场景重建时随索引一起丢弃。ttl 为 0 时不过期。
type LRU struct {
	mu    sync.Mutex
	limit int
	ttl   time.Duration
	order *list.List
	slots map[cell]*list.Element
	now   func() time.Time
}

func NewLRU(capacity int, ttl time.Duration) *LRU {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRU{limit: capacity, ttl: ttl, order: list.New(), slots: make(map[cell]*list.Element, capacity), now: time.Now}
}

func (c *LRU) Get(at cell) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.slots[at]
	if !ok {
		return 0, false
	}
	s := e.Value.(*slot)
	if c.ttl > 0 && c.now().After(s.exp) {
		c.drop(e)
		return 0, false
	}
	c.order.MoveToFront(e)
	return s.idx, true
}

func (c *LRU) Set(at cell, idx int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	exp := c.now().Add(c.ttl)
	if e, ok := c.slots[at]; ok {
		s := e.Value.(*slot)
		s.idx, s.exp = idx, exp
		c.order.MoveToFront(e)
		return
	}
	c.slots[at] = c.order.PushFront(&slot{at: at, idx: idx, exp: exp})
	if c.order.Len() > c.limit {
		c.drop(c.order.Back())
	}
}

func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *LRU) drop(e *list.Element) {
	delete(c.slots, e.Value.(*slot).at)
	c.order.Remove(e)
}
