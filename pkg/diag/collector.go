// Package diag collects lifecycle events of a component environment.
//
// A Collector is installed with component.WithDiagnostics. It keeps the set
// of live nodes, a bounded log of recent events, and fans events out to
// subscribers such as the inspector's websocket stream.
package diag

import (
	"sort"
	"sync"
	"time"

	"github.com/vango-dev/wtree/pkg/component"
)

// DefaultHistory is the number of events kept when NewCollector gets 0.
const DefaultHistory = 256

// NodeInfo describes a live node.
type NodeInfo struct {
	ID       uint64    `json:"id"`
	ParentID uint64    `json:"parentId,omitempty"`
	Name     string    `json:"name,omitempty"`
	Started  bool      `json:"started"`
	Mounted  bool      `json:"mounted"`
	Renders  int       `json:"renders"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
}

// Collector implements component.Diagnostics.
type Collector struct {
	mu      sync.RWMutex
	history int
	events  []component.Event
	live    map[uint64]*NodeInfo
	subs    map[int]chan component.Event
	nextSub int
	dropped uint64
}

var _ component.Diagnostics = (*Collector)(nil)

// NewCollector creates a collector keeping the last history events.
func NewCollector(history int) *Collector {
	if history <= 0 {
		history = DefaultHistory
	}
	return &Collector{
		history: history,
		live:    make(map[uint64]*NodeInfo),
		subs:    make(map[int]chan component.Event),
	}
}

// Record implements component.Diagnostics.
func (c *Collector) Record(e component.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, e)
	if over := len(c.events) - c.history; over > 0 {
		c.events = append(c.events[:0:0], c.events[over:]...)
	}

	switch e.Kind {
	case component.EventCreated:
		c.live[e.NodeID] = &NodeInfo{
			ID:       e.NodeID,
			ParentID: e.ParentID,
			Name:     e.Name,
			Created:  e.Time,
			Updated:  e.Time,
		}
	case component.EventDestroyed:
		delete(c.live, e.NodeID)
	default:
		if info, ok := c.live[e.NodeID]; ok {
			info.Updated = e.Time
			switch e.Kind {
			case component.EventStarted:
				info.Started = true
			case component.EventRendered:
				info.Renders++
			case component.EventMounted:
				info.Mounted = true
			case component.EventUnmounted:
				info.Mounted = false
			}
		}
	}

	// Slow subscribers lose events rather than block the tree.
	for _, ch := range c.subs {
		select {
		case ch <- e:
		default:
			c.dropped++
		}
	}
}

// Live returns the live nodes ordered by id.
func (c *Collector) Live() []NodeInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]NodeInfo, 0, len(c.live))
	for _, info := range c.live {
		out = append(out, *info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Node returns one live node.
func (c *Collector) Node(id uint64) (NodeInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.live[id]
	if !ok {
		return NodeInfo{}, false
	}
	return *info, true
}

// Events returns the recorded events, oldest first.
func (c *Collector) Events() []component.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]component.Event(nil), c.events...)
}

// Dropped returns the number of events subscribers missed.
func (c *Collector) Dropped() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dropped
}

// Subscribe returns a channel receiving every event recorded from now on.
// The cancel function unsubscribes and closes the channel.
func (c *Collector) Subscribe(buffer int) (<-chan component.Event, func()) {
	ch := make(chan component.Event, buffer)
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(ch)
		})
	}
}
