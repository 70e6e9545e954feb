package bancho

import (
	"strings"
	"sync"

	"github.com/onecho-dev/onecho/internal/model"
)

// Channel name prefixes with special wire handling.
const (
	spectatorPrefix   = "#spec_"
	multiplayerPrefix = "#multi_"
)

// ignoredChannels are names the client parts without ever having
// joined; parting them is a no-op.
var ignoredChannels = map[string]struct{}{
	"#userlog":   {},
	"#highlight": {},
}

// Channel is one chat channel: canonical name, topic, read/write ACLs
// and an ordered membership set. Temporary channels (watch-party
// rooms) are deleted when the last member leaves.
// Thread-safe for concurrent access.
type Channel struct {
	Name       string
	Topic      string
	ReadPrivs  model.Privileges
	WritePrivs model.Privileges
	AutoJoin   bool
	Temporary  bool

	mu    sync.RWMutex
	users []int32 // join order
}

// NewChannel creates a channel with no members.
func NewChannel(name, topic string, readPrivs, writePrivs model.Privileges, autoJoin, temporary bool) *Channel {
	return &Channel{
		Name:       name,
		Topic:      topic,
		ReadPrivs:  readPrivs,
		WritePrivs: writePrivs,
		AutoJoin:   autoJoin,
		Temporary:  temporary,
	}
}

// WireName returns the name sent to clients: spectator and
// multiplayer rooms are rewritten to their generic names.
func (c *Channel) WireName() string {
	switch {
	case strings.HasPrefix(c.Name, spectatorPrefix):
		return "#spectator"
	case strings.HasPrefix(c.Name, multiplayerPrefix):
		return "#multiplayer"
	}
	return c.Name
}

// CanRead reports whether privs may join and read the channel.
func (c *Channel) CanRead(privs model.Privileges) bool {
	return privs.HasAny(c.ReadPrivs)
}

// CanWrite reports whether privs may send messages to the channel.
func (c *Channel) CanWrite(privs model.Privileges) bool {
	return privs.HasAny(c.WritePrivs)
}

// AddUser appends id to the membership; no-op if already a member.
func (c *Channel) AddUser(id int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, u := range c.users {
		if u == id {
			return
		}
	}
	c.users = append(c.users, id)
}

// RemoveUser removes id from the membership. Reports whether the id
// was a member.
func (c *Channel) RemoveUser(id int32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, u := range c.users {
		if u == id {
			c.users = append(c.users[:i], c.users[i+1:]...)
			return true
		}
	}
	return false
}

// HasUser reports whether id is a member.
func (c *Channel) HasUser(id int32) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, u := range c.users {
		if u == id {
			return true
		}
	}
	return false
}

// Users returns a copy of the membership in join order.
func (c *Channel) Users() []int32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]int32, len(c.users))
	copy(out, c.users)
	return out
}

// Len returns the member count.
func (c *Channel) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.users)
}

// ChannelList is the process-wide channel table.
// Thread-safe for concurrent access.
type ChannelList struct {
	mu       sync.RWMutex
	channels map[string]*Channel // key: canonical name
}

// NewChannelList creates an empty channel table.
func NewChannelList() *ChannelList {
	return &ChannelList{channels: make(map[string]*Channel, 16)}
}

// Get returns the channel with the canonical name, or nil.
func (cl *ChannelList) Get(name string) *Channel {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return cl.channels[name]
}

// Add inserts a channel, replacing any previous one of the same name.
func (cl *ChannelList) Add(c *Channel) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.channels[c.Name] = c
}

// Remove deletes the named channel.
func (cl *ChannelList) Remove(name string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	delete(cl.channels, name)
}

// All returns a snapshot of every channel.
func (cl *ChannelList) All() []*Channel {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	out := make([]*Channel, 0, len(cl.channels))
	for _, c := range cl.channels {
		out = append(out, c)
	}
	return out
}

// IsIgnoredChannel reports whether name is a client-side pseudo
// channel the server never tracks.
func IsIgnoredChannel(name string) bool {
	_, ok := ignoredChannels[name]
	return ok
}
