package server

import "sync/atomic"

type stats struct {
	datagrams  uint64
	malformed  uint64
	replies    uint64
	replyBytes uint64
	departures uint64
	truncated  uint64
	sendErrors uint64
	players    int64
}

type statsSnapshot struct {
	Datagrams  uint64 `json:"datagrams"`
	Malformed  uint64 `json:"malformed"`
	Replies    uint64 `json:"replies"`
	ReplyBytes uint64 `json:"replyBytes"`
	Departures uint64 `json:"departures"`
	Truncated  uint64 `json:"truncated"`
	SendErrors uint64 `json:"sendErrors"`
	Players    int    `json:"players"`
}

func (s *stats) recordReply(bytes int) {
	atomic.AddUint64(&s.replies, 1)
	atomic.AddUint64(&s.replyBytes, uint64(bytes))
}

func (s *stats) add(counter *uint64) {
	atomic.AddUint64(counter, 1)
}

func (s *stats) setPlayers(n int) {
	atomic.StoreInt64(&s.players, int64(n))
}

func (s *stats) snapshot() statsSnapshot {
	return statsSnapshot{
		Datagrams:  atomic.LoadUint64(&s.datagrams),
		Malformed:  atomic.LoadUint64(&s.malformed),
		Replies:    atomic.LoadUint64(&s.replies),
		ReplyBytes: atomic.LoadUint64(&s.replyBytes),
		Departures: atomic.LoadUint64(&s.departures),
		Truncated:  atomic.LoadUint64(&s.truncated),
		SendErrors: atomic.LoadUint64(&s.sendErrors),
		Players:    int(atomic.LoadInt64(&s.players)),
	}
}
