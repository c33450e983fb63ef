package server

import (
	"encoding/json"
	"sync"
)

// wsSession is one connection's binding to a conversation.
type wsSession struct {
	mu             sync.Mutex
	conversationID string
	peer           *wsPeer
}

func newWSSession(conversationID string, peer *wsPeer) *wsSession {
	return &wsSession{
		conversationID: conversationID,
		peer:           peer,
	}
}

func (s *wsSession) setConversation(conversationID string) {
	s.mu.Lock()
	s.conversationID = conversationID
	s.mu.Unlock()
}

func (s *wsSession) conversation() string {
	s.mu.Lock()
	id := s.conversationID
	s.mu.Unlock()
	return id
}

type wsPeer struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

func newWSPeer(encoder *json.Encoder) *wsPeer {
	return &wsPeer{encoder: encoder}
}

func (p *wsPeer) writeFrame(frame wsFrame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.encoder.Encode(frame)
}
