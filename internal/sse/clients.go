// Package sse fans out post change events to Server-Sent Events subscribers.
package sse

import (
	"sync"
)

// Client receives events on Msg. A client with a non-empty Topic only
// receives events published for that topic.
type Client struct {
	Msg   chan string
	Topic string
}

type SSEClients struct {
	clients map[*Client]bool
	mu      sync.RWMutex
}

func NewSSEClients() *SSEClients {
	return &SSEClients{
		clients: make(map[*Client]bool),
	}
}

func (s *SSEClients) Add(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client] = true
}

func (s *SSEClients) Delete(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients[client] {
		delete(s.clients, client)
		close(client.Msg)
	}
}

func (s *SSEClients) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Broadcast never blocks: clients that are not ready miss the message.
func (s *SSEClients) Broadcast(topic string, msg string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for client := range s.clients {
		if client.Topic != "" && client.Topic != topic {
			continue
		}
		select {
		case client.Msg <- msg:
		default:
		}
	}
}
