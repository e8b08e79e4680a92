package sse

import "testing"

func TestBroadcast(t *testing.T) {
	clients := NewSSEClients()

	all := &Client{Msg: make(chan string, 1)}
	one := &Client{Msg: make(chan string, 1), Topic: "blog_1"}
	other := &Client{Msg: make(chan string, 1), Topic: "blog_2"}
	clients.Add(all)
	clients.Add(one)
	clients.Add(other)

	clients.Broadcast("blog_1", "updated")

	if got := <-all.Msg; got != "updated" {
		t.Errorf("Expected %q, got %q", "updated", got)
	}
	if got := <-one.Msg; got != "updated" {
		t.Errorf("Expected %q, got %q", "updated", got)
	}
	select {
	case msg := <-other.Msg:
		t.Errorf("Expected no message for another topic, got %q", msg)
	default:
	}
}

func TestBroadcastDoesNotBlock(t *testing.T) {
	clients := NewSSEClients()
	slow := &Client{Msg: make(chan string)}
	clients.Add(slow)

	clients.Broadcast("", "first")
	clients.Broadcast("", "second")
}

func TestDelete(t *testing.T) {
	clients := NewSSEClients()
	c := &Client{Msg: make(chan string)}
	clients.Add(c)

	clients.Delete(c)
	clients.Delete(c)

	if clients.Len() != 0 {
		t.Errorf("Expected no clients, got %d", clients.Len())
	}
	if _, open := <-c.Msg; open {
		t.Error("Expected channel to be closed")
	}
}
