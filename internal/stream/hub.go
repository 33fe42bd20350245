package stream

import (
	"encoding/json"
	"log"
	"sync"

	"backend-howmanybeds/internal/store"
)

// Hub fans collection snapshots out to websocket clients. It holds one
// store subscription per collection with at least one client; the first
// Register opens it and the last Unregister cancels it.
type Hub struct {
	store *store.Store

	mu      sync.Mutex
	clients map[string]map[*Client]struct{}
	cancels map[string]func()
	last    map[string][]byte
}

type Client struct {
	Collection string
	Send       chan []byte
}

func NewHub(st *store.Store) *Hub {
	return &Hub{
		store:   st,
		clients: map[string]map[*Client]struct{}{},
		cancels: map[string]func(){},
		last:    map[string][]byte{},
	}
}

// Register attaches a client to a collection. The client receives the
// current snapshot right away and a fresh one after every write.
func (h *Hub) Register(collection string) (*Client, error) {
	client := &Client{
		Collection: collection,
		Send:       make(chan []byte, 64),
	}

	h.mu.Lock()
	first := h.clients[collection] == nil
	if first {
		h.clients[collection] = map[*Client]struct{}{}
	}
	h.clients[collection][client] = struct{}{}
	if last, ok := h.last[collection]; ok {
		client.Send <- last
	}
	h.mu.Unlock()

	if !first {
		return client, nil
	}

	cancel, err := h.store.Subscribe(collection, func(records []store.Record) {
		payload, err := json.Marshal(records)
		if err != nil {
			log.Printf("stream: marshal %s snapshot: %v", collection, err)
			return
		}
		h.broadcast(collection, payload)
	})
	if err != nil {
		h.Unregister(client)
		return nil, err
	}

	h.mu.Lock()
	if h.clients[collection] == nil {
		// Every client left while the subscription was being opened.
		h.mu.Unlock()
		cancel()
		return nil, nil
	}
	h.cancels[collection] = cancel
	h.mu.Unlock()
	return client, nil
}

// Unregister detaches a client; the collection's store subscription is
// released when no clients remain.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	var cancel func()
	if collectionClients, ok := h.clients[client.Collection]; ok {
		delete(collectionClients, client)
		if len(collectionClients) == 0 {
			delete(h.clients, client.Collection)
			delete(h.last, client.Collection)
			cancel = h.cancels[client.Collection]
			delete(h.cancels, client.Collection)
		}
	}
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	close(client.Send)
}

func (h *Hub) broadcast(collection string, payload []byte) {
	h.mu.Lock()
	h.last[collection] = payload
	clients := make([]*Client, 0, len(h.clients[collection]))
	for client := range h.clients[collection] {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}
