package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/sinistros-backend/internal/goroutine"
	"github.com/ignatzorin/sinistros-backend/internal/logger"
)

// Hub управляет подписчиками хронологии синистров.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	ctx        context.Context
}

type message struct {
	claimID uuid.UUID
	payload []byte
}

// NewHub создаёт новый хаб.
func NewHub(ctx context.Context) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 32),
		ctx:        ctx,
	}
}

// Run запускает главный цикл хаба до отмены контекста.
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.claimID, msg.payload)
		}
	}
}

// Register добавляет клиента.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// Publish отправляет событие всем подписчикам синистра.
// Сообщение: {"type": event, "data": data}.
func (h *Hub) Publish(claimID uuid.UUID, event string, data any) error {
	raw, err := json.Marshal(map[string]any{
		"type": event,
		"data": data,
	})
	if err != nil {
		return fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}

	select {
	case h.broadcast <- message{claimID: claimID, payload: raw}:
	case <-h.ctx.Done():
	}
	return nil
}

// Subscribers возвращает число подписчиков синистра.
func (h *Hub) Subscribers(claimID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[claimID])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.claimID]; !ok {
		h.clients[client.claimID] = make(map[*Client]struct{})
	}
	h.clients[client.claimID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.claimID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, client.claimID)
		}
	}
}

func (h *Hub) send(claimID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[claimID] {
		select {
		case client.send <- payload:
		default:
			// медленный клиент
			c := client
			goroutine.SafeGo(c.Close)
			logger.WithComponent("ws").WithField("claim_id", claimID).Warn("подписчик не успевает, соединение закрыто")
		}
	}
}
