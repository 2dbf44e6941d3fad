package websocket

import "github.com/rs/zerolog/log"

// targetedMessage is a message addressed to every client of one username.
type targetedMessage struct {
	username string
	message  []byte
}

// Hub maintains the set of active clients and broadcasts messages to them.
// The client set and the subscription index are owned exclusively by the Run
// goroutine; registration, broadcasts and targeted sends all travel through
// channels, so Run must be started before the hub is used.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound messages from the clients for global broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Messages addressed to a single username's clients.
	targeted chan targetedMessage

	// A map of usernames to the set of clients logged in as that user.
	subscriptions map[string]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:     make(chan []byte),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		targeted:      make(chan targetedMessage),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
			if client.Username != "" {
				h.addSubscription(client, client.Username)
			}
		case client := <-h.Unregister:
			if h.clients[client] {
				h.drop(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				h.send(client, message)
			}
		case t := <-h.targeted:
			for client := range h.subscriptions[t.username] {
				h.send(client, t.message)
			}
		}
	}
}

// BroadcastTo sends a message to all clients logged in as username. Safe to
// call from any goroutine; delivery happens on the Run loop.
func (h *Hub) BroadcastTo(username string, message []byte) {
	h.targeted <- targetedMessage{username: username, message: message}
}

// send queues a message for one client, dropping the client if its buffer is
// full. Run-loop only.
func (h *Hub) send(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		h.drop(client)
	}
}

// drop removes a client from all state and closes its channel exactly once.
// Run-loop only.
func (h *Hub) drop(client *Client) {
	if !h.clients[client] {
		return
	}
	delete(h.clients, client)
	close(client.Send)
	h.removeSubscription(client)
}

func (h *Hub) addSubscription(client *Client, username string) {
	if h.subscriptions[username] == nil {
		h.subscriptions[username] = make(map[*Client]bool)
	}
	h.subscriptions[username][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	for username, subs := range h.subscriptions {
		if subs[client] {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscriptions, username)
			}
		}
	}
}
