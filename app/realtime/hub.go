// Package realtime pushes full product snapshots to websocket clients and
// accepts catalog commands over the same channel.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/mytheresa/storefront/app/api"
	"github.com/mytheresa/storefront/app/catalog"
	"github.com/mytheresa/storefront/models"
	"github.com/sirupsen/logrus"
)

const (
	EventProducts       = "products"
	EventProductAdded   = "productAdded"
	EventProductDeleted = "productDeleted"
	EventProductError   = "productError"

	EventAddProduct    = "addProduct"
	EventDeleteProduct = "deleteProduct"
)

const (
	sendBuffer     = 16
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 16
)

// Message is one websocket frame in either direction.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type errorData struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

type ProductSource interface {
	GetAllProducts(ctx context.Context) ([]models.Product, error)
}

// Catalog executes the commands clients send over the socket.
type Catalog interface {
	Create(ctx context.Context, in models.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, rawID string) (*models.Product, error)
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected clients. Delivery is at-most-once: a client whose
// buffer is full misses that snapshot.
type Hub struct {
	products ProductSource
	catalog  Catalog
	log      logrus.FieldLogger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewHub builds a hub accepting browser connections from allowedOrigins.
// An empty list only admits same-host pages; "*" admits any origin.
func NewHub(products ProductSource, log logrus.FieldLogger, allowedOrigins []string) *Hub {
	return &Hub{
		products: products,
		log:      log,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
		clients: make(map[*client]struct{}),
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(strings.TrimRight(a, "/"), origin) {
				return true
			}
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}

// SetCatalog attaches the command handler. The catalog service itself
// notifies the hub, so it can only be wired after both exist.
func (h *Hub) SetCatalog(c Catalog) {
	h.catalog = c
}

// ClientCount reports how many sockets are currently registered.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ProductsChanged recomputes the product list and fans it out to every client.
func (h *Hub) ProductsChanged(ctx context.Context) {
	frame, err := h.snapshot(ctx)
	if err != nil {
		h.log.WithError(err).Error("products snapshot failed")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			h.log.Warn("client send buffer full, snapshot dropped")
		}
	}
}

func (h *Hub) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/ws", h.ServeWS).Methods(http.MethodGet)
}

// ServeWS upgrades the request and sends the current snapshot to the new client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).WithField("origin", r.Header.Get("Origin")).Warn("websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if frame, err := h.snapshot(r.Context()); err != nil {
		h.log.WithError(err).Error("products snapshot failed")
	} else {
		c.send <- frame
	}
	h.register(c)

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.WithField("clients", h.ClientCount()).Info("websocket client connected")
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) snapshot(ctx context.Context) ([]byte, error) {
	products, err := h.products.GetAllProducts(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Event: EventProducts, Data: catalog.NewProducts(products)})
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
		h.log.Info("websocket client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).Warn("websocket read failed")
			}
			return
		}
		h.reply(c, h.dispatch(raw))
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// dispatch runs one client command and returns the answer for that client.
func (h *Hub) dispatch(raw []byte) Message {
	var in inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return errorMessage(api.ErrMalformedBody)
	}
	if h.catalog == nil {
		return Message{Event: EventProductError, Data: errorData{Message: "catalog unavailable"}}
	}

	ctx := context.Background()
	switch in.Event {
	case EventAddProduct:
		var input models.ProductInput
		if err := json.Unmarshal(in.Data, &input); err != nil {
			return errorMessage(api.ErrMalformedBody)
		}
		product, err := h.catalog.Create(ctx, input)
		if err != nil {
			return h.failed(err)
		}
		return Message{Event: EventProductAdded, Data: catalog.NewProduct(*product)}
	case EventDeleteProduct:
		product, err := h.catalog.Delete(ctx, deleteTarget(in.Data))
		if err != nil {
			return h.failed(err)
		}
		return Message{Event: EventProductDeleted, Data: catalog.NewProduct(*product)}
	}
	return Message{Event: EventProductError, Data: errorData{Message: "unknown event: " + in.Event}}
}

func (h *Hub) reply(c *client, m Message) {
	frame, err := json.Marshal(m)
	if err != nil {
		h.log.WithError(err).Error("encode websocket reply")
		return
	}
	select {
	case c.send <- frame:
	default:
		h.log.Warn("client send buffer full, reply dropped")
	}
}

func (h *Hub) failed(err error) Message {
	code, _ := api.Classify(err)
	if code == http.StatusInternalServerError {
		h.log.WithError(err).Error("websocket command failed")
	}
	return errorMessage(err)
}

func errorMessage(err error) Message {
	_, env := api.Classify(err)
	return Message{Event: EventProductError, Data: errorData{Message: env.Message, Errors: env.Errors}}
}

// deleteTarget accepts either "<id>" or {"id": "<id>"}.
func deleteTarget(data json.RawMessage) string {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		return id
	}
	var obj struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(data, &obj)
	return obj.ID
}
