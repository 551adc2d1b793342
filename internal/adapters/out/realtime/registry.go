package realtime

import (
	"log/slog"
	"sync"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/metrics"
)

var (
	ErrConnectionIsRequired = errs.NewValueIsRequiredError("connection")
	ErrStoreIDIsRequired    = errs.NewValueIsRequiredError("store_id")
)

// Registry maps stores to their live connections and connections back to the
// stores they joined. All methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	metrics *metrics.Metrics

	stores      map[kernel.UUID]map[*Connection]struct{}
	connections map[*Connection]map[kernel.UUID]struct{}
}

func NewRegistry(logger *slog.Logger, m *metrics.Metrics) *Registry {
	return &Registry{
		logger:      logger.With("component", "store_channel_registry"),
		metrics:     m,
		stores:      make(map[kernel.UUID]map[*Connection]struct{}),
		connections: make(map[*Connection]map[kernel.UUID]struct{}),
	}
}

// Join adds conn to the store's membership. Joining twice is a no-op. A
// closed connection is rejected so that it never reappears after Disconnect.
func (r *Registry) Join(conn *Connection, storeID kernel.UUID) error {
	if conn == nil {
		return ErrConnectionIsRequired
	}
	if err := storeID.Validate(); err != nil {
		return ErrStoreIDIsRequired
	}
	if conn.IsClosed() {
		return errs.NewValueIsInvalidError("connection")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.stores[storeID]
	if !ok {
		members = make(map[*Connection]struct{})
		r.stores[storeID] = members
	}
	members[conn] = struct{}{}

	joined, ok := r.connections[conn]
	if !ok {
		joined = make(map[kernel.UUID]struct{})
		r.connections[conn] = joined
		r.metrics.SubscribedConnections.Inc()
	}
	joined[storeID] = struct{}{}

	r.logger.Debug("connection joined store", "connection_id", conn.ID().String(), "store_id", storeID.String())
	return nil
}

// Leave removes conn from one store. Unknown pairs are ignored.
func (r *Registry) Leave(conn *Connection, storeID kernel.UUID) {
	if conn == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeLocked(conn, storeID)
}

// Disconnect removes conn from every store it joined.
func (r *Registry) Disconnect(conn *Connection) {
	if conn == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.disconnectLocked(conn)
}

// Members returns a snapshot of the store's connections.
func (r *Registry) Members(storeID kernel.UUID) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.stores[storeID]
	snapshot := make([]*Connection, 0, len(members))
	for conn := range members {
		snapshot = append(snapshot, conn)
	}
	return snapshot
}

// Stores returns the stores conn currently belongs to.
func (r *Registry) Stores(conn *Connection) []kernel.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	joined := r.connections[conn]
	ids := make([]kernel.UUID, 0, len(joined))
	for id := range joined {
		ids = append(ids, id)
	}
	return ids
}

// Sweep drops every closed connection and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for conn := range r.connections {
		if conn.IsClosed() {
			r.disconnectLocked(conn)
			removed++
		}
	}
	if removed > 0 {
		r.metrics.PrunedConnections.Add(float64(removed))
	}
	return removed
}

// fanout calls deliver for each member of the store while holding the write
// lock, so fan-outs to one store never interleave. Members for which deliver
// returns closed are disconnected.
func (r *Registry) fanout(storeID kernel.UUID, deliver func(*Connection) sendResult) (delivered, droppedCount, pruned int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for conn := range r.stores[storeID] {
		switch deliver(conn) {
		case sent:
			delivered++
		case dropped:
			droppedCount++
		case closed:
			r.disconnectLocked(conn)
			pruned++
		}
	}
	return delivered, droppedCount, pruned
}

func (r *Registry) removeLocked(conn *Connection, storeID kernel.UUID) {
	if members, ok := r.stores[storeID]; ok {
		delete(members, conn)
		if len(members) == 0 {
			delete(r.stores, storeID)
		}
	}

	joined, ok := r.connections[conn]
	if !ok {
		return
	}
	delete(joined, storeID)
	if len(joined) == 0 {
		delete(r.connections, conn)
		r.metrics.SubscribedConnections.Dec()
	}
}

func (r *Registry) disconnectLocked(conn *Connection) {
	for storeID := range r.connections[conn] {
		r.removeLocked(conn, storeID)
	}
}
