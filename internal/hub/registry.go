package hub

// Entry associates one live connection with its authenticated user and the
// set of room ids it subscribed to. Entries are ephemeral: they exist only
// between a successful authenticated connect and the disconnect.
type Entry struct {
	Client *Client
	UserID uint
	Rooms  map[uint]struct{}
}

// Subscribe adds a room to the subscription set. Duplicate subscribes are a
// no-op set-union, not an error.
func (e *Entry) Subscribe(roomID uint) {
	e.Rooms[roomID] = struct{}{}
}

// Unsubscribe removes a room from the set; removing a non-member is a no-op.
func (e *Entry) Unsubscribe(roomID uint) {
	delete(e.Rooms, roomID)
}

// Subscribed reports whether the entry's set contains roomID.
func (e *Entry) Subscribed(roomID uint) bool {
	_, ok := e.Rooms[roomID]
	return ok
}

// Registry is the in-memory table of live connections. All mutation happens
// on the hub's single event loop, so it carries no lock; ForEach iterates a
// snapshot so callbacks may remove entries mid-iteration.
type Registry struct {
	entries map[*Client]*Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[*Client]*Entry)}
}

// Add inserts an entry for the client. Adding an already-registered client
// returns the existing entry unchanged.
func (r *Registry) Add(client *Client, userID uint) *Entry {
	if entry, ok := r.entries[client]; ok {
		return entry
	}
	entry := &Entry{
		Client: client,
		UserID: userID,
		Rooms:  make(map[uint]struct{}),
	}
	r.entries[client] = entry
	return entry
}

// Remove deletes the client's entry and reports whether one existed, so the
// caller can run disconnect cleanup exactly once.
func (r *Registry) Remove(client *Client) bool {
	if _, ok := r.entries[client]; !ok {
		return false
	}
	delete(r.entries, client)
	return true
}

// Get returns the client's entry, or nil if it was never registered.
func (r *Registry) Get(client *Client) *Entry {
	return r.entries[client]
}

// Find returns the first entry matching pred, or nil.
func (r *Registry) Find(pred func(*Entry) bool) *Entry {
	for _, entry := range r.entries {
		if pred(entry) {
			return entry
		}
	}
	return nil
}

// ForEach calls fn for every entry. It iterates over a snapshot taken up
// front, so fn may call Remove without invalidating the iteration.
func (r *Registry) ForEach(fn func(*Entry)) {
	snapshot := make([]*Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		snapshot = append(snapshot, entry)
	}
	for _, entry := range snapshot {
		fn(entry)
	}
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	return len(r.entries)
}
