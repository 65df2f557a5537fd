package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/wagate/internal/store"
	"github.com/dmitrymomot/wagate/internal/transport"
	"github.com/dmitrymomot/wagate/pkg/logger"
	"github.com/dmitrymomot/wagate/pkg/qrcode"
	"github.com/dmitrymomot/wagate/pkg/statemachine"
)

// Manager owns the registry of live sessions and bridges transport events
// into the session store.
type Manager struct {
	store     store.Store
	factory   transport.ClientFactory
	fetcher   transport.MediaFetcher
	forwarder Forwarder

	sessionDir   string
	writeTimeout time.Duration
	qrSize       int
	log          *slog.Logger
	now          func() time.Time

	mu      sync.RWMutex
	handles map[string]*Handle
	closed  bool

	// Store writes for one session run in order; tails holds the latest
	// pending write per session.
	writeMu sync.Mutex
	tails   map[string]chan struct{}
	writes  sync.WaitGroup
}

// NewManager creates a Manager with an empty registry.
func NewManager(st store.Store, factory transport.ClientFactory, opts ...Option) (*Manager, error) {
	if st == nil {
		return nil, ErrNilStore
	}
	if factory == nil {
		return nil, ErrNilFactory
	}

	m := &Manager{
		store:        st,
		factory:      factory,
		sessionDir:   "./.wwebjs_auth",
		writeTimeout: 10 * time.Second,
		qrSize:       256,
		log:          logger.Noop(),
		now:          time.Now,
		handles:      make(map[string]*Handle),
		tails:        make(map[string]chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With(logger.Component("gateway"))
	return m, nil
}

// InitSession returns the live handle for id, creating and connecting a
// client when there is none. It does not wait for the connection.
func (m *Manager) InitSession(ctx context.Context, id string) (*Handle, error) {
	if !sessionIDPattern.MatchString(id) {
		return nil, ErrInvalidSessionID
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrShuttingDown
	}
	if h, ok := m.handles[id]; ok {
		m.mu.Unlock()
		return h, nil
	}
	h := newHandle(id)
	m.handles[id] = h
	m.mu.Unlock()

	log := m.log.With(logger.SessionID(id))

	client, err := m.newClient(ctx, h)
	if err != nil {
		m.evict(h)
		log.ErrorContext(ctx, "failed to create session client", logger.Error(err))
		return nil, err
	}
	h.setClient(client)

	if h.isDetached() {
		// Logged out or shut down while the client was being built.
		client.Disconnect()
		if m.isClosed() {
			return nil, ErrShuttingDown
		}
		return nil, ErrClosed
	}
	if err := m.write(ctx, id, store.StatusPatch(store.StatusInitializing)); err != nil {
		m.evict(h)
		client.Disconnect()
		return nil, err
	}

	go func() {
		if h.isDetached() {
			return
		}
		if err := client.Connect(context.WithoutCancel(ctx)); err != nil {
			log.Error("session connect failed", logger.Error(err))
			m.handleEvent(h, transport.Event{Kind: transport.EventDisconnected, Reason: err.Error()})
		}
	}()

	log.InfoContext(ctx, "session initializing")
	return h, nil
}

func (m *Manager) newClient(ctx context.Context, h *Handle) (transport.Client, error) {
	dir := filepath.Join(m.sessionDir, h.id)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Join(ErrTransport, fmt.Errorf("create session directory: %w", err))
	}
	client, err := m.factory.New(ctx, h.id, dir, func(ev transport.Event) {
		m.handleEvent(h, ev)
	})
	if err != nil {
		return nil, errors.Join(ErrTransport, err)
	}
	return client, nil
}

// Client returns the live handle for id or nil. It never creates one.
func (m *Manager) Client(id string) *Handle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.handles[id]
}

// Sessions lists the IDs of live handles in sorted order.
func (m *Manager) Sessions() []string {
	m.mu.RLock()
	ids := make([]string, 0, len(m.handles))
	for id := range m.handles {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

// Logout logs the session out at the provider, tears the client down and
// records status disconnected. Sessions without a live client are only
// marked disconnected. Provider errors are logged, not returned.
func (m *Manager) Logout(ctx context.Context, id string) error {
	if !sessionIDPattern.MatchString(id) {
		return ErrInvalidSessionID
	}
	log := m.log.With(logger.SessionID(id))

	if h := m.Client(id); h != nil && m.evict(h) {
		if client := h.Client(); client != nil {
			if err := client.Logout(ctx); err != nil {
				log.WarnContext(ctx, "provider logout failed", logger.Error(err))
			}
			client.Disconnect()
		}
	}

	if err := m.write(ctx, id, store.StatusPatch(store.StatusDisconnected)); err != nil {
		return err
	}
	log.InfoContext(ctx, "session logged out")
	return nil
}

// SendMessage sends payload from session id to the recipient and returns
// the provider message ID.
func (m *Manager) SendMessage(ctx context.Context, id, to string, p Payload) (string, error) {
	h := m.Client(id)
	if h == nil || !h.Ready() {
		return "", ErrNotReady
	}
	client := h.Client()
	if client == nil {
		return "", ErrNotReady
	}
	to = NormalizeRecipient(to)

	var (
		msgID string
		err   error
	)
	switch p.Type {
	case TypeText:
		msgID, err = client.SendText(ctx, to, p.Message)
	case TypeImage:
		var media *transport.Media
		if media, err = m.fetch(ctx, p.URL); err != nil {
			return "", err
		}
		msgID, err = client.SendImage(ctx, to, *media, p.Caption)
	case TypeDocument:
		var media *transport.Media
		if media, err = m.fetch(ctx, p.URL); err != nil {
			return "", err
		}
		if media.FileName == "" {
			media.FileName = fileNameFromURL(p.URL)
		}
		msgID, err = client.SendDocument(ctx, to, *media)
	case TypeButtons:
		msgID, err = client.SendButtons(ctx, to, transport.ButtonsMessage{
			Body:    p.Message,
			Title:   p.Title,
			Footer:  p.Footer,
			Buttons: slices.Clone(p.Buttons),
		})
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, p.Type)
	}
	if err != nil {
		return "", errors.Join(ErrTransport, err)
	}

	m.log.DebugContext(ctx, "message sent",
		logger.SessionID(id),
		logger.MessageID(msgID),
		slog.String("type", string(p.Type)),
	)
	return msgID, nil
}

func (m *Manager) fetch(ctx context.Context, rawURL string) (*transport.Media, error) {
	if m.fetcher == nil {
		return nil, errors.Join(ErrTransport, ErrNoMediaFetcher)
	}
	media, err := m.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, errors.Join(ErrTransport, err)
	}
	return media, nil
}

func (m *Manager) isClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// Shutdown disconnects every live client without logging out, empties the
// registry and waits for pending store writes until ctx is done.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	handles := make([]*Handle, 0, len(m.handles))
	for _, h := range m.handles {
		handles = append(handles, h)
	}
	clear(m.handles)
	m.mu.Unlock()

	for _, h := range handles {
		if !h.detach() {
			continue
		}
		if client := h.Client(); client != nil {
			client.Disconnect()
		}
	}

	done := make(chan struct{})
	go func() {
		m.writes.Wait()
		close(done)
	}()
	select {
	case <-done:
		m.log.InfoContext(ctx, "session manager stopped", slog.Int("sessions", len(handles)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) handleEvent(h *Handle, ev transport.Event) {
	log := m.log.With(logger.SessionID(h.id), logger.Event(ev.Kind.String()))

	if ev.Kind == transport.EventMessage {
		if ev.Message != nil && m.forwarder != nil {
			m.forwarder.Forward(h.id, *ev.Message)
		}
		return
	}
	if h.isDetached() {
		log.Debug("ignoring event for detached session")
		return
	}

	var patch store.Patch
	switch ev.Kind {
	case transport.EventQR:
		uri, err := qrcode.DataURI(ev.QRCode, m.qrSize)
		if err != nil {
			log.Error("failed to render pairing code", logger.Error(err))
			return
		}
		patch = store.QRPatch(uri)
	case transport.EventReady:
		var identity string
		if client := h.Client(); client != nil {
			identity = client.Identity()
		}
		patch = store.ReadyPatch(m.now(), identity)
	case transport.EventAuthFailure:
		patch = store.StatusPatch(store.StatusAuthFailure)
	case transport.EventDisconnected:
		patch = store.StatusPatch(store.StatusDisconnected)
	default:
		log.Warn("unknown transport event")
		return
	}

	from := h.Status()
	if err := h.apply(context.Background(), ev.Kind); err != nil {
		if statemachine.IsTransitionRejectedError(err) {
			log.Debug("ignoring event for detached session")
			return
		}
		log.Warn("undeclared session transition",
			slog.String("from", from.String()),
			logger.Error(err),
		)
	}

	if ev.Kind == transport.EventAuthFailure || ev.Kind == transport.EventDisconnected {
		if m.evict(h) {
			if client := h.Client(); client != nil {
				// Release provider resources off the event goroutine.
				go client.Disconnect()
			}
		}
		log.Info("session ended", slog.String("reason", ev.Reason))
	} else {
		log.Info("session status changed")
	}

	m.persist(h.id, patch)
}

// evict removes h from the registry if it is still the registered handle
// and marks it detached. It reports whether this call detached it.
func (m *Manager) evict(h *Handle) bool {
	m.mu.Lock()
	if cur, ok := m.handles[h.id]; ok && cur == h {
		delete(m.handles, h.id)
	}
	m.mu.Unlock()
	return h.detach()
}

// persist queues p behind earlier writes for the same session and returns
// a channel receiving the write result. The write runs on a detached
// context bounded by the store write timeout.
func (m *Manager) persist(id string, p store.Patch) <-chan error {
	result := make(chan error, 1)
	done := make(chan struct{})

	m.writeMu.Lock()
	prev := m.tails[id]
	m.tails[id] = done
	m.writes.Add(1)
	m.writeMu.Unlock()

	go func() {
		defer m.writes.Done()
		defer func() {
			m.writeMu.Lock()
			if m.tails[id] == done {
				delete(m.tails, id)
			}
			m.writeMu.Unlock()
			close(done)
		}()

		if prev != nil {
			<-prev
		}
		ctx, cancel := context.WithTimeout(context.Background(), m.writeTimeout)
		defer cancel()

		err := m.store.Update(ctx, id, p)
		if err != nil {
			m.log.Error("failed to persist session state", logger.SessionID(id), logger.Error(err))
		}
		result <- err
	}()
	return result
}

// write is persist for callers that need the result.
func (m *Manager) write(ctx context.Context, id string, p store.Patch) error {
	select {
	case err := <-m.persist(id, p):
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func fileNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "document"
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || strings.HasSuffix(u.Path, "/") {
		return "document"
	}
	return name
}
