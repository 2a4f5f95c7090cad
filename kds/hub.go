package kds

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type Options struct {
	// WriteWait bounds a single frame write to one session.
	WriteWait time.Duration
	// PongWait is how long a session may stay silent before it is dropped.
	// Zero disables read deadlines.
	PongWait time.Duration
	// SendBuffer is the number of events queued per session before it is
	// considered too slow and dropped.
	SendBuffer int
	// PublishTimeout bounds a relay publish.
	PublishTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		SendBuffer:     64,
		PublishTimeout: 5 * time.Second,
	}
}

// Hub groups dashboard sessions by topic and fans published events out to them.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[*Session]struct{}

	relay Relay
	opts  Options
	log   logrus.FieldLogger
}

// NewHub builds a hub. relay may be nil for single-process delivery.
func NewHub(relay Relay, opts Options, logger logrus.FieldLogger) *Hub {
	defaults := DefaultOptions()
	if opts.WriteWait <= 0 {
		opts.WriteWait = defaults.WriteWait
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = defaults.SendBuffer
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = defaults.PublishTimeout
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		groups: make(map[string]map[*Session]struct{}),
		relay:  relay,
		opts:   opts,
		log:    logger.WithField("component", "kds"),
	}
}

func (h *Hub) Options() Options {
	return h.opts
}

// Run consumes the relay until ctx is done. Without a relay it just waits.
func (h *Hub) Run(ctx context.Context) error {
	if h.relay == nil {
		<-ctx.Done()
		return nil
	}
	err := h.relay.Subscribe(ctx, h.deliver)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Join registers a session under group.
func (h *Hub) Join(group string, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[group]
	if !ok {
		members = make(map[*Session]struct{})
		h.groups[group] = members
	}
	members[s] = struct{}{}
	h.log.WithFields(logrus.Fields{"session": s.ID, "role": s.Role, "group": group}).Debug("session joined")
}

// Leave deregisters a session. Leaving a group the session never joined is a no-op.
func (h *Hub) Leave(group string, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[group]
	if !ok {
		return
	}
	if _, joined := members[s]; !joined {
		return
	}
	delete(members, s)
	if len(members) == 0 {
		delete(h.groups, group)
	}
	h.log.WithFields(logrus.Fields{"session": s.ID, "group": group}).Debug("session left")
}

// Count returns the number of sessions currently joined to group.
func (h *Hub) Count(group string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[group])
}

// Publish serialises msg and hands it to every session in group, through the
// relay when one is configured. It never blocks on sessions and never fails
// the caller. If the relay rejects the event it is delivered in-process.
func (h *Hub) Publish(group string, msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).WithField("type", msg.Type).Error("marshal event")
		return
	}

	if h.relay == nil {
		h.deliver(group, payload)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.opts.PublishTimeout)
	defer cancel()
	if err := h.relay.Publish(ctx, group, payload); err != nil {
		// other processes miss this event, but local sessions still get it
		h.log.WithError(err).WithField("type", msg.Type).Error("relay publish failed, delivering locally")
		h.deliver(group, payload)
	}
}

func (h *Hub) deliver(group string, payload []byte) {
	var slow []*Session

	h.mu.RLock()
	for s := range h.groups[group] {
		if !s.enqueue(payload) {
			slow = append(slow, s)
		}
	}
	delivered := len(h.groups[group]) - len(slow)
	h.mu.RUnlock()

	h.log.WithFields(logrus.Fields{"group": group, "sessions": delivered}).Debug("event delivered")

	for _, s := range slow {
		h.log.WithField("session", s.ID).Warn("send buffer full, dropping session")
		h.drop(s)
	}
}

// Serve joins s to group and pumps it until the connection ends. Inbound
// messages are read for liveness and discarded.
func (h *Hub) Serve(group string, s *Session) {
	h.Join(group, s)
	defer h.Leave(group, s)
	defer s.Close()

	go h.writePump(s)
	h.readPump(s)
}

func (h *Hub) readPump(s *Session) {
	if h.opts.PongWait > 0 {
		s.conn.SetReadDeadline(time.Now().Add(h.opts.PongWait))
		s.conn.SetPongHandler(func(string) error {
			return s.conn.SetReadDeadline(time.Now().Add(h.opts.PongWait))
		})
	}

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).WithField("session", s.ID).Debug("session read ended")
			}
			return
		}
	}
}

func (h *Hub) writePump(s *Session) {
	for {
		select {
		case payload := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(h.opts.WriteWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.log.WithError(err).WithField("session", s.ID).Debug("session write failed")
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

// Ping sends a control ping to every joined session and drops the ones
// that cannot be written to. Control frames may be written concurrently
// with the write pump.
func (h *Hub) Ping() {
	h.mu.RLock()
	var sessions []*Session
	for _, members := range h.groups {
		for s := range members {
			sessions = append(sessions, s)
		}
	}
	h.mu.RUnlock()

	deadline := time.Now().Add(h.opts.WriteWait)
	for _, s := range sessions {
		if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
			h.log.WithError(err).WithField("session", s.ID).Debug("ping failed")
			h.drop(s)
		}
	}
}

func (h *Hub) drop(s *Session) {
	h.mu.Lock()
	for group, members := range h.groups {
		delete(members, s)
		if len(members) == 0 {
			delete(h.groups, group)
		}
	}
	h.mu.Unlock()
	s.Close()
}

// Shutdown closes every session and the relay.
func (h *Hub) Shutdown() error {
	h.mu.Lock()
	var sessions []*Session
	for _, members := range h.groups {
		for s := range members {
			sessions = append(sessions, s)
		}
	}
	h.groups = make(map[string]map[*Session]struct{})
	h.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	if h.relay != nil {
		return h.relay.Close()
	}
	return nil
}
