package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/videoflow/server/internal/module/video"
)

// Server event names.
const (
	EventUserTyping = "user-typing"
)

// VideoDirectory resolves videos within a team; joining a room requires the
// video to be visible to the session's team.
type VideoDirectory interface {
	Get(ctx context.Context, teamID uuid.UUID, id uuid.UUID) (*video.Video, error)
}

// Bridge carries room events between instances. The local instance receives
// its own publishes back through the subscription, so emitting locally is
// the bridge's job, not the publisher's.
type Bridge interface {
	Publish(ctx context.Context, videoID uuid.UUID, data []byte) error
}

// MetricsRecorder records realtime metrics.
type MetricsRecorder interface {
	RecordBroadcast(event string)
	RoomJoined()
	RoomLeft()
}

// Envelope is the wire form of a room event, both on the websocket and on
// the redis bridge.
type Envelope struct {
	Event   string     `json:"event"`
	Payload any        `json:"payload,omitempty"`
	Exclude *uuid.UUID `json:"exclude,omitempty"`
}

// Hub tracks websocket sessions and their room memberships on this
// instance. Room state is process-local; cross-instance delivery goes
// through the bridge.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*Session]struct{}
	joins map[*Session]map[uuid.UUID]struct{}

	videos  VideoDirectory
	bridge  Bridge
	metrics MetricsRecorder
	logger  *zap.Logger
}

// NewHub creates a hub. A nil bridge short-circuits publishes to the local
// instance, which is the single-instance and test configuration.
func NewHub(videos VideoDirectory, bridge Bridge, metrics MetricsRecorder, logger *zap.Logger) *Hub {
	return &Hub{
		rooms:   make(map[uuid.UUID]map[*Session]struct{}),
		joins:   make(map[*Session]map[uuid.UUID]struct{}),
		videos:  videos,
		bridge:  bridge,
		metrics: metrics,
		logger:  logger,
	}
}

// Register adds a connected session to the hub.
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.joins[s] = make(map[uuid.UUID]struct{})
}

// Unregister removes a session from the hub and from every room it joined.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for videoID := range h.joins[s] {
		h.leaveLocked(s, videoID)
	}
	delete(h.joins, s)
	close(s.send)
}

// JoinRoom adds the session to a video's room after checking the video is
// in the session's team.
func (h *Hub) JoinRoom(ctx context.Context, s *Session, videoID uuid.UUID) error {
	if _, err := h.videos.Get(ctx, s.TeamID, videoID); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	joined, ok := h.joins[s]
	if !ok {
		return nil // session already gone
	}
	if _, already := joined[videoID]; already {
		return nil
	}

	if h.rooms[videoID] == nil {
		h.rooms[videoID] = make(map[*Session]struct{})
	}
	h.rooms[videoID][s] = struct{}{}
	joined[videoID] = struct{}{}
	h.metrics.RoomJoined()

	return nil
}

// LeaveRoom removes the session from a video's room.
func (h *Hub) LeaveRoom(s *Session, videoID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if joined, ok := h.joins[s]; ok {
		if _, in := joined[videoID]; in {
			delete(joined, videoID)
			h.leaveLocked(s, videoID)
		}
	}
}

func (h *Hub) leaveLocked(s *Session, videoID uuid.UUID) {
	room, ok := h.rooms[videoID]
	if !ok {
		return
	}
	if _, in := room[s]; !in {
		return
	}
	delete(room, s)
	if len(room) == 0 {
		delete(h.rooms, videoID)
	}
	h.metrics.RoomLeft()
}

// BroadcastToRoom sends an event to every session in a video's room, on
// every instance.
func (h *Hub) BroadcastToRoom(videoID uuid.UUID, event string, payload any) {
	h.publish(videoID, &Envelope{Event: event, Payload: payload})
}

// Typing relays a typing-state change to the room, excluding the sender.
// isTyping is false when the user stops typing.
func (h *Hub) Typing(s *Session, videoID uuid.UUID, isTyping bool) {
	h.mu.RLock()
	_, joined := h.joins[s][videoID]
	h.mu.RUnlock()
	if !joined {
		return
	}

	h.publish(videoID, &Envelope{
		Event: EventUserTyping,
		Payload: map[string]any{
			"user_id":   s.UserID,
			"user_name": s.UserName,
			"video_id":  videoID,
			"is_typing": isTyping,
		},
		Exclude: &s.UserID,
	})
}

func (h *Hub) publish(videoID uuid.UUID, env *Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("marshaling room event failed", zap.Error(err))
		return
	}

	h.metrics.RecordBroadcast(env.Event)

	if h.bridge == nil {
		h.Receive(videoID, data)
		return
	}

	if err := h.bridge.Publish(context.Background(), videoID, data); err != nil {
		h.logger.Warn("bridge publish failed, delivering locally",
			zap.String("video_id", videoID.String()),
			zap.Error(err),
		)
		h.Receive(videoID, data)
	}
}

// Receive delivers a bridged room event to this instance's local members.
// It is the redis subscriber's callback.
func (h *Hub) Receive(videoID uuid.UUID, data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		h.logger.Warn("dropping malformed room event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.rooms[videoID] {
		if env.Exclude != nil && s.UserID == *env.Exclude {
			continue
		}
		if !s.queue(data) {
			h.logger.Warn("dropping room event for slow session",
				zap.String("session_id", s.ID.String()),
			)
		}
	}
}

// RoomSize reports the number of local sessions in a room.
func (h *Hub) RoomSize(videoID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[videoID])
}
