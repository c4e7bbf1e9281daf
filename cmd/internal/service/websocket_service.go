package service

import (
	"context"
	"time"

	"simplecms/cmd/internal/contract"
	"simplecms/cmd/internal/domain/entity"
	"simplecms/cmd/internal/domain/events"
	"simplecms/cmd/internal/domain/policy"
	"simplecms/cmd/internal/infrastructure/aws/websocket"
	"simplecms/cmd/internal/utils"
	"simplecms/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

type ConnectionRepository interface {
	Save(ctx context.Context, conn *entity.Connection) error
	Delete(ctx context.Context, connID string) error
	FindByItemID(ctx context.Context, itemID string) ([]string, error)
	FindAll(ctx context.Context) ([]string, error)
	FindStale(ctx context.Context, now, hbLimit int64) ([]*entity.Connection, error)
	UpdateHeartbeat(ctx context.Context, connID string, now int64) error
}

// WebSocketService tracks the connections of the API Gateway websocket and
// pushes change events through it.
type WebSocketService struct {
	ConnRepo ConnectionRepository
	Gateway  websocket.GatewayClient
}

func NewWebSocketService(repo ConnectionRepository, gateway websocket.GatewayClient) *WebSocketService {
	return &WebSocketService{
		ConnRepo: repo,
		Gateway:  gateway,
	}
}

// RegisterConnection stores a new connection. Anonymous listeners get broadcasts only.
func (s *WebSocketService) RegisterConnection(ctx context.Context, auth *policy.Authentication, connectionID string) apierror.ErrorResponse {
	var itemID string
	if auth != nil {
		itemID = auth.ItemID
	}

	now := utils.NowUTC()
	conn := &entity.Connection{
		ConnectionID:    connectionID,
		ItemID:          itemID,
		ExpiresAt:       now + entity.ConnectionMaxAge.Milliseconds(),
		LastHeartbeatAt: now, // Avoid clients getting disconnected immediately
		CreatedAt:       now,
	}

	if err := s.ConnRepo.Save(ctx, conn); err != nil {
		log.Errorf("failed to save connection: %v", err)
		return apierror.InternalServerError
	}
	return nil
}

func (s *WebSocketService) RemoveConnection(ctx context.Context, connectionID string) {
	// Not the client's fault if this fails
	if err := s.ConnRepo.Delete(ctx, connectionID); err != nil {
		log.Warnf("failed to remove connection %s: %v", connectionID, err)
	}
}

func (s *WebSocketService) HandleMessage(ctx context.Context, msg *contract.IncomingSocketMessage, connID string) {
	switch msg.Type {
	case contract.EventPing:
		s.handlePing(ctx, connID)
	}
}

func (s *WebSocketService) Dispatch(ctx context.Context, itemID string, evt events.SocketEvent) {
	conns, err := s.ConnRepo.FindByItemID(ctx, itemID)
	if err != nil {
		log.Errorf("failed to fetch connections for user %s: %v", itemID, err)
		return
	}

	envelope := &contract.OutgoingSocketMessage{
		Type: evt.GetType(),
		Data: evt,
	}

	for _, connID := range conns {
		// Ignore errors so one stale connection doesn't block others
		_ = s.Gateway.PostToConnection(ctx, connID, envelope)
	}
}

// Broadcast sends an event to ALL open connections.
func (s *WebSocketService) Broadcast(ctx context.Context, evt events.SocketEvent) {
	conns, err := s.ConnRepo.FindAll(ctx)
	if err != nil {
		log.Errorf("failed to fetch all connections for broadcast: %v", err)
		return
	}

	envelope := &contract.OutgoingSocketMessage{
		Type: evt.GetType(),
		Data: evt,
	}

	for _, connID := range conns {
		_ = s.Gateway.PostToConnection(ctx, connID, envelope)
	}
}

// Sweep terminates connections past their expiry or with a missed heartbeat.
// It returns how many connections were dropped.
func (s *WebSocketService) Sweep(ctx context.Context) int {
	now := utils.NowUTC()
	hbLimit := now - entity.HeartbeatPeriodMillis - entity.HeartbeatToleranceMillis

	conns, err := s.ConnRepo.FindStale(ctx, now, hbLimit)
	if err != nil {
		log.Errorf("failed to fetch stale connections: %v", err)
		return 0
	}

	envelope := &contract.OutgoingSocketMessage{Type: contract.EventSessionExpired}
	for _, conn := range conns {
		// Tell the client first so it does not try to reconnect on the same session
		_ = s.Gateway.PostToConnection(ctx, conn.ConnectionID, envelope)
		_ = s.Gateway.DeleteConnection(ctx, conn.ConnectionID)
		_ = s.ConnRepo.Delete(ctx, conn.ConnectionID)
	}
	return len(conns)
}

func (s *WebSocketService) handlePing(ctx context.Context, connID string) {
	now := utils.NowUTC()
	if err := s.ConnRepo.UpdateHeartbeat(ctx, connID, now); err != nil {
		log.Errorf("failed to update heartbeat: %v", err)
		return
	}

	go func(conn string) {
		ackCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := s.Gateway.PostToConnection(ackCtx, conn, &contract.OutgoingSocketMessage{
			Type: contract.EventAck,
		})
		if err != nil {
			log.Errorf("failed to post ack to conn %s: %v", conn, err)
		}
	}(connID)
}
