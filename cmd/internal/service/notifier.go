package service

import (
	"context"

	"simplecms/cmd/internal/domain/events"
)

// ChangeNotifier fans content changes out to realtime listeners.
type ChangeNotifier interface {
	// Broadcast sends evt to every open connection.
	Broadcast(ctx context.Context, evt events.SocketEvent)

	// Dispatch sends evt only to the connections of the user itemID.
	Dispatch(ctx context.Context, itemID string, evt events.SocketEvent)
}

// NoopNotifier is used when no realtime gateway is configured.
type NoopNotifier struct{}

func (NoopNotifier) Broadcast(context.Context, events.SocketEvent) {}

func (NoopNotifier) Dispatch(context.Context, string, events.SocketEvent) {}
