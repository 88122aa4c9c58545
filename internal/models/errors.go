package models

import "errors"

var (
	ErrInvalidIdentity  = errors.New("display name is required")
	ErrUnauthenticated  = errors.New("not authenticated")
	ErrInvalidRoom      = errors.New("invalid room name")
	ErrInvalidReaction  = errors.New("reaction symbol is required")
	ErrUnknownFrame     = errors.New("unknown frame type")
	ErrSlowConsumer     = errors.New("send buffer full")
	ErrConnectionClosed = errors.New("connection is closed")
)
