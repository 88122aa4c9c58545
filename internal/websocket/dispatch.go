package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/adi-253/chathub/internal/models"
)

// handle decodes one inbound frame, runs it against the hub and answers request frames with an ack.
func (c *Client) handle(ctx context.Context, raw []byte) {
	var frame models.Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.reply(models.Event{Type: models.EventError, Payload: models.ErrorPayload{Error: "malformed frame"}})
		return
	}

	switch frame.Type {
	case models.FrameAuthenticate:
		c.ack(frame, func() (models.Ack, error) {
			req, err := decode[models.AuthenticateRequest](frame)
			if err != nil {
				return models.Ack{}, err
			}
			p, err := c.hub.Authenticate(ctx, c.ID, req)
			return models.Ack{SessionID: p.ID}, err
		})

	case models.FrameJoinRoom:
		c.ack(frame, func() (models.Ack, error) {
			req, err := decode[models.RoomRequest](frame)
			if err != nil {
				return models.Ack{}, err
			}
			return models.Ack{}, c.hub.JoinRoom(c.ID, req)
		})

	case models.FrameLeaveRoom:
		c.ack(frame, func() (models.Ack, error) {
			req, err := decode[models.RoomRequest](frame)
			if err != nil {
				return models.Ack{}, err
			}
			return models.Ack{}, c.hub.LeaveRoom(c.ID, req)
		})

	case models.FrameSendMessage:
		c.ack(frame, func() (models.Ack, error) {
			req, err := decode[models.SendMessageRequest](frame)
			if err != nil {
				return models.Ack{}, err
			}
			receipt, err := c.hub.SendMessage(c.ID, req)
			if err != nil {
				return models.Ack{}, err
			}
			return models.Ack{ID: receipt.ID, Timestamp: &receipt.Timestamp}, nil
		})

	case models.FrameListOnline:
		c.ack(frame, func() (models.Ack, error) {
			online, err := c.hub.ListOnline(c.ID)
			return models.Ack{Participants: online}, err
		})

	case models.FrameTyping:
		c.notify(frame, func() error {
			req, err := decode[models.TypingRequest](frame)
			if err != nil {
				return err
			}
			return c.hub.Typing(c.ID, req)
		})

	case models.FrameMarkRead:
		c.notify(frame, func() error {
			req, err := decode[models.MarkReadRequest](frame)
			if err != nil {
				return err
			}
			return c.hub.MarkRead(c.ID, req)
		})

	case models.FrameAddReaction:
		c.notify(frame, func() error {
			req, err := decode[models.AddReactionRequest](frame)
			if err != nil {
				return err
			}
			return c.hub.AddReaction(c.ID, req)
		})

	default:
		c.log.Debug("Unknown frame", "type", frame.Type)
		c.reply(models.Event{
			Type:      models.EventError,
			RequestID: frame.RequestID,
			Payload:   models.ErrorPayload{Error: fmt.Sprintf("%v: %s", models.ErrUnknownFrame, frame.Type)},
		})
	}
}

// ack runs a request frame and always answers it
func (c *Client) ack(frame models.Frame, run func() (models.Ack, error)) {
	result, err := run()
	if err != nil {
		c.log.Debug("Request rejected", "type", frame.Type, "error", err)
		result = models.Ack{Error: err.Error()}
	} else {
		result.OK = true
	}
	c.reply(models.Event{Type: models.EventAck, RequestID: frame.RequestID, Payload: result})
}

// notify runs a fire-and-forget frame; failures are only logged
func (c *Client) notify(frame models.Frame, run func() error) {
	if err := run(); err != nil {
		c.log.Debug("Frame ignored", "type", frame.Type, "error", err)
	}
}

func (c *Client) reply(evt models.Event) {
	if err := c.gateway.Push(c.ID, evt); err != nil {
		c.log.Warn("Reply failed", "event", evt.Type, "error", err)
	}
}

var errBadPayload = errors.New("malformed payload")

func decode[T any](frame models.Frame) (T, error) {
	var req T
	if len(frame.Payload) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(frame.Payload, &req); err != nil {
		return req, fmt.Errorf("%w: %v", errBadPayload, err)
	}
	return req, nil
}
