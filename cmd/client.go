// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Auklet Systems

package cmd

import (
	"fmt"
	"time"

	"github.com/aukletsystems/auklet/pkg/wire"
)

const (
	// responseTimeout bounds one request/response round trip.
	responseTimeout = 500 * time.Millisecond
	// requestRetries resends a request whose response never arrived. The
	// BMC's duplicate-request cache makes the retry safe even for
	// destructive reads.
	requestRetries = 3
)

// Client runs request/response exchanges over a Connection. A background
// reader feeds the stream decoder; Do writes the stuffed request and waits
// for the matching response, retrying on timeout.
type Client struct {
	conn    Connection
	frames  chan *wire.Frame
	timeout time.Duration
	retries int
}

// NewClient wraps a connection and starts its reader.
func NewClient(conn Connection) *Client {
	c := &Client{
		conn:    conn,
		frames:  make(chan *wire.Frame, 16),
		timeout: responseTimeout,
		retries: requestRetries,
	}
	go c.readLoop()
	return c
}

func (c *Client) readLoop() {
	decoder := wire.NewDecoder()
	buf := make([]byte, 128)
	for {
		n, err := c.conn.Read(buf)
		if err != nil {
			if err == ErrConnectionClosed {
				close(c.frames)
				return
			}
			// Transient serial hiccup; keep going
			time.Sleep(10 * time.Millisecond)
			continue
		}
		for i := 0; i < n; i++ {
			frame, err := decoder.DecodeByte(buf[i])
			if err != nil {
				// Corrupt frame on the stream; the decoder resyncs and
				// Do's timeout drives the retry.
				continue
			}
			if frame != nil {
				select {
				case c.frames <- frame:
				default:
				}
			}
		}
	}
}

// Do sends a request and returns the matching response frame. Error
// responses from the BMC come back as *wire.ResponseError via
// wire.CheckResponse on the caller's side; Do only matches frames to the
// request identifier.
func (c *Client) Do(req *wire.Frame) (*wire.Frame, error) {
	raw, err := wire.EncodeFrame(req)
	if err != nil {
		return nil, err
	}
	stuffed := wire.Stuff(raw)

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if _, err := c.conn.Write(stuffed); err != nil {
			return nil, fmt.Errorf("write failed: %v", err)
		}

		rsp, err := c.await(req.ID())
		if err == nil {
			return rsp, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("no response after %d attempts: %v", c.retries+1, lastErr)
}

// await waits for a frame that answers the given request id, discarding
// unrelated frames.
func (c *Client) await(requestID uint8) (*wire.Frame, error) {
	deadline := time.After(c.timeout)
	for {
		select {
		case frame, ok := <-c.frames:
			if !ok {
				return nil, ErrConnectionClosed
			}
			if frame.ID() == requestID|wire.RspFlag {
				return frame, nil
			}
			if frame.IsError() {
				if id, err := frame.RequestID(); err == nil && id == requestID {
					return frame, nil
				}
			}
			// Unsolicited frame; not ours
		case <-deadline:
			return nil, fmt.Errorf("timeout waiting for response")
		}
	}
}

// Query is a one-shot helper for subcommands: open the configured
// connection, run fn with a client over it, close.
func Query(fn func(*Client) error) error {
	conn, _, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(NewClient(conn))
}

// checkedDo runs one exchange and applies response validation, turning
// BMC error frames into readable errors.
func checkedDo(c *Client, req *wire.Frame) (*wire.Frame, error) {
	rsp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	if err := wire.CheckResponse(rsp, req.ID()); err != nil {
		return nil, err
	}
	return rsp, nil
}
