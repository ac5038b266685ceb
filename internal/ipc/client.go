package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/idealdisplay/internal/runtimepath"
)

const dialTimeout = 5 * time.Second

// Client queries a running display client over its socket. Each call
// opens its own connection.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient targets the default socket. A socket path that cannot be
// resolved surfaces as a dial error on the first call.
func NewClient() *Client {
	path, _ := runtimepath.SocketPath()
	return &Client{socketPath: path, timeout: dialTimeout}
}

func (c *Client) Reload() error {
	return c.roundTrip(CommandReload, nil)
}

func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.roundTrip(CommandGetStatus, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListWindows returns the registered windows bottom first.
func (c *Client) ListWindows() (*WindowsData, error) {
	var data WindowsData
	if err := c.roundTrip(CommandListWindows, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Ping reports whether a client is answering on the socket.
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}

// roundTrip sends command and decodes the reply's data into out, which
// may be nil.
func (c *Client) roundTrip(command CommandType, out any) error {
	resp, err := c.exchange(command)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", command, err)
	}
	return nil
}

// exchange writes one request line and reads one reply line. An ERROR
// reply becomes an error.
func (c *Client) exchange(command CommandType) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w (is 'idealdisplay run' active?)", c.socketPath, err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(c.timeout))

	if err := json.NewEncoder(conn).Encode(&Request{Command: command}); err != nil {
		return nil, fmt.Errorf("send %s: %w", command, err)
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read %s reply: %w", command, err)
	}
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("parse %s reply: %w", command, err)
	}
	if resp.Status == StatusError {
		return nil, fmt.Errorf("%s: %s", command, resp.Error)
	}
	return &resp, nil
}
