// Package lirc implements a minimal client for the lircd daemon's
// unix-socket command protocol.
package lirc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// DefaultSocketPath is where lircd listens on most distributions.
const DefaultSocketPath = "/var/run/lirc/lircd"

// ErrUnsuccessfulCommand is returned with a reply when lircd answers ERROR.
var ErrUnsuccessfulCommand = errors.New("lirc: unsuccessful command")

// CommandReply is the parsed reply block for one command.
type CommandReply struct {
	// Command is the command echoed back by lircd.
	Command string
	// Success is whether lircd reported SUCCESS.
	Success bool
	// Data holds the reply's DATA lines, if any.
	Data []string
}

// Client is a connection to a lircd daemon. A Client is not safe for
// concurrent use; the bridge opens one per operation.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
}

// Dial connects to the lircd daemon at socketPath.
func Dial(ctx context.Context, socketPath string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("lirc: connecting to %s: %w", socketPath, err)
	}
	return &Client{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}, nil
}

// Close closes the daemon connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// ListRemotes returns the names of all remotes in the daemon's database.
func (c *Client) ListRemotes(ctx context.Context) ([]string, error) {
	reply, err := c.roundtrip(ctx, "LIST")
	if err != nil {
		return nil, err
	}
	return reply.Data, nil
}

// ListKeys returns the key names defined for the given remote. lircd
// reports each key as "<hexcode> <name>"; only the name is kept.
func (c *Client) ListKeys(ctx context.Context, remote string) ([]string, error) {
	reply, err := c.roundtrip(ctx, "LIST "+remote)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(reply.Data))
	for _, line := range reply.Data {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		keys = append(keys, fields[len(fields)-1])
	}
	return keys, nil
}

// SendOnce asks the daemon to transmit a single key press for the remote.
func (c *Client) SendOnce(ctx context.Context, remote, key string) error {
	_, err := c.roundtrip(ctx, fmt.Sprintf("SEND_ONCE %s %s", remote, key))
	return err
}

// roundtrip writes one command and parses its reply block.
func (c *Client) roundtrip(ctx context.Context, command string) (*CommandReply, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := c.conn.SetDeadline(deadline); err != nil {
			return nil, fmt.Errorf("lirc: setting deadline: %w", err)
		}
		defer c.conn.SetDeadline(time.Time{})
	}

	if _, err := fmt.Fprintf(c.conn, "%s\n", command); err != nil {
		return nil, fmt.Errorf("lirc: writing command %q: %w", command, err)
	}

	reply, err := c.readReply()
	if err != nil {
		return nil, err
	}

	if !reply.Success {
		detail := strings.Join(reply.Data, "; ")
		if detail == "" {
			detail = reply.Command
		}
		return reply, fmt.Errorf("%w: %s", ErrUnsuccessfulCommand, detail)
	}
	return reply, nil
}

// readReply returns the next command reply, skipping broadcast blocks the
// daemon may interleave (SIGHUP config-reload notifications).
func (c *Client) readReply() (*CommandReply, error) {
	for {
		reply, err := c.readBlock()
		if err != nil {
			return nil, err
		}
		if reply != nil {
			return reply, nil
		}
	}
}

// readBlock parses one BEGIN..END block. It returns nil for broadcast
// blocks that carry no status.
func (c *Client) readBlock() (*CommandReply, error) {
	for {
		line, err := c.readLine()
		if err != nil {
			return nil, err
		}
		if line == "BEGIN" {
			break
		}
	}

	reply := &CommandReply{}

	command, err := c.readLine()
	if err != nil {
		return nil, err
	}
	reply.Command = command

	if command == "SIGHUP" {
		if end, err := c.readLine(); err != nil {
			return nil, err
		} else if end != "END" {
			return nil, fmt.Errorf("lirc: expected END after SIGHUP, got %q", end)
		}
		return nil, nil
	}

	status, err := c.readLine()
	if err != nil {
		return nil, err
	}
	switch status {
	case "SUCCESS":
		reply.Success = true
	case "ERROR":
		reply.Success = false
	default:
		return nil, fmt.Errorf("lirc: unexpected status line %q", status)
	}

	next, err := c.readLine()
	if err != nil {
		return nil, err
	}
	if next == "DATA" {
		countLine, err := c.readLine()
		if err != nil {
			return nil, err
		}
		count, err := strconv.Atoi(countLine)
		if err != nil {
			return nil, fmt.Errorf("lirc: bad data count %q: %w", countLine, err)
		}

		reply.Data = make([]string, 0, count)
		for i := 0; i < count; i++ {
			line, err := c.readLine()
			if err != nil {
				return nil, err
			}
			reply.Data = append(reply.Data, line)
		}

		next, err = c.readLine()
		if err != nil {
			return nil, err
		}
	}

	if next != "END" {
		return nil, fmt.Errorf("lirc: expected END, got %q", next)
	}
	return reply, nil
}

func (c *Client) readLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("lirc: reading reply: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
