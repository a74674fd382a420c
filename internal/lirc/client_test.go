package lirc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fakeLircd answers the lircd command protocol with scripted replies.
type fakeLircd struct {
	t       *testing.T
	socket  string
	replies map[string]string
}

func newFakeLircd(t *testing.T, replies map[string]string) *fakeLircd {
	t.Helper()

	socket := filepath.Join(t.TempDir(), "lircd")
	f := &fakeLircd{t: t, socket: socket, replies: replies}

	listener, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatalf("failed to listen on %s: %v", socket, err)
	}
	t.Cleanup(func() { listener.Close() })

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go f.serve(conn)
		}
	}()

	return f
}

func (f *fakeLircd) serve(conn net.Conn) {
	defer conn.Close()
	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		command := strings.TrimSpace(line)
		reply, ok := f.replies[command]
		if !ok {
			reply = fmt.Sprintf("BEGIN\n%s\nERROR\nDATA\n1\nunknown command\nEND\n", command)
		}
		if _, err := conn.Write([]byte(reply)); err != nil {
			return
		}
	}
}

func dialFake(t *testing.T, f *fakeLircd) *Client {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := Dial(ctx, f.socket)
	if err != nil {
		t.Fatalf("failed to dial fake lircd: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestListRemotes(t *testing.T) {
	f := newFakeLircd(t, map[string]string{
		"LIST": "BEGIN\nLIST\nSUCCESS\nDATA\n2\nkitchen_tv\nliving_room_amp\nEND\n",
	})
	client := dialFake(t, f)

	remotes, err := client.ListRemotes(context.Background())
	if err != nil {
		t.Fatalf("ListRemotes failed: %v", err)
	}

	if len(remotes) != 2 || remotes[0] != "kitchen_tv" || remotes[1] != "living_room_amp" {
		t.Errorf("unexpected remotes: %v", remotes)
	}
}

func TestListRemotesEmpty(t *testing.T) {
	f := newFakeLircd(t, map[string]string{
		"LIST": "BEGIN\nLIST\nSUCCESS\nEND\n",
	})
	client := dialFake(t, f)

	remotes, err := client.ListRemotes(context.Background())
	if err != nil {
		t.Fatalf("ListRemotes failed: %v", err)
	}
	if len(remotes) != 0 {
		t.Errorf("expected no remotes, got %v", remotes)
	}
}

func TestListKeysStripsHexcodes(t *testing.T) {
	f := newFakeLircd(t, map[string]string{
		"LIST kitchen_tv": "BEGIN\nLIST kitchen_tv\nSUCCESS\nDATA\n3\n0000000000000001 KEY_POWER\n0000000000000002 KEY_VOLUMEUP\n0000000000000003 KEY_VOLUMEDOWN\nEND\n",
	})
	client := dialFake(t, f)

	keys, err := client.ListKeys(context.Background(), "kitchen_tv")
	if err != nil {
		t.Fatalf("ListKeys failed: %v", err)
	}

	want := []string{"KEY_POWER", "KEY_VOLUMEUP", "KEY_VOLUMEDOWN"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %v", len(want), keys)
	}
	for i, key := range want {
		if keys[i] != key {
			t.Errorf("key %d: expected %s, got %s", i, key, keys[i])
		}
	}
}

func TestSendOnceSuccess(t *testing.T) {
	f := newFakeLircd(t, map[string]string{
		"SEND_ONCE kitchen_tv KEY_POWER": "BEGIN\nSEND_ONCE kitchen_tv KEY_POWER\nSUCCESS\nEND\n",
	})
	client := dialFake(t, f)

	if err := client.SendOnce(context.Background(), "kitchen_tv", "KEY_POWER"); err != nil {
		t.Errorf("SendOnce failed: %v", err)
	}
}

func TestSendOnceError(t *testing.T) {
	f := newFakeLircd(t, map[string]string{
		"SEND_ONCE kitchen_tv KEY_BOGUS": "BEGIN\nSEND_ONCE kitchen_tv KEY_BOGUS\nERROR\nDATA\n1\nunknown command: \"KEY_BOGUS\"\nEND\n",
	})
	client := dialFake(t, f)

	err := client.SendOnce(context.Background(), "kitchen_tv", "KEY_BOGUS")
	if !errors.Is(err, ErrUnsuccessfulCommand) {
		t.Errorf("expected ErrUnsuccessfulCommand, got %v", err)
	}
}

func TestSighupBroadcastIsSkipped(t *testing.T) {
	f := newFakeLircd(t, map[string]string{
		"LIST": "BEGIN\nSIGHUP\nEND\nBEGIN\nLIST\nSUCCESS\nDATA\n1\nkitchen_tv\nEND\n",
	})
	client := dialFake(t, f)

	remotes, err := client.ListRemotes(context.Background())
	if err != nil {
		t.Fatalf("ListRemotes failed: %v", err)
	}
	if len(remotes) != 1 || remotes[0] != "kitchen_tv" {
		t.Errorf("unexpected remotes: %v", remotes)
	}
}

func TestDialMissingSocketFails(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := Dial(ctx, filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected dial error for missing socket")
	}
}
