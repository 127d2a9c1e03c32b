package client

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"sync"
)

// TCPTransport is a Transport carrying newline-delimited JSON messages over a
// single TCP connection.
type TCPTransport struct {
	logWriter io.Writer

	// mu guards conn and handler.
	mu      sync.Mutex
	conn    net.Conn
	handler func(data []byte)
}

// DialTCP connects to a node listening on addr.
func DialTCP(addr string, logWriter io.Writer) (*TCPTransport, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	fmt.Fprintf(logWriter, "connected to %v\n", conn.RemoteAddr())
	return newTCPTransport(conn, logWriter), nil
}

// ServeTCP listens on addr and accepts a single incoming connection.
func ServeTCP(addr string, logWriter io.Writer) (*TCPTransport, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	conn, err := ln.Accept()
	if err != nil {
		return nil, fmt.Errorf("accepting incoming connection: %w", err)
	}
	fmt.Fprintf(logWriter, "accepted connection from %v\n", conn.RemoteAddr())
	return newTCPTransport(conn, logWriter), nil
}

func newTCPTransport(conn net.Conn, logWriter io.Writer) *TCPTransport {
	if logWriter == nil {
		logWriter = io.Discard
	}
	return &TCPTransport{conn: conn, logWriter: logWriter}
}

// SendMessage writes the message followed by a newline delimiter.
func (t *TCPTransport) SendMessage(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := t.conn.Write(append(data, '\n'))
	if err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	return nil
}

// OnMessage registers the handler and starts the read loop. A single handler
// registration is supported.
func (t *TCPTransport) OnMessage(handler func(data []byte)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.handler != nil {
		return
	}
	t.handler = handler
	go t.readLoop()
}

func (t *TCPTransport) readLoop() {
	scanner := bufio.NewScanner(t.conn)
	scanner.Buffer(make([]byte, 0, 1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		data := make([]byte, len(line))
		copy(data, line)
		t.handler(data)
	}
	err := scanner.Err()
	if err != nil {
		fmt.Fprintf(t.logWriter, "error receiving: %v, stopping receiving\n", err)
		return
	}
	fmt.Fprintln(t.logWriter, "error receiving: EOF, stopping receiving")
}

// Close closes the underlying connection, stopping the read loop.
func (t *TCPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn.Close()
}
