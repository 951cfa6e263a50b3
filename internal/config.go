package internal

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrymomot/lessweb/pkg/fsstat"
)

// Defaults for the listening socket.
const (
	DefaultPort          = 61775
	DefaultListenAddress = "127.0.0.1"
)

// ServerConfig is the process-wide configuration. Build it once with
// NewServerConfig and pass it by value; nothing mutates it afterwards.
type ServerConfig struct {
	Root          string
	ListenAddress string
	Port          int
}

// NewServerConfig validates its arguments and returns an immutable config.
// Trailing slashes are stripped from root and relative roots are made
// absolute. root must name an existing directory.
func NewServerConfig(root, listenAddress string, port int) (ServerConfig, error) {
	if root == "" {
		return ServerConfig{}, ErrMissingRoot
	}
	trimmed := strings.TrimRight(root, "/")
	if trimmed == "" {
		trimmed = "/"
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("%w: %q: %w", ErrInvalidRoot, root, err)
	}
	if !fsstat.IsDir(abs) {
		return ServerConfig{}, fmt.Errorf("%w: %q", ErrInvalidRoot, root)
	}

	if port < 0 || port > 65535 {
		return ServerConfig{}, fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}
	if listenAddress == "" {
		listenAddress = DefaultListenAddress
	}

	return ServerConfig{
		Root:          abs,
		ListenAddress: listenAddress,
		Port:          port,
	}, nil
}

// Addr returns the host:port pair to listen on.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.ListenAddress, strconv.Itoa(c.Port))
}
