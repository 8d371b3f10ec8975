package btrfs

// DefaultBinary is the btrfs executable looked up in PATH.
const DefaultBinary = "btrfs"

// ClientOption is a functional option for configuring a DefaultClient.
type ClientOption func(*DefaultClient)

// WithBinary sets the btrfs executable.
func WithBinary(path string) ClientOption {
	return func(c *DefaultClient) {
		if path != "" {
			c.binary = path
		}
	}
}

// Logger receives command diagnostics.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

// WithLogger sets the logger used for command diagnostics.
func WithLogger(l Logger) ClientOption {
	return func(c *DefaultClient) {
		if l != nil {
			c.logger = l
		}
	}
}
