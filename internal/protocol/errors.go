package protocol

import "fmt"

// CodecError wraps a failure decoding or encoding a primitive or composite
// wire value: truncated input, VarInt/VarLong overflow, invalid UTF-8, a
// string or array exceeding its wire limit, or a malformed NBT structure.
// It is always fatal to the session that produced it.
type CodecError struct {
	What string
	Err  error
}

func (e *CodecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("codec error: %s: %v", e.What, e.Err)
	}
	return fmt.Sprintf("codec error: %s", e.What)
}

func (e *CodecError) Unwrap() error { return e.Err }

// NewCodecError builds a CodecError describing what and optionally wrapping
// a lower-level cause.
func NewCodecError(what string, cause error) *CodecError {
	return &CodecError{What: what, Err: cause}
}

// ProtocolError covers violations of the state machine: an unknown packet
// id for the current (state, version), a packet arriving in the wrong
// state, an illegal next-state value on Handshake, or any other illegal
// state transition. Always fatal to the session.
type ProtocolError struct {
	State State
	What  string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error in state %s: %s", e.State, e.What)
}

// NewProtocolError builds a ProtocolError for the given state.
func NewProtocolError(state State, what string) *ProtocolError {
	return &ProtocolError{State: state, What: what}
}

// ForwardingError covers proxy-forwarding validation failures: an HMAC
// mismatch on a Velocity payload, a missing or disallowed BungeeGuard
// token, or a malformed forwarded host string. The session is disconnected
// with DisconnectReason as the message shown to the client.
type ForwardingError struct {
	DisconnectReason string
	Err              error
}

func (e *ForwardingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("forwarding error: %s: %v", e.DisconnectReason, e.Err)
	}
	return fmt.Sprintf("forwarding error: %s", e.DisconnectReason)
}

func (e *ForwardingError) Unwrap() error { return e.Err }

// NewForwardingError builds a ForwardingError. reason is shown to the
// client verbatim as the disconnect message.
func NewForwardingError(reason string, cause error) *ForwardingError {
	return &ForwardingError{DisconnectReason: reason, Err: cause}
}

// IOError wraps a socket read or write failure. Fatal to the session; the
// caller is expected to log it with the session's remote address before
// tearing the connection down.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error during %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// NewIOError builds an IOError describing the operation that failed.
func NewIOError(op string, cause error) *IOError {
	return &IOError{Op: op, Err: cause}
}

// AssetError covers missing or malformed startup data: packet-id reports,
// registry NBT, block-state tables, or schematics. Fatal to the process —
// these are loaded once before the server accepts any connection.
type AssetError struct {
	Path string
	Err  error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset error loading %s: %v", e.Path, e.Err)
}

func (e *AssetError) Unwrap() error { return e.Err }

// NewAssetError builds an AssetError for the given asset path.
func NewAssetError(path string, cause error) *AssetError {
	return &AssetError{Path: path, Err: cause}
}

// ConfigError covers an unrecognized configuration key or an invalid value
// for a recognized one. Fatal to the process.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for %q: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError builds a ConfigError for the given key.
func NewConfigError(key string, cause error) *ConfigError {
	return &ConfigError{Key: key, Err: cause}
}
