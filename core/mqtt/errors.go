package mqtt

import "errors"

// ErrDisconnected is returned when a publish is attempted without a live
// broker connection.
var ErrDisconnected = errors.New("mqtt client disconnected")
