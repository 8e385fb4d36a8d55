package kv

// Backend names accepted in configuration. The server constructs the
// matching backend manager directly.
const (
	BackendPebble = "pebble"
	BackendBBolt  = "bbolt"
	BackendMemory = "memory"
)

// ValidBackend reports whether the name is a known backend.
func ValidBackend(name string) bool {
	switch name {
	case BackendPebble, BackendBBolt, BackendMemory:
		return true
	default:
		return false
	}
}
