// internal/types/types.go
package types

// EntityID is a stable handle into one of the world's entity collections.
// Zero is never allocated and means "no entity".
type EntityID uint64
