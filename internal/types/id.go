// README: Shared identifier type used across modules.
package types

// ID identifies a persisted record (technician, booking, absence).
type ID string

func (id ID) String() string { return string(id) }
