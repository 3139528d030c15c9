package types

import "github.com/google/uuid"

// NewRenderID generates a UUIDv7 render identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewRenderID() RenderID {
	return RenderID(uuid.Must(uuid.NewV7()).String())
}

// ParseRenderID validates and converts a string to RenderID.
func ParseRenderID(s string) (RenderID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return RenderID(s), nil
}

// Short returns the first eight hex characters of the ID, used as a DOM id
// prefix where the full UUID would be noise.
func (id RenderID) Short() string {
	s := string(id)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
