package entity

// ComputerName is the reserved default opponent. The record is seeded once at
// startup and must always exist.
const ComputerName = "computer"

type User struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
