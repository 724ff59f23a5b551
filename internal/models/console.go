package models

// ConsoleConfig holds console bootstrap settings.
type ConsoleConfig struct {
	Console  string
	Username string
	Password *string // nil if not configured
	Tool     string  // bootstrap program, "netconify" by default
}
