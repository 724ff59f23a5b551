package models

// Capability describes whether a collaborator can be used for a run.
type Capability struct {
	Name       string
	Version    string
	MinVersion string
	Available  bool
	Reason     string // set when unavailable
}

// Err returns a configuration error if the collaborator is unavailable.
func (c Capability) Err() error {
	if c.Available {
		return nil
	}
	return NewConfigurationError("%s is not usable (requires >= %s): %s", c.Name, c.MinVersion, c.Reason)
}
