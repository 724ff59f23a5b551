package models

import "time"

// NetconfConfig holds NETCONF session settings.
type NetconfConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration // SSH connect timeout handed to the client
}

// ZeroizeResult holds the outcome of an executor run.
type ZeroizeResult struct {
	CommandSent bool
	Error       error
}

// ProbeResult holds the outcome of a NETCONF connectivity probe.
type ProbeResult struct {
	Connected    bool
	SessionID    int
	Capabilities []string
	Error        error
}
