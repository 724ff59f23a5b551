// Package models contains the data structures used throughout junos-zeroize.
package models

import "time"

// SafetyFlag is the value the zeroize parameter must carry before any device is touched.
const SafetyFlag = "zeroize"

// Params holds the invocation parameters of a zeroize run.
type Params struct {
	Zeroize     string
	Host        string
	Console     *string // nil if not configured
	User        string
	Password    *string // nil if not configured
	LogFile     string  // empty disables the log file
	Port        int
	Timeout     time.Duration
	ConsoleTool string
	Telegram    *TelegramConfig // nil if not configured
}

// Target returns the console identifier when set, otherwise the host.
func (p Params) Target() string {
	if p.Console != nil {
		return *p.Console
	}
	return p.Host
}

// NetconfConfig returns the settings the network executor needs.
func (p Params) NetconfConfig() NetconfConfig {
	cfg := NetconfConfig{
		Host:     p.Host,
		Port:     p.Port,
		Username: p.User,
		Timeout:  p.Timeout,
	}
	if p.Password != nil {
		cfg.Password = *p.Password
	}
	return cfg
}

// ConsoleConfig returns the settings the console executor needs.
func (p Params) ConsoleConfig() ConsoleConfig {
	cfg := ConsoleConfig{
		Username: p.User,
		Password: p.Password,
		Tool:     p.ConsoleTool,
	}
	if p.Console != nil {
		cfg.Console = *p.Console
	}
	return cfg
}

// Mode is the execution path chosen for a run.
type Mode string

// Execution modes.
const (
	ModeNetwork Mode = "network"
	ModeConsole Mode = "console"
)
