package envclient

import (
	"fmt"

	"github.com/cmux-dev/cmux-envd/internal/protocol"
)

// Set stores key=value in scope (empty scope means Global) and returns the
// resulting generation.
func (c *Client) Set(scope, key, value string) (uint64, error) {
	resp, err := c.Execute(&protocol.Request{Op: protocol.OpSet, Scope: scope, Key: key, Value: value})
	if err != nil {
		return 0, err
	}
	if resp.Err != nil {
		return 0, wireError(resp.Err)
	}
	return resp.Gen, nil
}

// Unset tombstones key in scope and returns the resulting generation.
func (c *Client) Unset(scope, key string) (uint64, error) {
	resp, err := c.Execute(&protocol.Request{Op: protocol.OpUnset, Scope: scope, Key: key})
	if err != nil {
		return 0, err
	}
	if resp.Err != nil {
		return 0, wireError(resp.Err)
	}
	return resp.Gen, nil
}

// Get resolves key's effective value at pwd.
func (c *Client) Get(key, pwd string) (value string, ok bool, err error) {
	resp, err := c.Execute(&protocol.Request{Op: protocol.OpGet, Key: key, Pwd: pwd})
	if err != nil {
		return "", false, err
	}
	if resp.Err != nil {
		if resp.Err.Kind == protocol.KindNotFound {
			return "", false, nil
		}
		return "", false, wireError(resp.Err)
	}
	return resp.Value, resp.Present, nil
}

// List returns the effective view at pwd, sorted by key.
func (c *Client) List(pwd string) ([]protocol.Item, error) {
	resp, err := c.Execute(&protocol.Request{Op: protocol.OpList, Pwd: pwd})
	if err != nil {
		return nil, err
	}
	if resp.Err != nil {
		return nil, wireError(resp.Err)
	}
	return resp.Items, nil
}

// Export asks the daemon to compute the shell commands that bring shell's
// environment in line with the store's current effective view at pwd.
func (c *Client) Export(shell, pwd, prevPwd string, since uint64) (gen uint64, commands []string, err error) {
	resp, err := c.Execute(&protocol.Request{
		Op:      protocol.OpExport,
		Shell:   shell,
		Pwd:     pwd,
		PrevPwd: prevPwd,
		Since:   since,
	})
	if err != nil {
		return 0, nil, err
	}
	if resp.Err != nil {
		return 0, nil, wireError(resp.Err)
	}
	return resp.Gen, resp.Commands, nil
}

// Load applies entries to scope atomically and returns the resulting
// generation.
func (c *Client) Load(scope string, entries []protocol.LoadEntry) (uint64, error) {
	resp, err := c.Execute(&protocol.Request{Op: protocol.OpLoad, Scope: scope, Entries: entries})
	if err != nil {
		return 0, err
	}
	if resp.Err != nil {
		return 0, wireError(resp.Err)
	}
	return resp.Gen, nil
}

// Status retrieves the daemon's store summary and metrics.
func (c *Client) Status() (*protocol.StatusInfo, error) {
	resp, err := c.Execute(&protocol.Request{Op: protocol.OpStatus})
	if err != nil {
		return nil, err
	}
	if resp.Err != nil {
		return nil, wireError(resp.Err)
	}
	return resp.Status, nil
}

// Health retrieves a cheap liveness probe.
func (c *Client) Health() (*protocol.HealthInfo, error) {
	resp, err := c.Execute(&protocol.Request{Op: protocol.OpHealth})
	if err != nil {
		return nil, err
	}
	if resp.Err != nil {
		return nil, wireError(resp.Err)
	}
	return resp.Health, nil
}

// Shutdown asks the daemon to drain and exit.
func (c *Client) Shutdown() error {
	resp, err := c.Execute(&protocol.Request{Op: protocol.OpShutdown})
	if err != nil {
		return err
	}
	if resp.Err != nil {
		return wireError(resp.Err)
	}
	return nil
}

// wireError turns an ErrInfo into a Go error carrying its Kind so callers
// (the CLI's exit-code mapping) can type-assert via errors.As(*WireError).
func wireError(info *protocol.ErrInfo) error {
	return &WireError{Kind: info.Kind, Message: info.Message}
}

// WireError wraps a daemon-reported error, preserving its Kind for exit
// code mapping in cmd/envctl.
type WireError struct {
	Kind    protocol.Kind
	Message string
}

func (e *WireError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
