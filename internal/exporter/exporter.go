// Package exporter implements the export algorithm: given a shell's
// watermark (since) and its current/previous working directories, compute
// the shell commands that bring its environment in line with the store's
// current effective view. Every key changed since the watermark gets a
// command, even when its effective value at pwd ends up the same as what
// the shell already holds, so the output is not always minimal.
package exporter

import (
	"sort"

	"github.com/cmux-dev/cmux-envd/internal/genlog"
	"github.com/cmux-dev/cmux-envd/internal/store"
)

// Result is the outcome of one export computation.
type Result struct {
	Gen      uint64
	Commands []string
}

// Export computes the diff for shell between prevPwd and pwd, given the
// keys genlog reports changed since `since`.
//
// Two kinds of keys need a command:
//
//  1. Keys whose latest generation is > since: the shell has never seen
//     this key's current value, regardless of where it is now. The store
//     keeps no history beyond each key's latest change, so these are always
//     emitted against their present effective value rather than diffed
//     against a reconstructed past value.
//  2. Keys unaffected by any mutation since `since`, but whose effective
//     value differs between pwd and prevPwd because the shell crossed an
//     overlay boundary. For these the value at prevPwd, evaluated against
//     the current store, is provably identical to what the shell already
//     holds (nothing touched it since `since`), so a direct two-view diff
//     is exact.
func Export(snap store.Snapshot, changed map[genlog.Ref]uint64, shell Shell, pwd, prevPwd string) (Result, error) {
	changedKeys := make(map[string]struct{}, len(changed))
	for ref := range changed {
		changedKeys[ref.Key] = struct{}{}
	}

	candidates := make(map[string]struct{}, len(changedKeys))
	for k := range changedKeys {
		candidates[k] = struct{}{}
	}
	for _, k := range snap.Keys() {
		candidates[k] = struct{}{}
	}

	var sets []string
	var unsets []string

	for key := range candidates {
		newResolved, newOk := snap.EffectiveValue(key, pwd)

		if _, isChanged := changedKeys[key]; !isChanged {
			oldResolved, oldOk := snap.EffectiveValue(key, prevPwd)
			if oldOk == newOk && (!newOk || oldResolved.Value == newResolved.Value) {
				continue
			}
		}

		if newOk {
			sets = append(sets, setCommand(shell, key, newResolved.Value))
		} else {
			unsets = append(unsets, unsetCommand(shell, key))
		}
	}

	sort.Strings(unsets)
	sort.Strings(sets)

	commands := make([]string, 0, len(unsets)+len(sets))
	commands = append(commands, unsets...)
	commands = append(commands, sets...)

	return Result{Gen: snap.Gen, Commands: commands}, nil
}
