// Package shellhook renders the per-shell prompt-hook scripts and installs
// them idempotently into rc files, backing the `hook` and `install-hook`
// CLI verbs.
package shellhook

import (
	"fmt"

	"github.com/cmux-dev/cmux-envd/internal/exporter"
)

// Script returns the hook snippet for shell. Each defines __envctl_apply,
// which calls `envctl export` with the shell's current ENVCTL_GEN/PWD
// watermark state, eval's the resulting commands, then advances
// ENVCTL_PREV_PWD for the next invocation.
func Script(shell exporter.Shell) (string, error) {
	switch shell {
	case exporter.Bash:
		return bashScript, nil
	case exporter.Zsh:
		return zshScript, nil
	case exporter.Fish:
		return fishScript, nil
	default:
		return "", fmt.Errorf("shellhook: unsupported shell %q", shell)
	}
}

const bashScript = `# envctl prompt hook
: "${ENVCTL_GEN:=0}"
: "${ENVCTL_PREV_PWD:=$PWD}"
__envctl_apply() {
  local __envctl_out
  __envctl_out="$(envctl export bash --since "$ENVCTL_GEN" --pwd "$PWD" --prev-pwd "$ENVCTL_PREV_PWD" 2>/dev/null)" || return 0
  eval "$__envctl_out"
  ENVCTL_PREV_PWD="$PWD"
}
trap '__envctl_apply' DEBUG
`

const zshScript = `# envctl prompt hook
typeset -g ENVCTL_GEN="${ENVCTL_GEN:-0}"
typeset -g ENVCTL_PREV_PWD="${ENVCTL_PREV_PWD:-$PWD}"
__envctl_apply() {
  local __envctl_out
  __envctl_out="$(envctl export zsh --since "$ENVCTL_GEN" --pwd "$PWD" --prev-pwd "$ENVCTL_PREV_PWD" 2>/dev/null)" || return 0
  eval "$__envctl_out"
  ENVCTL_PREV_PWD="$PWD"
}
autoload -Uz add-zsh-hook
add-zsh-hook precmd __envctl_apply
`

const fishScript = `# envctl prompt hook
if not set -q ENVCTL_GEN
    set -gx ENVCTL_GEN 0
end
if not set -q ENVCTL_PREV_PWD
    set -gx ENVCTL_PREV_PWD $PWD
end
function __envctl_apply --on-event fish_prompt
    set -l __envctl_out (envctl export fish --since $ENVCTL_GEN --pwd $PWD --prev-pwd $ENVCTL_PREV_PWD 2>/dev/null)
    if test $status -eq 0
        string join \n -- $__envctl_out | source
    end
    set -gx ENVCTL_PREV_PWD $PWD
end
`
