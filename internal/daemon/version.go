package daemon

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// ServerVersion is the daemon's own protocol version, compared against a
// request's ClientVersion on every connection.
const ServerVersion = "v0.1.0"

// checkVersionCompatibility tolerates a missing client version (older
// clients, or tests that don't set it), tolerates any minor/patch
// difference, and rejects a major version mismatch: the daemon's wire
// schema is not guaranteed compatible across major versions, and the
// client should restart the daemon rather than silently misinterpret
// frames.
func checkVersionCompatibility(clientVersion string) error {
	if clientVersion == "" {
		return nil
	}
	cv := clientVersion
	if len(cv) == 0 || cv[0] != 'v' {
		cv = "v" + cv
	}
	if !semver.IsValid(cv) {
		return fmt.Errorf("%w: malformed client version %q", errBadRequest, clientVersion)
	}
	if semver.Major(cv) != semver.Major(ServerVersion) {
		return fmt.Errorf("%w: client version %s is incompatible with daemon version %s; restart the daemon", errBadRequest, clientVersion, ServerVersion)
	}
	return nil
}
