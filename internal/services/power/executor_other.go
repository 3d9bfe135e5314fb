//go:build !windows && !unix

package power

import "os/exec"

func hideWindow(*exec.Cmd) {}

// IsElevated always reports false where elevation cannot be detected.
func IsElevated() bool {
	return false
}
