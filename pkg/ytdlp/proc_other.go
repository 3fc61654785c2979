//go:build !unix

package ytdlp

import "os/exec"

// killProcessGroupOnCancel keeps the default behaviour of killing only the
// leader; WaitDelay still bounds Run.
func killProcessGroupOnCancel(cmd *exec.Cmd) {}
