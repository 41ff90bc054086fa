//go:build !unix

package shell

import (
	"os"
	"os/exec"
)

func shellArgv(command string) []string {
	comspec := os.Getenv("COMSPEC")
	if comspec == "" {
		comspec = "cmd.exe"
	}
	return []string{comspec, "/C", command}
}

func configureProcess(cmd *exec.Cmd) {}

func exitCode(ps *os.ProcessState) int {
	return ps.ExitCode()
}
