//go:build windows

package instance

import (
	"golang.org/x/sys/windows"
)

// isProcessAlive reports whether a process with the given pid exists.
// A limited-information handle is enough and works across users.
func isProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	const processQueryLimitedInformation = 0x1000
	handle, err := windows.OpenProcess(processQueryLimitedInformation, false, uint32(pid))
	if err != nil {
		return false
	}
	windows.CloseHandle(handle)
	return true
}
