//go:build windows

package state

import "golang.org/x/sys/windows"

// flockLock takes an exclusive lock on the state file via LockFileEx,
// blocking until the lock is free (same semantics as the Unix shim).
func flockLock(fd uintptr) error {
	var ol windows.Overlapped
	return windows.LockFileEx(windows.Handle(fd), windows.LOCKFILE_EXCLUSIVE_LOCK, 0, 1, 0, &ol)
}

// flockUnlock releases the LockFileEx lock.
func flockUnlock(fd uintptr) error {
	var ol windows.Overlapped
	return windows.UnlockFileEx(windows.Handle(fd), 0, 1, 0, &ol)
}
