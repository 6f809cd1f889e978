//go:build !windows

package state

import "syscall"

// flockLock takes an exclusive lock on the state file via flock(2),
// blocking until the lock is free.
func flockLock(fd uintptr) error {
	return syscall.Flock(int(fd), syscall.LOCK_EX)
}

// flockUnlock releases the flock(2) lock.
func flockUnlock(fd uintptr) error {
	return syscall.Flock(int(fd), syscall.LOCK_UN)
}
