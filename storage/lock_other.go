//go:build !unix

package storage

import "os"

// Advisory locking is unix-only; the in-process mutex still serializes access
func lockFile(*os.File, bool) error { return nil }

func unlockFile(*os.File) error { return nil }
