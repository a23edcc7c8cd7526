//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris
// +build aix darwin dragonfly freebsd linux netbsd openbsd solaris

package system

import (
	"bytes"
	"fmt"

	"golang.org/x/sys/unix"
)

// platformVersion returns the kernel version and release reported by uname.
func platformVersion() string {
	var uname unix.Utsname
	if unix.Uname(&uname) != nil {
		// If uname failed, we don't have anything else to try.
		return ""
	}
	v, r := uname.Version[:], uname.Release[:]
	return fmt.Sprintf("%s.%s", bytes.Trim(v, "\x00"), bytes.Trim(r, "\x00"))
}
