//go:build unix

package server

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// reuseAddr は待ち受けソケットに SO_REUSEADDR を設定する
func reuseAddr(network, address string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}
