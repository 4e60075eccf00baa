//go:build !unix

package server

import "syscall"

// reuseAddr はUnix以外では何もしない
func reuseAddr(network, address string, c syscall.RawConn) error {
	return nil
}
