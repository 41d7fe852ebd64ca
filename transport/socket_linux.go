// File: transport/socket_linux.go
//go:build linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Raw-fd Linux transport: non-blocking read/writev with poll-based
// readiness, half-close via shutdown(2).

package transport

import (
	"io"
	"sync"

	"golang.org/x/sys/unix"
)

// Socket drives a connected, non-blocking socket file descriptor directly.
// Ownership of the descriptor passes to the Socket; it is closed by Close.
type Socket struct {
	fd int

	closeOnce sync.Once
	closeErr  error
}

// NewSocket wraps an established socket descriptor, switching it to
// non-blocking mode.
func NewSocket(fd int) (*Socket, error) {
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, err
	}
	return &Socket{fd: fd}, nil
}

// Read implements api.Transport. A zero-byte read result from the kernel
// means the peer closed its send side, reported here as io.EOF.
func (s *Socket) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		n, err := unix.Read(s.fd, p)
		switch err {
		case nil:
			if n == 0 {
				return 0, io.EOF
			}
			return n, nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			if perr := s.wait(unix.POLLIN); perr != nil {
				return 0, perr
			}
		default:
			return 0, err
		}
	}
}

// Writev implements api.Transport. Partial acceptance is returned as a
// count; the engine owns re-emitting the remainder.
func (s *Socket) Writev(spans [][]byte) (int, error) {
	iov := make([][]byte, 0, len(spans))
	for _, span := range spans {
		if len(span) > 0 {
			iov = append(iov, span)
		}
	}
	if len(iov) == 0 {
		return 0, nil
	}
	for {
		n, err := unix.Writev(s.fd, iov)
		switch err {
		case nil:
			return n, nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			if perr := s.wait(unix.POLLOUT); perr != nil {
				return 0, perr
			}
		default:
			return 0, err
		}
	}
}

// wait blocks until the descriptor is ready for the given poll events.
func (s *Socket) wait(events int16) error {
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: events}}
	for {
		_, err := unix.Poll(fds, -1)
		if err == unix.EINTR {
			continue
		}
		return err
	}
}

// ShutdownSend implements api.Transport.
func (s *Socket) ShutdownSend() {
	_ = unix.Shutdown(s.fd, unix.SHUT_WR)
}

// ShutdownReceive implements api.Transport.
func (s *Socket) ShutdownReceive() {
	_ = unix.Shutdown(s.fd, unix.SHUT_RD)
}

// Close implements api.Transport. Safe to call more than once.
func (s *Socket) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = unix.Close(s.fd)
	})
	return s.closeErr
}
