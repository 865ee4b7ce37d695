// Package remote wraps the FTP session against a data host. Connect is the
// only place protocol details live; everything above it sees the Session
// interface.
package remote

import (
	"fmt"
	"io"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/ccarocean/copernicus-sync/internal/logging"
	"github.com/ccarocean/copernicus-sync/internal/utils"
)

// Entry is one name in a remote directory listing.
type Entry struct {
	Name     string
	Dir      bool
	Size     int64
	Modified time.Time
}

// Session is the capability the mirror needs from the remote side: list a
// directory and stream a file. Paths are relative to the dataset base
// directory the session was opened on.
type Session interface {
	List(dir string) ([]Entry, error)
	Retrieve(path string, w io.Writer) error
	Close() error
}

// ftpSession is a Session over a single FTP connection.
type ftpSession struct {
	conn *ftp.ServerConn
	host string
	log  logging.Logger
}

// Connect dials host, authenticates and changes into basePath. Any failure
// up to that point closes the connection and is reported as an
// authentication/navigation failure; no reconciliation may start after one.
func Connect(host, user, password, basePath string, timeout time.Duration, log logging.Logger) (Session, error) {
	addr := fmt.Sprintf("%s:%d", host, utils.FTPPort)
	log.Debug("dialing", logging.F("addr", addr))

	conn, err := ftp.Dial(addr, ftp.DialWithTimeout(timeout))
	if err != nil {
		return nil, utils.WrapError(utils.ErrCodeNetworkError, "failed to connect to "+addr, err)
	}

	if err := conn.Login(user, password); err != nil {
		_ = conn.Quit()
		return nil, utils.WrapError(utils.ErrCodeAuthFailed, "login rejected by "+host, err)
	}
	log.Debug("logged in", logging.F("host", host), logging.F("user", user))

	if err := conn.ChangeDir(basePath); err != nil {
		_ = conn.Quit()
		return nil, utils.WrapError(utils.ErrCodeAuthFailed, "cannot enter remote base path "+basePath, err)
	}

	return &ftpSession{conn: conn, host: host, log: log}, nil
}

// List returns the entries of dir, relative to the session base path.
func (s *ftpSession) List(dir string) ([]Entry, error) {
	raw, err := s.conn.List(dir)
	if err != nil {
		return nil, utils.WrapError(utils.ErrCodeNetworkError, "failed to list "+dir, err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, e := range raw {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		entries = append(entries, Entry{
			Name:     e.Name,
			Dir:      e.Type == ftp.EntryTypeFolder,
			Size:     int64(e.Size),
			Modified: e.Time,
		})
	}
	return entries, nil
}

// Retrieve streams the remote file at path into w.
func (s *ftpSession) Retrieve(path string, w io.Writer) error {
	resp, err := s.conn.Retr(path)
	if err != nil {
		return utils.WrapError(utils.ErrCodeTransferFailed, "failed to retrieve "+path, err)
	}
	defer resp.Close()

	if _, err := io.Copy(w, resp); err != nil {
		return utils.WrapError(utils.ErrCodeTransferFailed, "transfer interrupted for "+path, err)
	}
	return nil
}

// Close ends the session. Safe to call after a failed operation.
func (s *ftpSession) Close() error {
	s.log.Debug("closing session", logging.F("host", s.host))
	return s.conn.Quit()
}
