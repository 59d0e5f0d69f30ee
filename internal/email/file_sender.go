package email

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"
)

const fileEntryTrailer = "--- End Logged Email ---"

// FileEmailSender appends every outgoing message to a local mailbox file.
// It is the copy kept next to SMTP when EMAIL_LOG_FILE is set.
type FileEmailSender struct {
	path string
	log  logr.Logger
	now  func() time.Time

	mu sync.Mutex
	f  *os.File
}

// NewFileEmailSender opens path for appending, creating missing directories.
func NewFileEmailSender(path string, log logr.Logger) (*FileEmailSender, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("email log file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create email log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open email log %s: %w", path, err)
	}
	return &FileEmailSender{path: path, log: log.WithName("mailbox"), now: time.Now, f: f}, nil
}

func (s *FileEmailSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return fmt.Errorf("email log %s is closed", s.path)
	}

	w := bufio.NewWriter(s.f)
	fmt.Fprintf(w, "--- Email Logged at %s (To: %s, Subject: %s) ---\n",
		s.now().UTC().Format(time.RFC3339), strings.Join(to, ", "), subject)
	w.Write(rawMessage)
	if len(rawMessage) > 0 && rawMessage[len(rawMessage)-1] != '\n' {
		w.WriteByte('\n')
	}
	w.WriteString(fileEntryTrailer + "\n\n")
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write email log %s: %w", s.path, err)
	}
	s.log.V(1).Info("email appended", "to", to, "subject", subject)
	return nil
}

// Close releases the file handle. Later sends fail.
func (s *FileEmailSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}
