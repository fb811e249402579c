package transcript

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"helpdesk/app/config"

	"github.com/samber/do"
)

const (
	bufferSize         = 64
	transcriptFileName = "transcripts.jsonl"
)

var _ do.Shutdownable = (*Service)(nil)

// Service buffers chat turns and appends them to a JSON-lines file in the
// background, so transcript IO never sits on the request path. When the
// buffer is full entries are dropped with a warning.
type Service struct {
	filePath string
	queue    chan Entry
}

type Entry struct {
	Time           time.Time `json:"time"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Text           string    `json:"text"`
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	if err := os.MkdirAll(cfg.Data.Dir, 0755); err != nil {
		return nil, err
	}

	return &Service{
		filePath: filepath.Join(cfg.Data.Dir, transcriptFileName),
		queue:    make(chan Entry, bufferSize),
	}, nil
}

func (s *Service) Add(conversationID, role, text string) {
	defer func() {
		// Shutdown may close the queue while a request is in flight; the
		// entry is dropped like on the queue-full path.
		if r := recover(); r != nil {
			slog.Warn("transcript entry dropped after shutdown",
				"conversation_id", conversationID,
				"role", role,
			)
		}
	}()

	entry := Entry{
		Time:           time.Now(),
		ConversationID: conversationID,
		Role:           role,
		Text:           text,
	}

	select {
	case s.queue <- entry:
	default:
		slog.Warn("transcript queue is full")
	}
}

// Run drains the queue until the context is cancelled or the queue closes.
func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-s.queue:
			if !ok {
				return
			}

			if err := s.append(entry); err != nil {
				slog.Error("Failed to write transcript entry", "error", err)
			}
		}
	}
}

func (s *Service) append(entry Entry) error {
	file, err := os.OpenFile(s.filePath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	if _, err = writer.WriteString(string(data) + "\n"); err != nil {
		return err
	}

	return writer.Flush()
}

func (s *Service) Shutdown() error {
	close(s.queue)

	return nil
}
