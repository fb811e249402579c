package memory

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"helpdesk/app/config"

	"github.com/samber/do"
)

const memoryFileName = "memory.json"

// Service tracks per-conversation memory. State lives in a JSON-lines file
// under the data dir, one conversation per line, loaded and rewritten whole
// on every mutation. The mutex makes concurrent /chat requests safe.
type Service struct {
	cfg      *config.Config
	filePath string
	mu       sync.RWMutex
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	if err := os.MkdirAll(cfg.Data.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	filePath := filepath.Join(cfg.Data.Dir, memoryFileName)

	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory file: %w", err)
	}
	defer file.Close()

	return &Service{
		cfg:      cfg,
		filePath: filePath,
	}, nil
}

func (s *Service) loadAll() ([]*Conversation, error) {
	file, err := os.OpenFile(s.filePath, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open memory file: %w", err)
	}
	defer file.Close()

	conversations := []*Conversation{}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var conv Conversation
		if err = json.Unmarshal([]byte(line), &conv); err != nil {
			return nil, fmt.Errorf("failed to parse JSON line: %w", err)
		}

		conversations = append(conversations, &conv)
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading memory file: %w", err)
	}

	return conversations, nil
}

func (s *Service) saveAll(conversations []*Conversation) error {
	file, err := os.OpenFile(s.filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create/open memory file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	for _, conv := range conversations {
		data, err := json.Marshal(conv)
		if err != nil {
			return fmt.Errorf("failed to marshal conversation: %w", err)
		}
		if _, err = writer.WriteString(string(data) + "\n"); err != nil {
			return fmt.Errorf("failed to write conversation: %w", err)
		}
	}

	if err = writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	return nil
}

// update loads the store, applies fn to the conversation (creating it if
// needed) and writes the store back.
func (s *Service) update(conversationID string, fn func(conv *Conversation)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations, err := s.loadAll()
	if err != nil {
		return err
	}

	var conv *Conversation
	for _, c := range conversations {
		if c.ID == conversationID {
			conv = c
			break
		}
	}

	if conv == nil {
		conv = &Conversation{ID: conversationID}
		conversations = append(conversations, conv)
	}

	fn(conv)

	return s.saveAll(conversations)
}

// RecordProduct remembers a product discussed in the conversation, once.
func (s *Service) RecordProduct(conversationID, name string) error {
	return s.update(conversationID, func(conv *Conversation) {
		for _, existing := range conv.Products {
			if existing == name {
				return
			}
		}
		conv.Products = append(conv.Products, name)
	})
}

func (s *Service) RecordOrder(conversationID, orderID string) error {
	return s.update(conversationID, func(conv *Conversation) {
		conv.LastOrderID = orderID
	})
}

func (s *Service) RecordIntent(conversationID, intent string) error {
	return s.update(conversationID, func(conv *Conversation) {
		conv.LastIntent = intent
	})
}

func (s *Service) RecordTurn(conversationID, role, text string) error {
	return s.update(conversationID, func(conv *Conversation) {
		conv.addTurn(role, text)
	})
}

// Snapshot returns a copy of the conversation state. Unknown ids yield an
// empty conversation, not an error.
func (s *Service) Snapshot(conversationID string) (Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conversations, err := s.loadAll()
	if err != nil {
		return Conversation{}, err
	}

	for _, conv := range conversations {
		if conv.ID == conversationID {
			return conv.clone(), nil
		}
	}

	return Conversation{ID: conversationID}, nil
}

// ProductsDiscussed lists remembered product names in mention order.
func (s *Service) ProductsDiscussed(conversationID string) ([]string, error) {
	snapshot, err := s.Snapshot(conversationID)
	if err != nil {
		return nil, err
	}

	return snapshot.Products, nil
}
