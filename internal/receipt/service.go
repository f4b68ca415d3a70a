package receipt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/receipt-splitter/internal/parsing"
	"github.com/zombor/receipt-splitter/internal/scanning"
	"github.com/zombor/receipt-splitter/internal/splitting"
)

// IDGenerator generates unique IDs for sessions and line items
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates random UUIDs
type defaultIDGenerator struct{}

// Generate returns a random UUID
func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

// Now returns the current time
func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithParser replaces the default text parser
func WithParser(p *parsing.Parser) ServiceOption {
	return func(s *Service) {
		s.parser = p
	}
}

// WithMetrics records service activity in m
func WithMetrics(m *Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// Service handles session operations. Read-modify-write cycles on a session
// are serialized; scanner calls run outside the lock.
type Service struct {
	mu          sync.Mutex
	store       SessionStore
	scanner     scanning.Scanner
	storage     Storage
	parser      *parsing.Parser
	metrics     *Metrics
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time
// source. scanner may be nil, in which case only text receipts are accepted.
func NewService(store SessionStore, scanner scanning.Scanner, storage Storage, opts ...ServiceOption) *Service {
	return NewServiceWithDeps(store, scanner, storage, &defaultIDGenerator{}, &defaultTimeSource{}, opts...)
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(store SessionStore, scanner scanning.Scanner, storage Storage, idGen IDGenerator, timeSrc TimeSource, opts ...ServiceOption) *Service {
	s := &Service{
		store:       store,
		scanner:     scanner,
		storage:     storage,
		parser:      parsing.NewParser(),
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// update applies fn to the stored session and saves the result
func (s *Service) update(id string, fn func(splitting.Session) (splitting.Session, error)) (splitting.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.store.GetSession(id)
	if err != nil {
		return splitting.Session{}, fmt.Errorf("getting session: %w", err)
	}

	updated, err := fn(session)
	if err != nil {
		return splitting.Session{}, err
	}
	updated = updated.Touch(s.timeSource.Now())

	if err := s.store.SaveSession(updated); err != nil {
		return splitting.Session{}, fmt.Errorf("saving session: %w", err)
	}
	return updated, nil
}

// Parse extracts items from receipt text without touching any session
func (s *Service) Parse(text string) []parsing.Item {
	items := s.parser.Parse(text)
	s.metrics.observeParse(items)
	return items
}

// CreateSession starts a new, empty session
func (s *Service) CreateSession() (splitting.Session, error) {
	session := splitting.NewSession(s.idGenerator.Generate(), s.timeSource.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.SaveSession(session); err != nil {
		return splitting.Session{}, fmt.Errorf("saving session: %w", err)
	}

	s.metrics.sessionCreated()
	slog.Info("Session created", "session_id", session.ID)
	return session, nil
}

// GetSession retrieves a session by ID
func (s *Service) GetSession(id string) (splitting.Session, error) {
	session, err := s.store.GetSession(id)
	if err != nil {
		return splitting.Session{}, fmt.Errorf("getting session: %w", err)
	}
	return session, nil
}

// ListSessions returns all sessions
func (s *Service) ListSessions() ([]splitting.Session, error) {
	sessions, err := s.store.ListSessions()
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return sessions, nil
}

// DeleteSession removes a session and its receipt image
func (s *Service) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.GetSession(id); err != nil {
		return fmt.Errorf("getting session for deletion: %w", err)
	}

	s.deleteImage(id)

	if err := s.store.DeleteSession(id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	slog.Info("Session deleted", "session_id", id)
	return nil
}

// AddParticipant validates and adds a participant. Adding a name that is
// already present leaves the session unchanged.
func (s *Service) AddParticipant(id, name string) (splitting.Session, error) {
	if err := splitting.ValidateParticipantName(name); err != nil {
		return splitting.Session{}, err
	}
	return s.update(id, func(session splitting.Session) (splitting.Session, error) {
		return session.WithLedger(session.Ledger.AddParticipant(name)), nil
	})
}

// RemoveParticipant removes a participant and all of their assignments
func (s *Service) RemoveParticipant(id, name string) (splitting.Session, error) {
	return s.update(id, func(session splitting.Session) (splitting.Session, error) {
		return session.WithLedger(session.Ledger.RemoveParticipant(name)), nil
	})
}

// ToggleAssignment assigns or unassigns a participant to an item
func (s *Service) ToggleAssignment(id, itemID, name string) (splitting.Session, error) {
	return s.update(id, func(session splitting.Session) (splitting.Session, error) {
		if _, ok := session.Ledger.Item(itemID); !ok {
			return session, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
		}
		if !session.Ledger.HasParticipant(name) {
			return session, &splitting.ValidationError{Message: fmt.Sprintf("%s is not a participant", name)}
		}
		return session.WithLedger(session.Ledger.ToggleAssignment(itemID, name)), nil
	})
}

// GoToStep moves the session to step
func (s *Service) GoToStep(id string, step splitting.Step) (splitting.Session, error) {
	session, err := s.update(id, func(session splitting.Session) (splitting.Session, error) {
		return session.GoTo(step), nil
	})
	if err == nil {
		slog.Debug("Navigating to step", "session_id", id, "step", step)
	}
	return session, err
}

// Reset discards everything in the session except its id
func (s *Service) Reset(id string) (splitting.Session, error) {
	session, err := s.update(id, func(session splitting.Session) (splitting.Session, error) {
		return session.Reset(), nil
	})
	if err != nil {
		return splitting.Session{}, err
	}
	s.deleteImage(id)
	slog.Info("Session reset", "session_id", id)
	return session, nil
}

// ClearError dismisses the session error message
func (s *Service) ClearError(id string) (splitting.Session, error) {
	return s.update(id, func(session splitting.Session) (splitting.Session, error) {
		return session.ClearError(), nil
	})
}

// ProcessReceiptText parses OCR text into the session items
func (s *Service) ProcessReceiptText(id, text string) (splitting.Session, error) {
	session, err := s.applyItems(id, s.Parse(text), nil)
	if err != nil {
		return session, err
	}
	// a typed receipt replaces any earlier upload
	s.deleteImage(id)
	return session, nil
}

// ProcessReceiptImage stores the image, sends it to the scanner and installs
// the resulting items. When the scanner does not return structured items the
// text it read is run through the parser instead. Failures are recorded on
// the session as a user-facing message and returned.
func (s *Service) ProcessReceiptImage(ctx context.Context, id string, data []byte, contentType string) (splitting.Session, error) {
	if s.scanner == nil {
		return splitting.Session{}, ErrNoScanner
	}

	if _, err := s.update(id, func(session splitting.Session) (splitting.Session, error) {
		return session.StartProcessing("Analyzing receipt..."), nil
	}); err != nil {
		return splitting.Session{}, err
	}

	if err := s.storage.Save(id, data); err != nil {
		return s.fail(id, fmt.Errorf("saving file: %w", err))
	}

	start := s.timeSource.Now()
	items, info, err := s.scan(ctx, data, contentType)
	elapsed := s.timeSource.Now().Sub(start)
	if err != nil {
		slog.Error("Failed to scan receipt",
			"session_id", id,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		s.metrics.observeScan("error", elapsed)
		s.deleteImage(id)
		return s.fail(id, &ScanError{Err: err})
	}

	if len(items) == 0 {
		s.metrics.observeScan("no_items", elapsed)
	} else {
		s.metrics.observeScan("ok", elapsed)
	}
	info.ImageType = contentType
	if info.ImageType == "" {
		info.ImageType = "application/octet-stream"
	}
	return s.applyItems(id, items, info)
}

// scan asks the scanner for structured items, falling back to parsing text
// when the reply carries none.
func (s *Service) scan(ctx context.Context, data []byte, contentType string) ([]parsing.Item, *splitting.ReceiptInfo, error) {
	receiptData, err := s.scanner.ScanReceipt(ctx, data, contentType)
	if err != nil {
		return nil, nil, err
	}

	info := &splitting.ReceiptInfo{
		Merchant: receiptData.Merchant,
		Date:     receiptData.Date,
		Currency: receiptData.Currency,
	}

	if items := receiptData.ParsedItems(); len(items) > 0 {
		return items, info, nil
	}

	text := receiptData.RawText
	if strings.TrimSpace(text) == "" {
		text, err = s.scanner.ReadText(ctx, data, contentType)
		if err != nil {
			slog.Warn("Failed to read receipt text", "error", err)
			return nil, info, nil
		}
	}
	return s.Parse(text), info, nil
}

func (s *Service) applyItems(id string, items []parsing.Item, info *splitting.ReceiptInfo) (splitting.Session, error) {
	if len(items) == 0 {
		session, err := s.update(id, func(session splitting.Session) (splitting.Session, error) {
			return session.WithError(noItemsMessage), nil
		})
		if err != nil {
			return splitting.Session{}, err
		}
		s.deleteImage(id)
		return session, ErrNoItemsFound
	}

	lineItems := splitting.NewLineItems(items, s.idGenerator.Generate)
	session, err := s.update(id, func(session splitting.Session) (splitting.Session, error) {
		return session.WithReceipt(lineItems, info), nil
	})
	if err != nil {
		return splitting.Session{}, err
	}
	for _, item := range lineItems {
		slog.Debug("Item", "session_id", id, "name", item.Name, "quantity", item.Quantity, "unit_price", item.UnitPrice, "total_price", item.TotalPrice)
	}
	slog.Info("Receipt processed", "session_id", id, "items", len(lineItems), "source", lineItems[0].Source)
	return session, nil
}

// fail records cause on the session and returns it
func (s *Service) fail(id string, cause error) (splitting.Session, error) {
	session, err := s.update(id, func(session splitting.Session) (splitting.Session, error) {
		return session.WithError(fmt.Sprintf(scanErrorFormat, errors.Unwrap(cause))), nil
	})
	if err != nil {
		return splitting.Session{}, errors.Join(cause, err)
	}
	return session, cause
}

// Results computes what each participant owes
func (s *Service) Results(id string) (Results, error) {
	session, err := s.GetSession(id)
	if err != nil {
		return Results{}, err
	}
	return newResults(session), nil
}

// ExportResultsCSV renders the per-person totals as CSV
func (s *Service) ExportResultsCSV(id string) ([]byte, error) {
	results, err := s.Results(id)
	if err != nil {
		return nil, err
	}
	data, err := totalsCSV(results.Totals)
	if err != nil {
		return nil, fmt.Errorf("exporting results: %w", err)
	}
	return data, nil
}

// ReceiptImage returns the stored upload of a session and its content type
func (s *Service) ReceiptImage(id string) ([]byte, string, error) {
	session, err := s.GetSession(id)
	if err != nil {
		return nil, "", err
	}
	if session.Receipt == nil || session.Receipt.ImageType == "" {
		return nil, "", fmt.Errorf("%w: %s", ErrImageNotFound, id)
	}

	data, err := s.storage.Get(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt image: %w", err)
	}
	return data, session.Receipt.ImageType, nil
}

func (s *Service) deleteImage(id string) {
	if err := s.storage.Delete(id); err != nil {
		slog.Warn("Failed to delete receipt image", "session_id", id, "error", err)
	}
}
