package splitting

import (
	"fmt"
	"time"
)

// Step is the navigation step of a session
type Step int

const (
	StepCollectParticipants Step = iota
	StepCapture
	StepAssign
	StepResults
)

var stepNames = map[Step]string{
	StepCollectParticipants: "COLLECT_PARTICIPANTS",
	StepCapture:             "CAPTURE",
	StepAssign:              "ASSIGN",
	StepResults:             "RESULTS",
}

// String returns the step name
func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// ParseStep reads a step from its name
func ParseStep(name string) (Step, error) {
	for step, n := range stepNames {
		if n == name {
			return step, nil
		}
	}
	return 0, fmt.Errorf("unknown step %q", name)
}

// MarshalText encodes the step as its name
func (s Step) MarshalText() ([]byte, error) {
	if _, ok := stepNames[s]; !ok {
		return nil, fmt.Errorf("unknown step %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a step name
func (s *Step) UnmarshalText(text []byte) error {
	step, err := ParseStep(string(text))
	if err != nil {
		return err
	}
	*s = step
	return nil
}

// ReceiptInfo is what the scanner reported about the receipt besides its items
type ReceiptInfo struct {
	Merchant  string `json:"merchant,omitempty"`
	Date      string `json:"date,omitempty"`
	Currency  string `json:"currency,omitempty"`
	ImageType string `json:"image_type,omitempty"` // content type of the stored upload, if any
}

// Session is the state of one bill being split. Like Ledger, a Session is a
// value and its methods return updated copies.
type Session struct {
	ID               string       `json:"id"`
	Step             Step         `json:"step"`
	Ledger           Ledger       `json:"ledger"`
	Receipt          *ReceiptInfo `json:"receipt,omitempty"`
	Processing       bool         `json:"processing"`
	ProcessingStatus string       `json:"processing_status,omitempty"`
	ErrorMessage     string       `json:"error_message,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// NewSession creates an empty session on the first step
func NewSession(id string, now time.Time) Session {
	return Session{
		ID:        id,
		Step:      StepCollectParticipants,
		Ledger:    NewLedger(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s Session) clone() Session {
	s.Ledger = s.Ledger.clone()
	if s.Receipt != nil {
		info := *s.Receipt
		s.Receipt = &info
	}
	return s
}

// GoTo moves the session to step
func (s Session) GoTo(step Step) Session {
	out := s.clone()
	out.Step = step
	return out
}

// Reset discards participants, items and flags. The id and creation time are
// kept.
func (s Session) Reset() Session {
	return NewSession(s.ID, s.CreatedAt)
}

// WithLedger replaces the participants and items
func (s Session) WithLedger(l Ledger) Session {
	out := s.clone()
	out.Ledger = l.clone()
	return out
}

// StartProcessing marks the session busy and clears any previous error
func (s Session) StartProcessing(status string) Session {
	out := s.clone()
	out.Processing = true
	out.ProcessingStatus = status
	out.ErrorMessage = ""
	return out
}

// WithError ends processing with a user-facing error message
func (s Session) WithError(msg string) Session {
	out := s.clone()
	out.Processing = false
	out.ProcessingStatus = ""
	out.ErrorMessage = msg
	return out
}

// ClearError dismisses the error message
func (s Session) ClearError() Session {
	out := s.clone()
	out.ErrorMessage = ""
	return out
}

// WithReceipt installs freshly scanned items, ends processing and moves the
// session to the assignment step.
func (s Session) WithReceipt(items []LineItem, info *ReceiptInfo) Session {
	out := s.clone()
	out.Ledger = out.Ledger.WithItems(items)
	if info != nil {
		copied := *info
		out.Receipt = &copied
	} else {
		out.Receipt = nil
	}
	out.Processing = false
	out.ProcessingStatus = ""
	out.ErrorMessage = ""
	out.Step = StepAssign
	return out
}

// Touch sets the update time
func (s Session) Touch(now time.Time) Session {
	s.UpdatedAt = now
	return s
}
