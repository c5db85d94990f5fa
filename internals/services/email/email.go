package email

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
)

// Message is a plain-text email with an optional HTML part.
type Message struct {
	To      []mail.Address
	Subject string
	Text    string
	HTML    string
}

func (m Message) HasRecipients() bool { return len(m.To) > 0 }

// Mailer delivers messages synchronously; callers decide whether a failure matters.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New picks SendGrid when an API key is configured, else logs messages.
func New(apiKey, appName, from string) Mailer {
	if strings.TrimSpace(apiKey) != "" {
		return NewSendgridMailer(apiKey, appName, from)
	}
	return NewLogMailer(appName, from)
}

/* ===== templates ===== */

type RoomAssignment struct {
	StudentName   string
	StudentEmail  string
	DormName      string
	RoomNumber    string
	RoomType      string
	SemesterCount int
	PricePerSem   string
	TotalFee      string
}

func RoomAssignmentMessage(a RoomAssignment) Message {
	text := fmt.Sprintf(
		"Hello %s,\n\nYou have been assigned to room %s (%s) at %s for %d semester(s).\n"+
			"Fee per semester: %s\nTotal fee: %s\n\nPlease contact the dormitory office if anything is incorrect.\n",
		a.StudentName, a.RoomNumber, a.RoomType, a.DormName, a.SemesterCount, a.PricePerSem, a.TotalFee,
	)
	return Message{
		To:      []mail.Address{{Name: a.StudentName, Address: a.StudentEmail}},
		Subject: "Room assignment: " + a.RoomNumber,
		Text:    text,
	}
}

/* ===== in-memory (tests, dry runs) ===== */

var ErrMailerDown = errors.New("mailer unavailable")

type MemoryMailer struct {
	mu   sync.Mutex
	Sent []Message
	Fail error
}

func (m *MemoryMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

func (m *MemoryMailer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
