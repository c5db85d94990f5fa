package email

import (
	"context"
	"log"
	"strings"
)

type logMailer struct {
	from       string
	subjPrefix string
}

var _ Mailer = (*logMailer)(nil)

func NewLogMailer(appName, from string) Mailer {
	return &logMailer{from: from, subjPrefix: "[" + appName + "] "}
}

func (l *logMailer) Send(_ context.Context, msg Message) error {
	if !msg.HasRecipients() {
		return nil
	}
	to := make([]string, 0, len(msg.To))
	for _, a := range msg.To {
		to = append(to, a.String())
	}
	log.Printf("[INFO] [MAIL] from=%s to=%s subject=%q\n%s", l.from, strings.Join(to, ", "), l.subjPrefix+msg.Subject, msg.Text)
	return nil
}
