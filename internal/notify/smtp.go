package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"

	"clinicdesk/internal/domain"
)

// ClinicInfo is the clinic contact metadata included in every notification.
type ClinicInfo struct {
	Name       string
	DoctorName string
	Email      string
	Phone      string
	Website    string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	AdminEmail string
}

// SMTPNotifier delivers new-booking notices to the clinic administrator over
// an authenticated mail relay. Delivery failure is independent of the
// booking outcome; callers treat it as a warning, never a rollback.
type SMTPNotifier struct {
	cfg    SMTPConfig
	clinic ClinicInfo
	auth   smtp.Auth

	// sendMail is swapped out in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(cfg SMTPConfig, clinic ClinicInfo) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:      cfg,
		clinic:   clinic,
		auth:     smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
		sendMail: smtp.SendMail,
	}
}

func (n *SMTPNotifier) Send(ctx context.Context, appt domain.Appointment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	msg := buildMessage(n.cfg.From, n.cfg.AdminEmail, n.clinic, appt, time.Now())

	// net/smtp has no context support, so delivery runs on its own
	// goroutine and the caller's deadline is enforced here. On timeout the
	// goroutine is abandoned to finish (or fail) on its own.
	done := make(chan error, 1)
	go func() {
		done <- n.sendMail(addr, n.auth, n.cfg.From, []string{n.cfg.AdminEmail}, msg)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("notify admin via %s: %w", addr, ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("notify admin via %s: %w", addr, err)
		}
		return nil
	}
}

func buildMessage(from, to string, clinic ClinicInfo, appt domain.Appointment, now time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: New Appointment Booking\r\n")
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: <%s@%s>\r\n", uuid.NewString(), domainPart(from))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "New appointment booked at %s (%s):\r\n\r\n", clinic.Name, clinic.DoctorName)
	fmt.Fprintf(&b, "Date: %s\r\n", appt.Date.Format(domain.DateLayout))
	fmt.Fprintf(&b, "Time: %s\r\n", appt.Slot)
	fmt.Fprintf(&b, "Name: %s\r\n", appt.PatientName)
	fmt.Fprintf(&b, "Age: %d\r\n", appt.PatientAge)
	fmt.Fprintf(&b, "Gender: %s\r\n", appt.Gender)
	fmt.Fprintf(&b, "History: %s\r\n", appt.History)
	fmt.Fprintf(&b, "Contact Number: %s\r\n", appt.Contact)
	fmt.Fprintf(&b, "\r\nClinic phone: %s\r\nWebsite: %s\r\n", clinic.Phone, clinic.Website)

	return []byte(b.String())
}

func domainPart(addr string) string {
	if i := strings.LastIndex(addr, "@"); i >= 0 && i+1 < len(addr) {
		return addr[i+1:]
	}
	return "localhost"
}
