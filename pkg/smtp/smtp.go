package smtp

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// Client sends plain text mail through a gomail dialer.
type Client struct {
	dialer *gomail.Dialer
	from   string
	domain string
}

// NewClient creates a Client. domain is used for generated Message-ID headers.
func NewClient(dialer *gomail.Dialer, from, domain string) *Client {
	return &Client{
		dialer: dialer,
		from:   from,
		domain: domain,
	}
}

// Send delivers one message to a single recipient.
func (c *Client) Send(to, subject, body string) error {
	msg := c.NewMessage(to, subject, body)
	if err := c.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// NewMessage builds the message Send would deliver.
func (c *Client) NewMessage(to, subject, body string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("Message-ID", generateMessageID(c.domain))
	msg.SetHeader("Date", time.Now().Format(time.RFC1123Z))
	msg.SetHeader("From", c.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg
}

func generateMessageID(domain string) string {
	uniqueID := uuid.New().String()
	return fmt.Sprintf("<%s@%s>", uniqueID, domain)
}
