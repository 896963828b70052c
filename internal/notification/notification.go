// Package notification sends a recommendation shortlist to a shopper by email
// (SES) or SMS (SNS).
package notification

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"

	"insurance-workers/internal/models"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"

	StatusSent = "sent"
)

var (
	ErrChannelDisabled    = errors.New("notification channel disabled")
	ErrUnsupportedChannel = errors.New("unsupported notification channel")
	ErrInvalidRecipient   = errors.New("invalid recipient")
	ErrNothingToSend      = errors.New("no policies to send")
)

var e164 = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Config struct {
	EmailEnabled bool
	FromEmail    string
	SMSEnabled   bool
	SMSSenderID  string
}

// Message is one shortlist delivery request.
type Message struct {
	Channel   string
	Recipient string
	Name      string
	Policies  []models.PolicyRecord
}

type Sender struct {
	config Config
	ses    SESAPI
	sns    SNSAPI
	now    func() time.Time
}

// NewSender builds a Sender. A nil client disables its channel.
func NewSender(cfg Config, sesClient SESAPI, snsClient SNSAPI) *Sender {
	return &Sender{config: cfg, ses: sesClient, sns: snsClient, now: time.Now}
}

// Validate checks msg without sending it.
func (s *Sender) Validate(msg Message) error {
	if len(msg.Policies) == 0 {
		return ErrNothingToSend
	}
	switch msg.Channel {
	case ChannelEmail:
		if !s.config.EmailEnabled || s.ses == nil {
			return fmt.Errorf("%w: %s", ErrChannelDisabled, msg.Channel)
		}
		if addr, err := mail.ParseAddress(msg.Recipient); err != nil || addr.Name != "" {
			return fmt.Errorf("%w: %q is not an email address", ErrInvalidRecipient, msg.Recipient)
		}
	case ChannelSMS:
		if !s.config.SMSEnabled || s.sns == nil {
			return fmt.Errorf("%w: %s", ErrChannelDisabled, msg.Channel)
		}
		if !e164.MatchString(msg.Recipient) {
			return fmt.Errorf("%w: %q is not an E.164 phone number", ErrInvalidRecipient, msg.Recipient)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedChannel, msg.Channel)
	}
	return nil
}

// Send renders and delivers msg. The returned notification carries a fresh id.
func (s *Sender) Send(ctx context.Context, msg Message) (*models.Notification, error) {
	if err := s.Validate(msg); err != nil {
		return nil, err
	}

	n := &models.Notification{
		ID:        uuid.NewString(),
		Recipient: msg.Recipient,
		Channel:   msg.Channel,
	}

	switch msg.Channel {
	case ChannelEmail:
		subject, text, html, err := RenderEmail(msg.Name, msg.Policies)
		if err != nil {
			return nil, err
		}
		n.Subject, n.Body = subject, text
		if err := s.sendEmail(ctx, msg.Recipient, subject, text, html); err != nil {
			return nil, err
		}
	case ChannelSMS:
		n.Body = RenderSMS(msg.Policies)
		if err := s.sendSMS(ctx, msg.Recipient, n.Body); err != nil {
			return nil, err
		}
	}

	n.Status = StatusSent
	n.SentAt = s.now().UTC().Format(time.RFC3339)
	return n, nil
}

func (s *Sender) sendEmail(ctx context.Context, to, subject, text, html string) error {
	_, err := s.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{ToAddresses: []string{to}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(text), Charset: aws.String("UTF-8")},
				Html: &sestypes.Content{Data: aws.String(html), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(s.config.FromEmail),
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}

func (s *Sender) sendSMS(ctx context.Context, to, body string) error {
	input := &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(body),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {DataType: aws.String("String"), StringValue: aws.String("Transactional")},
		},
	}
	if id := strings.TrimSpace(s.config.SMSSenderID); id != "" {
		input.MessageAttributes["AWS.SNS.SMS.SenderID"] = snstypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(id),
		}
	}

	if _, err := s.sns.Publish(ctx, input); err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}
