package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"fleetrent/internal/config"
	"fleetrent/internal/db"
	"fleetrent/internal/entities"
)

const bookingEmailTemplate = `<html>
<body style="font-family: sans-serif; color: #222;">
	<h2>Your booking is {{.Status}}</h2>
	<p>Hello {{.CustomerName}},</p>
	<p>Booking #{{.BookingID}} for {{.VehicleLabel}} is now <strong>{{.Status}}</strong>.</p>
	<ul>
		<li>Pickup: {{.StartDateFormatted}}</li>
		<li>Return: {{.EndDateFormatted}}</li>
		<li>Total: ${{printf "%.2f" .TotalPrice}}</li>
	</ul>
	<p>Thank you for choosing FleetRent.</p>
</body>
</html>`

// NotifyService sends booking lifecycle notifications over SendGrid and
// Twilio. Delivery runs in the background; failures are logged, never
// surfaced to the request.
type NotifyService struct {
	cfg    *config.Config
	logger *zap.Logger
	tmpl   *template.Template
}

func NewNotifyService(cfg *config.Config, logger *zap.Logger) *NotifyService {
	return &NotifyService{
		cfg:    cfg,
		logger: logger,
		tmpl:   template.Must(template.New("booking_email").Parse(bookingEmailTemplate)),
	}
}

func (s *NotifyService) BookingStatusChanged(booking *entities.BookingResponse, status db.BookingStatus) {
	if booking == nil || booking.Customer == nil {
		return
	}

	data := entities.BookingEmailData{
		CustomerName:       booking.Customer.FullName,
		CustomerEmail:      booking.Customer.Email,
		CustomerPhone:      booking.Customer.Phone,
		BookingID:          booking.ID,
		StartDateFormatted: booking.StartDate.Format("02 Jan 2006"),
		EndDateFormatted:   booking.EndDate.Format("02 Jan 2006"),
		TotalPrice:         booking.TotalPrice,
		Status:             strings.ToLower(string(status)),
	}
	if booking.Vehicle != nil {
		data.VehicleLabel = fmt.Sprintf("%s %s (%s)", booking.Vehicle.Brand, booking.Vehicle.Model, booking.Vehicle.PlateNumber)
	}

	go s.deliver(data)
}

func (s *NotifyService) deliver(data entities.BookingEmailData) {
	if data.CustomerEmail != "" {
		subject := fmt.Sprintf("Your FleetRent booking #%d is %s", data.BookingID, data.Status)
		plainBody := fmt.Sprintf(
			"Hello %s,\n\nBooking #%d for %s is now %s.\n\n"+
				"Pickup: %s\nReturn: %s\nTotal: $%.2f\n\n"+
				"Thank you for choosing FleetRent.",
			data.CustomerName, data.BookingID, data.VehicleLabel, data.Status,
			data.StartDateFormatted, data.EndDateFormatted, data.TotalPrice,
		)

		var htmlBody bytes.Buffer
		if err := s.tmpl.Execute(&htmlBody, data); err != nil {
			s.logger.Warn("could not render booking email", zap.Int("booking_id", data.BookingID), zap.Error(err))
		}

		if err := s.sendEmail(data.CustomerEmail, data.CustomerName, subject, plainBody, htmlBody.String()); err != nil {
			s.logger.Warn("booking email delivery failed",
				zap.Int("booking_id", data.BookingID), zap.String("to", data.CustomerEmail), zap.Error(err))
		}
	}

	if data.CustomerPhone != "" {
		sms := fmt.Sprintf("FleetRent: booking #%d is %s. Pickup %s. Details in your email.",
			data.BookingID, data.Status, data.StartDateFormatted)
		if err := s.sendSMS(data.CustomerPhone, sms); err != nil {
			s.logger.Warn("booking SMS delivery failed",
				zap.Int("booking_id", data.BookingID), zap.String("to", data.CustomerPhone), zap.Error(err))
		}
	}
}

func (s *NotifyService) sendEmail(toEmail, toName, subject, plainBody, htmlBody string) error {
	if s.cfg.SendgridAPIKey == "" || s.cfg.SendgridFromEmail == "" {
		return fmt.Errorf("sendgrid is not configured")
	}

	from := mail.NewEmail("FleetRent", s.cfg.SendgridFromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainBody, htmlBody)

	client := sendgrid.NewSendClient(s.cfg.SendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *NotifyService) sendSMS(toNumber, body string) error {
	if s.cfg.TwilioAccountSID == "" || s.cfg.TwilioAuthToken == "" || s.cfg.TwilioFromNumber == "" {
		return fmt.Errorf("twilio is not configured")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: s.cfg.TwilioAccountSID,
		Password: s.cfg.TwilioAuthToken,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(s.cfg.TwilioFromNumber)
	params.SetBody(body)

	if _, err := client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send failed: %w", err)
	}
	return nil
}
