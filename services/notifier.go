package services

import (
	"fmt"
	"net/http"
	"net/smtp"
	"net/url"
	"os"

	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

// Notifier mengirim SMS/email konfirmasi reservasi. Semuanya best-effort:
// channel yang tidak dikonfigurasi dilewati diam-diam, kegagalan hanya
// dicatat (log + baris notifications) dan tidak pernah menyentuh booking.
type Notifier struct {
	DB *gorm.DB

	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	FromEmail string

	SMSGatewayURL string
	SMSSender     string

	httpClient *http.Client
}

func NewNotifierFromEnv(db *gorm.DB) *Notifier {
	return &Notifier{
		DB:            db,
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      os.Getenv("SMTP_PORT"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASSWORD"),
		FromEmail:     os.Getenv("SMTP_FROM"),
		SMSGatewayURL: os.Getenv("SMS_GATEWAY_URL"),
		SMSSender:     os.Getenv("SMS_SENDER"),
		httpClient:    &http.Client{},
	}
}

// NotifyReservationCreated mengirim konfirmasi lewat channel yang tersedia
// pada data kontak reservasi.
func (n *Notifier) NotifyReservationCreated(res models.Reservation) {
	message := fmt.Sprintf(
		"Hi %s, your reservation for %d guest(s) on %s at %s is %s. Confirmation code: %s",
		res.CustomerName, res.PartySize, res.Date, res.StartTime, res.Status, res.Code)

	if res.CustomerPhone != "" {
		n.SendSMS(&res.ID, res.CustomerPhone, message)
	}
	if res.CustomerEmail != "" {
		n.SendEmail(&res.ID, res.CustomerEmail, "Your reservation", message)
	}
}

// SendSMS mem-POST pesan ke gateway SMS yang dikonfigurasi. Tanpa
// SMS_GATEWAY_URL pengiriman dilewati.
func (n *Notifier) SendSMS(reservationID *uint, phone, message string) {
	if n.SMSGatewayURL == "" {
		return
	}

	resp, err := n.httpClient.PostForm(n.SMSGatewayURL, url.Values{
		"from": {n.SMSSender},
		"to":   {phone},
		"text": {message},
	})
	if err == nil {
		resp.Body.Close()
		if resp.StatusCode >= 300 {
			err = fmt.Errorf("sms gateway returned %s", resp.Status)
		}
	}

	n.record(reservationID, "sms", phone, message, err)
}

// SendEmail mengirim lewat SMTP. Tanpa SMTP_HOST pengiriman dilewati.
func (n *Notifier) SendEmail(reservationID *uint, address, subject, body string) {
	if n.SMTPHost == "" {
		return
	}

	port := n.SMTPPort
	if port == "" {
		port = "587"
	}
	msg := []byte("From: " + n.FromEmail + "\r\n" +
		"To: " + address + "\r\n" +
		"Subject: " + subject + "\r\n\r\n" +
		body + "\r\n")

	var auth smtp.Auth
	if n.SMTPUser != "" {
		auth = smtp.PlainAuth("", n.SMTPUser, n.SMTPPass, n.SMTPHost)
	}
	err := smtp.SendMail(n.SMTPHost+":"+port, auth, n.FromEmail, []string{address}, msg)

	n.record(reservationID, "email", address, subject, err)
}

func (n *Notifier) record(reservationID *uint, channel, recipient, message string, sendErr error) {
	notification := models.Notification{
		ReservationID: reservationID,
		Channel:       channel,
		Recipient:     recipient,
		Message:       message,
		Sent:          sendErr == nil,
	}
	if sendErr != nil {
		notification.Error = sendErr.Error()
		utils.ErrorLogger.Printf("Failed to send %s to %s: %v", channel, recipient, sendErr)
	} else {
		utils.InfoLogger.Printf("Sent %s notification to %s", channel, recipient)
	}

	if n.DB != nil {
		n.DB.Create(&notification)
	}
}
