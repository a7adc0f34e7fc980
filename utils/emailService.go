package utils

import (
	"fmt"
	"log"

	"openlearn/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers a transactional email through SendGrid. When no
// API key is configured the send is skipped, not failed, so local
// environments work without credentials.
func SendEmail(toName, toEmail, subject, htmlBody string) error {
	if config.AppConfig.SendGridApiKey == "" {
		log.Printf("Email skipped (no SENDGRID_API_KEY): %s -> %s", subject, toEmail)
		return nil
	}

	from := mail.NewEmail("OpenLearn", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridApiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("SendGrid rejected email to %s: %d %s", toEmail, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// SendEnrollmentConfirmation emails a student after a successful
// enrollment. Fired from a goroutine; failures are logged only.
func SendEnrollmentConfirmation(name, email, courseTitle string) {
	body := fmt.Sprintf(`
		<h2>Welcome aboard, %s!</h2>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<p>Head to your dashboard to start learning.</p>`, name, courseTitle)

	if err := SendEmail(name, email, "Enrollment confirmed: "+courseTitle, body); err != nil {
		log.Printf("Failed to send enrollment confirmation to %s: %v", email, err)
	}
}

// SendCertificateEmail emails the certificate link after issuance.
func SendCertificateEmail(name, email, courseTitle, certificateURL string) {
	body := fmt.Sprintf(`
		<h2>Congratulations, %s!</h2>
		<p>You have completed <strong>%s</strong>.</p>
		<p>Your certificate is ready: <a href="%s">%s</a></p>`, name, courseTitle, certificateURL, certificateURL)

	if err := SendEmail(name, email, "Your certificate for "+courseTitle, body); err != nil {
		log.Printf("Failed to send certificate email to %s: %v", email, err)
	}
}
