package worker

// alert_email_worker.go
// Processes alert email jobs from QueueAlertEmail and delivers them via SMTP.
// Delivery is best-effort: the alert row in stock_alerts is the durable
// record, not the email.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Mailer sends one plain-text message. Implemented by infra.Mailer.
type Mailer interface {
	Send(to, subject, body string) error
}

// AlertEmailWorker processes alert email jobs from QueueAlertEmail.
type AlertEmailWorker struct {
	mailer Mailer
}

func NewAlertEmailWorker(mailer Mailer) *AlertEmailWorker {
	return &AlertEmailWorker{mailer: mailer}
}

// Process delivers one alert email. A non-nil return asks the pool to retry
// (and eventually dead-letter) the job.
func (w *AlertEmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload AlertEmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alert_email_worker: invalid payload")
		// Malformed payloads never become valid; do not retry.
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("alert_email_worker: empty to_email, skipping")
		return nil
	}

	if err := w.mailer.Send(payload.ToEmail, payload.Subject, payload.Body); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("alert_email_worker: failed to send email")
		return fmt.Errorf("send alert email: %w", err)
	}
	log.Info().Str("to", payload.ToEmail).Str("subject", payload.Subject).
		Msg("alert_email_worker: alert sent")
	return nil
}
