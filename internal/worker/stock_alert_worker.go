package worker

// stock_alert_worker.go
// Processes low-stock alert jobs: always logs, and emails the configured
// recipient when SMTP is set up.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThatoMphasane/thato/internal/infra"

	"github.com/rs/zerolog/log"
)

type StockAlertWorker struct {
	mailer     *infra.Mailer
	alertEmail string
}

func NewStockAlertWorker(mailer *infra.Mailer, alertEmail string) *StockAlertWorker {
	return &StockAlertWorker{mailer: mailer, alertEmail: alertEmail}
}

func (w *StockAlertWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload StockAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("stock_alert_worker: invalid payload")
		return
	}

	log.Warn().
		Uint("product_id", payload.ProductID).
		Str("product", payload.ProductName).
		Int("quantity", payload.Quantity).
		Int("threshold", payload.Threshold).
		Msg("low stock")

	if w.mailer == nil || !w.mailer.Configured() || w.alertEmail == "" {
		return
	}

	subject := fmt.Sprintf("Low stock: %s", payload.ProductName)
	body := fmt.Sprintf("Product %q (id %d) is down to %d units (threshold %d).",
		payload.ProductName, payload.ProductID, payload.Quantity, payload.Threshold)
	if err := w.mailer.SendAlert(w.alertEmail, subject, body); err != nil {
		log.Error().Err(err).Str("to", w.alertEmail).Msg("stock_alert_worker: email failed")
	}
}
