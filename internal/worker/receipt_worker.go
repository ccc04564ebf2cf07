package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt: renders the PDF for a completed
// sale and, when the customer has an email on file, enqueues an email job
// with the PDF attached. Receipt generation never affects the sale itself.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/GestharPDV/gesthar-pdv/internal/infra"
	"github.com/GestharPDV/gesthar-pdv/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	SaleID string `json:"sale_id"`
}

type ReceiptWorker struct {
	sales       repository.SaleRepository
	customers   repository.CustomerRepository
	dispatcher  *Dispatcher
	storagePath string
	storeName   string
}

func NewReceiptWorker(
	sales repository.SaleRepository,
	customers repository.CustomerRepository,
	dispatcher *Dispatcher,
	storagePath, storeName string,
) *ReceiptWorker {
	return &ReceiptWorker{
		sales:       sales,
		customers:   customers,
		dispatcher:  dispatcher,
		storagePath: storagePath,
		storeName:   storeName,
	}
}

// Process handles a single receipt job:
//  1. Parse ReceiptJobPayload from the job envelope
//  2. Fetch the sale (with items and payments)
//  3. Generate the PDF receipt
//  4. Enqueue an email job when the customer has an email on file
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: invalid sale_id")
		return
	}

	sale, err := w.sales.FindByID(ctx, saleID, false)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: sale not found")
		return
	}

	pdfPath, err := infra.GenerateReceiptPDF(sale, w.storeName, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: PDF generation failed")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("sale_id", payload.SaleID).Msg("receipt_worker: PDF generated")

	if sale.CustomerID == nil {
		return
	}
	customer, err := w.customers.FindByID(ctx, *sale.CustomerID)
	if err != nil || customer.Email == nil || *customer.Email == "" {
		return
	}

	emailJob := EmailJobPayload{
		ToEmail: *customer.Email,
		Subject: fmt.Sprintf("%s — your receipt", w.storeName),
		Body: fmt.Sprintf("Hi %s,\n\nThank you for your purchase! Your receipt is attached.\nTotal: $%s\n",
			customer.Name, sale.NetAmount.StringFixed(2)),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", *customer.Email).Msg("receipt_worker: failed to enqueue email")
		return
	}
	log.Info().Str("email", *customer.Email).Msg("receipt_worker: email job enqueued")
}
