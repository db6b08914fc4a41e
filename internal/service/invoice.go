package service

import (
	"bytes"
	"fmt"

	"poolside/internal/models"
	"poolside/pkg/payment"

	"github.com/go-pdf/fpdf"
)

// RenderInvoice produces a minimal PDF invoice for a paid order. Layout is
// deliberately plain; the numbers come straight from the order snapshot.
func RenderInvoice(order *models.Order, storeName string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, storeName)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Invoice for order %s", order.PaymentReference))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Customer: %s %s (%s)", order.CustomerFirstName, order.CustomerLastName, order.CustomerEmail))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", order.Status))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(100, 7, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Unit (R)", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Total (R)", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, item := range order.Items {
		lineTotal := item.UnitPriceCents * int64(item.Quantity)
		pdf.CellFormat(100, 7, item.Title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, payment.FormatAmount(item.UnitPriceCents), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, payment.FormatAmount(lineTotal), "1", 1, "R", false, 0, "")
	}
	if order.ShippingCents > 0 {
		pdf.CellFormat(155, 7, "Shipping", "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, payment.FormatAmount(order.ShippingCents), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(155, 7, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, payment.FormatAmount(order.AmountCents), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
