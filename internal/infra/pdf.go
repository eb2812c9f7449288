package infra

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/hercules830/nexa-control-app-sub000/internal/dto"
)

// GenerarTicketPDF renders a printable receipt for one finalized ticket.
func GenerarTicketPDF(ticket *dto.TicketAgrupado) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetTitle(fmt.Sprintf("Ticket %d", ticket.TicketID), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Comprobante de venta", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	emitido := time.UnixMilli(ticket.TicketID).Format("02/01/2006 15:04")
	pdf.CellFormat(0, 5, fmt.Sprintf("Ticket %d - %s", ticket.TicketID, emitido), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Pago: %s", ticket.MetodoPago), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// Line items
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(60, 6, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(15, 6, "Cant.", "B", 0, "R", false, 0, "")
	pdf.CellFormat(25, 6, "Precio", "B", 0, "R", false, 0, "")
	pdf.CellFormat(25, 6, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, l := range ticket.Lineas {
		subtotal := l.Precio.Mul(decimal.NewFromInt(int64(l.Cantidad)))
		pdf.CellFormat(60, 6, l.ProductoNombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", l.Cantidad), "", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, "$"+l.Precio.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, "$"+subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(100, 7, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "$"+ticket.Total.StringFixed(2), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
