// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/order"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateInvoice generates a PDF invoice for an order
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	data := InvoiceData{
		InvoiceNumber: fmt.Sprintf("INV-%s", o.OrderCode),
		InvoiceDate:   time.Now().Format("January 2, 2006"),
		Order:         o,
		Store: StoreInfo{
			Name:    s.config.Store.Name,
			Address: s.config.Store.Address,
			Phone:   s.config.Store.Phone,
			Email:   s.config.Store.Email,
		},
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data InvoiceData) (string, error) {
	tmpl := template.Must(template.New("invoice").Funcs(template.FuncMap{
		"money": formatCents,
	}).Parse(invoiceTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string       `json:"invoice_number"`
	InvoiceDate   string       `json:"invoice_date"`
	Order         *order.Order `json:"order"`
	Store         StoreInfo    `json:"store"`
}

// StoreInfo represents storefront information printed on the invoice
type StoreInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Invoice HTML template
const invoiceTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .invoice-title {
            font-size: 28px;
            font-weight: bold;
            color: #2563eb;
        }
        .invoice-info {
            text-align: right;
        }
        table {
            width: 100%;
            border-collapse: collapse;
            margin-top: 20px;
        }
        th {
            background: #f3f4f6;
            text-align: left;
            padding: 10px;
            border-bottom: 2px solid #e5e7eb;
        }
        td {
            padding: 10px;
            border-bottom: 1px solid #e5e7eb;
        }
        .amount {
            text-align: right;
        }
        .totals {
            margin-top: 20px;
            width: 40%;
            margin-left: auto;
        }
        .totals td {
            border: none;
            padding: 4px 10px;
        }
        .totals .grand {
            font-size: 18px;
            font-weight: bold;
            border-top: 2px solid #333;
        }
        .shipping {
            margin-top: 30px;
            font-size: 13px;
        }
    </style>
</head>
<body>
    <div class="header">
        <div>
            <div class="invoice-title">{{.Store.Name}}</div>
            <div>{{.Store.Address}}</div>
            <div>{{.Store.Phone}}</div>
            <div>{{.Store.Email}}</div>
        </div>
        <div class="invoice-info">
            <h2>INVOICE</h2>
            <div><strong>{{.InvoiceNumber}}</strong></div>
            <div>Date: {{.InvoiceDate}}</div>
            <div>Order: {{.Order.OrderCode}}</div>
            <div>Status: {{.Order.Status}}</div>
        </div>
    </div>

    <table>
        <thead>
            <tr>
                <th>Book</th>
                <th class="amount">Unit Price</th>
                <th class="amount">Qty</th>
                <th class="amount">Discount</th>
                <th class="amount">Subtotal</th>
            </tr>
        </thead>
        <tbody>
            {{range .Order.Items}}
            <tr>
                <td>{{if .Book}}{{.Book.Title}}{{else}}#{{.BookID}}{{end}}</td>
                <td class="amount">{{money .UnitPriceCents}}</td>
                <td class="amount">{{.Quantity}}</td>
                <td class="amount">{{money .DiscountCents}}</td>
                <td class="amount">{{money .SubtotalCents}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <table class="totals">
        <tr>
            <td>Subtotal</td>
            <td class="amount">{{money .Order.TotalCents}}</td>
        </tr>
        <tr>
            <td>Discount</td>
            <td class="amount">-{{money .Order.DiscountCents}}</td>
        </tr>
        <tr class="grand">
            <td>Total</td>
            <td class="amount">{{money .Order.FinalCents}}</td>
        </tr>
    </table>

    <div class="shipping">
        <strong>Ship to:</strong> {{.Order.ShippingAddress}}<br>
        {{if .Order.ShippingPhone}}<strong>Phone:</strong> {{.Order.ShippingPhone}}<br>{{end}}
        {{if .Order.Notes}}<strong>Notes:</strong> {{.Order.Notes}}{{end}}
    </div>
</body>
</html>
`
