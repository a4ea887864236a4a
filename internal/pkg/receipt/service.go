// internal/pkg/receipt/service.go
package receipt

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/ricecart/internal/config"
	"github.com/your-org/ricecart/internal/domain/checkout"
)

// Service renders a local PDF receipt for a settled checkout. Purely a
// client-side convenience; the order service keeps the authoritative
// record.
type Service struct {
	config *config.Config
}

// NewService creates a new receipt service
func NewService(cfg *config.Config) *Service {
	return &Service{config: cfg}
}

// receiptData is the template input
type receiptData struct {
	Reference      string
	Date           string
	GatewayOrderID string
	PaymentID      string
	Amount         int64
	Currency       string
	Lines          []receiptLine
	Company        companyInfo
}

type receiptLine struct {
	Name      string
	Quantity  int
	UnitPrice int64
	Subtotal  int64
}

type companyInfo struct {
	Name    string
	Address string
	Email   string
}

// Write renders the receipt PDF and stores it under the configured output
// directory, returning the file path
func (s *Service) Write(co *checkout.Session, payload *checkout.CallbackPayload) (string, error) {
	pdf, err := s.render(co, payload)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.config.Receipt.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create receipt directory: %w", err)
	}

	path := filepath.Join(s.config.Receipt.OutputDir, fmt.Sprintf("receipt-%s.pdf", co.Reference))
	if err := os.WriteFile(path, pdf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write receipt: %w", err)
	}
	return path, nil
}

// render generates the PDF content
func (s *Service) render(co *checkout.Session, payload *checkout.CallbackPayload) (*bytes.Buffer, error) {
	lines := make([]receiptLine, 0, len(co.Items))
	for _, item := range co.Items {
		name := fmt.Sprintf("Product #%d", item.ProductID)
		if item.Product != nil {
			name = item.Product.Name
		}
		lines = append(lines, receiptLine{
			Name:      name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice(),
			Subtotal:  item.Subtotal(),
		})
	}

	data := receiptData{
		Reference:      co.Reference,
		Date:           time.Now().Format("January 2, 2006"),
		GatewayOrderID: payload.RazorpayOrderID,
		PaymentID:      payload.RazorpayPaymentID,
		Amount:         co.Amount,
		Currency:       co.Currency,
		Lines:          lines,
		Company: companyInfo{
			Name:    s.config.Receipt.CompanyName,
			Address: s.config.Receipt.CompanyAddress,
			Email:   s.config.Receipt.CompanyEmail,
		},
	}

	var html bytes.Buffer
	if err := receiptTemplate.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html.Bytes()))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!doctype html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; color: #333; }
  .header { border-bottom: 2px solid #3399cc; padding-bottom: 12px; }
  table { width: 100%; border-collapse: collapse; margin-top: 24px; }
  th, td { text-align: left; padding: 8px; border-bottom: 1px solid #ddd; }
  .total { font-weight: bold; }
  .meta { color: #777; font-size: 12px; margin-top: 24px; }
</style>
</head>
<body>
  <div class="header">
    <h1>{{.Company.Name}}</h1>
    <p>{{.Company.Address}}<br>{{.Company.Email}}</p>
  </div>

  <h2>Payment Receipt</h2>
  <p>Receipt {{.Reference}}<br>{{.Date}}</p>

  <table>
    <tr><th>Item</th><th>Quantity</th><th>Unit Price</th><th>Subtotal</th></tr>
    {{range .Lines}}
    <tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{.UnitPrice}}</td><td>{{.Subtotal}}</td></tr>
    {{end}}
    <tr class="total"><td colspan="3">Total</td><td>{{.Amount}} {{.Currency}}</td></tr>
  </table>

  <p class="meta">
    Gateway order: {{.GatewayOrderID}}<br>
    Payment id: {{.PaymentID}}
  </p>
</body>
</html>
`))
