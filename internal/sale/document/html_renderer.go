package document

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/tair/retail-settlement/internal/sale/pricing"
)

const receiptTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Receipt {{.Number}}</title></head>
<body>
<h1>{{.BusinessName}}</h1>
<p>Receipt {{.Number}} &mdash; {{.SettledAt.Format "2006-01-02 15:04"}}</p>
{{if .CustomerName}}<p>Customer: {{.CustomerName}}</p>{{end}}
<table>
<tr><th>Item</th><th>SKU</th><th>Qty</th><th>Unit</th><th>Total</th></tr>
{{range .Lines}}
<tr><td>{{.Description}}</td><td>{{.SKU}}</td><td>{{.Quantity}}</td><td>{{.PricePerUnit}}</td><td>{{.TotalPrice}}</td></tr>
{{end}}
</table>
<p>Paid via {{.PaymentMethod}}</p>
<p><strong>Total: {{.TotalAmount}}</strong></p>
</body>
</html>
`

// HTMLRenderer writes receipt documents as standalone HTML files under a
// base directory, one file per receipt number.
type HTMLRenderer struct {
	baseDir string
	tmpl    *template.Template
}

// NewHTMLRenderer creates a renderer writing into baseDir
func NewHTMLRenderer(baseDir string) (*HTMLRenderer, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create document directory: %w", err)
	}

	tmpl, err := template.New("receipt").Parse(receiptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse receipt template: %w", err)
	}

	return &HTMLRenderer{baseDir: baseDir, tmpl: tmpl}, nil
}

// Build renders the snapshot and returns the path of the written file
func (r *HTMLRenderer) Build(ctx context.Context, snapshot *ReceiptSnapshot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rendered := *snapshot
	rendered.TotalAmount = pricing.Round2(snapshot.TotalAmount)
	rendered.Lines = make([]LineSnapshot, len(snapshot.Lines))
	copy(rendered.Lines, snapshot.Lines)
	for i := range rendered.Lines {
		rendered.Lines[i].PricePerUnit = pricing.Round2(rendered.Lines[i].PricePerUnit)
		rendered.Lines[i].TotalPrice = pricing.Round2(rendered.Lines[i].TotalPrice)
	}

	path := filepath.Join(r.baseDir, snapshot.Number+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create receipt document: %w", err)
	}
	defer f.Close()

	if err := r.tmpl.Execute(f, &rendered); err != nil {
		return "", fmt.Errorf("failed to render receipt document: %w", err)
	}

	return path, nil
}
