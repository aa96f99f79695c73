// internal/service/checkout/application/receipt.go
package application

import (
	"bytes"
	"html/template"

	"github.com/pkg/errors"

	"quickmart/internal/pkg/i18n"
	"quickmart/internal/service/checkout/domain"
)

// ReceiptRenderer 把订单渲染为自包含的 HTML 小票文档。
// 文档是打印桥的载荷，不引用任何外部资源。
type ReceiptRenderer struct {
	tmpl   *template.Template
	labels *i18n.Table
}

// NewReceiptRenderer 编译小票模板。模板是编译期常量，解析失败属于程序错误。
func NewReceiptRenderer(labels *i18n.Table) (*ReceiptRenderer, error) {
	tmpl, err := template.New("receipt").Parse(receiptTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "parse receipt template")
	}
	return &ReceiptRenderer{tmpl: tmpl, labels: labels}, nil
}

type receiptLine struct {
	Quantity int
	Name     string
	Amount   string
}

type receiptData struct {
	ShortID       string
	StoreName     string
	Title         string
	Thanks        string
	OrderIDLabel  string
	DateLabel     string
	Date          string
	PaymentLabel  string
	Payment       string
	ItemsLabel    string
	Items         []receiptLine
	SubtotalLabel string
	Subtotal      string
	HasDiscount   bool
	DiscountLabel string
	CouponCode    string
	Discount      string
	TotalLabel    string
	Total         string
	ItemsSold     int
	SoldLabel     string
	VisitAgain    string
	Tagline       string
}

// Render 生成 lang 语言的小票 HTML。
// 小计不单独存储，从 total + discount 反推，和订单落库时的口径一致。
func (r *ReceiptRenderer) Render(order *domain.Order, lang string) (string, error) {
	l := func(key string) string { return r.labels.Lookup(lang, key) }

	payment := l("paymentCash")
	if order.PaymentMethod == domain.PaymentCard {
		payment = l("paymentCard")
	}

	items := make([]receiptLine, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, receiptLine{
			Quantity: item.Quantity,
			Name:     item.Name,
			Amount:   domain.FormatAmount(item.LineTotal()),
		})
	}

	data := receiptData{
		ShortID:       order.ShortID(),
		StoreName:     "QuickMart",
		Title:         l("receiptTitle"),
		Thanks:        l("receiptThanks"),
		OrderIDLabel:  l("receiptOrderID"),
		DateLabel:     l("receiptDate"),
		Date:          order.Date.Format("1/2/2006, 3:04:05 PM"),
		PaymentLabel:  l("receiptPayment"),
		Payment:       payment,
		ItemsLabel:    l("receiptItems"),
		Items:         items,
		SubtotalLabel: l("receiptSubtotal"),
		Subtotal:      domain.FormatAmount(order.Total + order.Discount),
		HasDiscount:   order.Discount > 0,
		DiscountLabel: l("receiptDiscount"),
		CouponCode:    order.CouponCode,
		Discount:      domain.FormatAmount(order.Discount),
		TotalLabel:    l("receiptTotal"),
		Total:         domain.FormatAmount(order.Total),
		ItemsSold:     order.ItemsSold(),
		SoldLabel:     l("receiptItemsPurchased"),
		VisitAgain:    l("receiptVisitAgain"),
		Tagline:       l("receiptTagline"),
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, "render receipt for order %s", order.ID)
	}
	return buf.String(), nil
}

// 窄幅小票排版：等宽字体、300px 宽、虚线分隔。
const receiptTemplate = `<!DOCTYPE html>
<html>
  <head>
    <title>Receipt - Order #{{.ShortID}}</title>
    <style>
      @media print {
        body { margin: 0; }
      }
      body {
        font-family: 'Courier New', monospace;
        max-width: 300px;
        margin: 20px auto;
        padding: 20px;
      }
      .header {
        text-align: center;
        margin-bottom: 20px;
        border-bottom: 2px dashed #000;
        padding-bottom: 10px;
      }
      .header h1 {
        margin: 0;
        font-size: 24px;
      }
      .header p {
        margin: 5px 0;
        font-size: 12px;
      }
      .order-info {
        margin-bottom: 15px;
        font-size: 12px;
      }
      .items {
        margin-bottom: 15px;
      }
      .item {
        display: flex;
        justify-content: space-between;
        margin-bottom: 5px;
        font-size: 12px;
      }
      .totals {
        border-top: 2px dashed #000;
        padding-top: 10px;
        margin-top: 10px;
      }
      .total-row {
        display: flex;
        justify-content: space-between;
        margin-bottom: 5px;
        font-size: 14px;
      }
      .total-row.grand {
        font-weight: bold;
        font-size: 16px;
        border-top: 1px solid #000;
        padding-top: 5px;
        margin-top: 5px;
      }
      .footer {
        text-align: center;
        margin-top: 20px;
        padding-top: 10px;
        border-top: 2px dashed #000;
        font-size: 10px;
      }
    </style>
  </head>
  <body>
    <div class="header">
      <h1>{{.StoreName}}</h1>
      <p>{{.Title}}</p>
      <p>{{.Thanks}}</p>
    </div>

    <div class="order-info">
      <p><strong>{{.OrderIDLabel}}:</strong> {{.ShortID}}</p>
      <p><strong>{{.DateLabel}}:</strong> {{.Date}}</p>
      <p><strong>{{.PaymentLabel}}:</strong> {{.Payment}}</p>
    </div>

    <div class="items">
      <p style="margin-bottom: 10px;"><strong>{{.ItemsLabel}}:</strong></p>
      {{- range .Items}}
      <div class="item">
        <span>{{.Quantity}}x {{.Name}}</span>
        <span>${{.Amount}}</span>
      </div>
      {{- end}}
    </div>

    <div class="totals">
      <div class="total-row">
        <span>{{.SubtotalLabel}}:</span>
        <span>${{.Subtotal}}</span>
      </div>
      {{- if .HasDiscount}}
      <div class="total-row" style="color: green;">
        <span>{{.DiscountLabel}} ({{.CouponCode}}):</span>
        <span>-${{.Discount}}</span>
      </div>
      {{- end}}
      <div class="total-row grand">
        <span>{{.TotalLabel}}:</span>
        <span>${{.Total}}</span>
      </div>
    </div>

    <div class="footer">
      <p>{{.SoldLabel}}: {{.ItemsSold}}</p>
      <p>---</p>
      <p>{{.VisitAgain}}</p>
      <p>{{.Tagline}}</p>
    </div>
  </body>
</html>
`
