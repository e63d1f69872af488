// Package printer lays out receipts and sends them to a thermal printer or a
// plain-text spool.
package printer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/davimluiz/copiacantinho-sub000/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Line is one printed row
type Line struct {
	Text   string
	Align  Align
	Bold   bool
	Double bool
}

// Receipt is a laid-out receipt, independent of the output device
type Receipt struct {
	OrderID string
	Columns int
	Lines   []Line
}

// Shop is the header printed on every receipt
type Shop struct {
	Name    string
	Phone   string
	Address string
}

// Layout turns orders into receipts
type Layout struct {
	Shop     Shop
	Columns  int
	Location *time.Location
}

var moneyPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatMoney renders an amount as "R$ 1.234,56"
func FormatMoney(d decimal.Decimal) string {
	d = d.Round(2)
	whole, cents, _ := strings.Cut(d.Abs().StringFixed(2), ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return "R$ " + strings.Replace(d.StringFixed(2), ".", ",", 1)
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return "R$ " + sign + moneyPrinter.Sprintf("%d", n) + "," + cents
}

var orderTypeLabels = map[models.OrderType]string{
	models.Counter:  "BALCÃO",
	models.Table:    "MESA",
	models.Delivery: "ENTREGA",
}

var paymentLabels = map[models.PaymentMethod]string{
	models.PaymentPix:    "Pix",
	models.PaymentCash:   "Dinheiro",
	models.PaymentCredit: "Cartão de Crédito",
	models.PaymentDebit:  "Cartão de Débito",
}

func (l Layout) columns() int {
	if l.Columns < 24 {
		return 48
	}
	return l.Columns
}

// Build lays out order. Prices come from the order as stored; nothing is
// recomputed here.
func (l Layout) Build(order models.Order) Receipt {
	r := Receipt{OrderID: order.ID, Columns: l.columns()}
	loc := l.Location
	if loc == nil {
		loc = time.Local
	}

	center := func(text string, bold bool) {
		r.Lines = append(r.Lines, Line{Text: text, Align: AlignCenter, Bold: bold})
	}
	left := func(text string) {
		r.Lines = append(r.Lines, Line{Text: text})
	}
	rule := func() {
		left(strings.Repeat("-", r.Columns))
	}

	if l.Shop.Name != "" {
		r.Lines = append(r.Lines, Line{Text: l.Shop.Name, Align: AlignCenter, Bold: true, Double: true})
	}
	if l.Shop.Address != "" {
		center(l.Shop.Address, false)
	}
	if l.Shop.Phone != "" {
		center(l.Shop.Phone, false)
	}
	rule()

	c := order.Customer
	center(fmt.Sprintf("PEDIDO %s", shortID(order.ID)), true)
	center(orderTypeLabels[c.OrderType], true)
	left(order.CreatedAt.In(loc).Format("02/01/2006 15:04"))
	if c.Name != "" {
		left("Cliente: " + c.Name)
	}
	if c.Phone != "" {
		left("Telefone: " + c.Phone)
	}
	if c.OrderType == models.Table && c.TableNumber != "" {
		left("Mesa: " + c.TableNumber)
	}
	if c.OrderType == models.Delivery {
		addr := c.Address
		if c.AddressNumber != "" {
			addr += ", " + c.AddressNumber
		}
		left("Endereço: " + addr)
		if c.Reference != "" {
			left("Referência: " + c.Reference)
		}
	}
	rule()

	for _, item := range order.Items {
		r.Lines = append(r.Lines, Line{
			Text: columnsLine(fmt.Sprintf("%dx %s", item.Quantity, item.Name), FormatMoney(item.LineTotal()), r.Columns),
			Bold: true,
		})
		for _, ing := range item.RemovedIngredients {
			left("   SEM " + strings.ToUpper(ing))
		}
		for _, add := range item.Additions {
			left("   + " + add)
		}
		if item.Packaging != nil {
			left("   Embalagem: " + string(*item.Packaging))
		}
		if item.Observation != "" {
			left("   Obs: " + item.Observation)
		}
	}
	rule()

	left(columnsLine("Subtotal", FormatMoney(order.Subtotal), r.Columns))
	if c.OrderType == models.Delivery {
		left(columnsLine("Taxa de entrega", FormatMoney(order.DeliveryFee), r.Columns))
	}
	r.Lines = append(r.Lines, Line{Text: columnsLine("TOTAL", FormatMoney(order.Total), r.Columns), Bold: true})
	left("Pagamento: " + paymentLabels[c.PaymentMethod])
	if c.Observation != "" {
		left("Obs: " + c.Observation)
	}
	rule()
	center("Obrigado pela preferência!", false)

	return r
}

// PlainText renders the receipt for a generic printer or a text file
func (r Receipt) PlainText() string {
	var b strings.Builder
	for _, line := range r.Lines {
		text := line.Text
		if line.Align == AlignCenter {
			text = centered(text, r.Columns)
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}

// columnsLine puts left and right on one row, right-aligned to width
func columnsLine(left, right string, width int) string {
	gap := width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func centered(text string, width int) string {
	pad := (width - utf8.RuneCountInString(text)) / 2
	if pad <= 0 {
		return text
	}
	return strings.Repeat(" ", pad) + text
}
