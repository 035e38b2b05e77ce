package cart

import (
	"github.com/angelmondragon/ordering-engine/internal/configuration"
	"github.com/angelmondragon/ordering-engine/internal/quantity"
	"github.com/shopspring/decimal"
)

// Line is a read-only view of one cart line.
type Line struct {
	ID        string
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	BasePrice decimal.Decimal
	LineTotal decimal.Decimal
	Params    []configuration.ParamSummary
}

// line wraps a frozen summary with its own editable quantity. Only quantity
// and lineTotal change after creation.
type line struct {
	id        string
	summary   configuration.Summary
	qty       *quantity.Bounded
	lineTotal decimal.Decimal
}

func newLine(id string, summary configuration.Summary, bounds quantity.Bounds) (*line, error) {
	qty, err := quantity.New(summary.Quantity, bounds)
	if err != nil {
		return nil, err
	}
	l := &line{id: id, summary: summary.Clone(), qty: qty}
	l.rederive()
	return l, nil
}

func (l *line) rederive() {
	l.lineTotal = l.summary.UnitPrice.Mul(decimal.NewFromInt(int64(l.qty.Value())))
}

func (l *line) view() Line {
	summary := l.summary.Clone()
	return Line{
		ID:        l.id,
		ProductID: summary.ProductID,
		Name:      summary.Name,
		Quantity:  l.qty.Value(),
		UnitPrice: summary.UnitPrice,
		BasePrice: summary.BasePrice,
		LineTotal: l.lineTotal,
		Params:    summary.Params,
	}
}
