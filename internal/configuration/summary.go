package configuration

import (
	"github.com/shopspring/decimal"
)

// Summary is the frozen, cart-facing snapshot of a finalized configuration.
type Summary struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	BasePrice decimal.Decimal
	LineTotal decimal.Decimal
	Params    []ParamSummary
}

// ParamSummary lists the selected options of one group, in catalog order.
type ParamSummary struct {
	GroupID string
	Label   string
	Options []OptionLabel
}

type OptionLabel struct {
	ID    string
	Label string
}

// Clone returns a copy sharing no slices with s.
func (s Summary) Clone() Summary {
	out := s
	out.Params = make([]ParamSummary, len(s.Params))
	for i, param := range s.Params {
		out.Params[i] = ParamSummary{
			GroupID: param.GroupID,
			Label:   param.Label,
			Options: append([]OptionLabel(nil), param.Options...),
		}
	}
	return out
}
