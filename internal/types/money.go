// README: Common money value object used by the report renderers.
package types

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Money is a Brazilian real amount as estimated by the provider. Amounts are not rounded
// until formatted.
type Money struct {
	Amount float64
}

func BRL(amount float64) Money {
	return Money{Amount: amount}
}

// String formats the amount with pt-BR separators and two decimals, e.g. "R$ 1.234,50".
func (m Money) String() string {
	p := message.NewPrinter(language.BrazilianPortuguese)
	return p.Sprintf("R$ %v", number.Decimal(m.Amount, number.Scale(2)))
}
