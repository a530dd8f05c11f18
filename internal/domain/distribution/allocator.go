// Package distribution calcula el reparto pro-rata de un recebível pagado entre los tenedores de cuotas.
package distribution

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/internal/domain/entity"
)

// Share parte asignada a una orden COMPLETED.
type Share struct {
	Holding entity.QuotaHolding
	Amount  decimal.Decimal // 2 decimales
}

// Result resultado del reparto. Σ Shares.Amount == TotalToPay exactamente.
type Result struct {
	TotalQuotas int64
	TotalToPay  decimal.Decimal
	Shares      []Share // mismo orden que la entrada
}

// Allocate reparte totalToPay proporcionalmente a Quantity usando el método del mayor resto en centavos.
//
// Cada parte se trunca a centavos; los centavos sobrantes se asignan de a uno por mayor resto fraccional,
// desempatando por mayor tenencia, luego orden más antigua y luego OrderID.
// totalToPay se redondea a 2 decimales antes de repartir.
func Allocate(totalToPay decimal.Decimal, holdings []entity.QuotaHolding) (*Result, error) {
	if totalToPay.IsNegative() {
		return nil, domain.NewValidationError("paid_value", "gte", "el valor a distribuir no puede ser negativo")
	}
	var totalQuotas int64
	for _, h := range holdings {
		if h.Quantity <= 0 {
			return nil, domain.NewValidationError("quantity", "gt", "las órdenes deben tener cantidad positiva")
		}
		totalQuotas += h.Quantity
	}
	if totalQuotas == 0 {
		return nil, domain.ErrNoQuotaHolders
	}

	total := totalToPay.Round(2)
	totalCents := total.Shift(2)
	divisor := decimal.NewFromInt(totalQuotas)

	cents := make([]int64, len(holdings))
	rems := make([]decimal.Decimal, len(holdings))
	var assigned int64
	for i, h := range holdings {
		q, r := totalCents.Mul(decimal.NewFromInt(h.Quantity)).QuoRem(divisor, 0)
		cents[i] = q.IntPart()
		rems[i] = r
		assigned += cents[i]
	}

	leftover := totalCents.IntPart() - assigned
	if leftover > 0 {
		idx := make([]int, len(holdings))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			ia, ib := idx[a], idx[b]
			if c := rems[ia].Cmp(rems[ib]); c != 0 {
				return c > 0
			}
			ha, hb := holdings[ia], holdings[ib]
			if ha.Quantity != hb.Quantity {
				return ha.Quantity > hb.Quantity
			}
			if !ha.CreatedAt.Equal(hb.CreatedAt) {
				return ha.CreatedAt.Before(hb.CreatedAt)
			}
			return ha.OrderID < hb.OrderID
		})
		for k := int64(0); k < leftover; k++ {
			cents[idx[k]]++
		}
	}

	shares := make([]Share, len(holdings))
	for i, h := range holdings {
		shares[i] = Share{Holding: h, Amount: decimal.New(cents[i], -2)}
	}
	return &Result{TotalQuotas: totalQuotas, TotalToPay: total, Shares: shares}, nil
}
