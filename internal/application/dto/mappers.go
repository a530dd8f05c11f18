package dto

import "github.com/jhoicas/vero-api/internal/domain/entity"

// FromUser convierte la entidad a respuesta (sin secretos).
func FromUser(u *entity.User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		Role:             u.Role,
		Status:           u.Status,
		StellarPublicKey: u.StellarPublicKey,
		HasStellarSecret: u.StellarSecretKey != "",
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

// FromFund combina el fondo con sus métricas.
func FromFund(f *entity.Fund, m entity.FundMetrics) FundResponse {
	return FundResponse{
		ID:               f.ID,
		Name:             f.Name,
		Symbol:           f.Symbol,
		MaxSupply:        f.MaxSupply,
		TotalIssued:      f.TotalIssued,
		TotalSold:        m.TotalSold,
		AvailableQuotas:  f.AvailableQuotas(m),
		Price:            f.Price,
		TargetAmount:     f.TargetAmount,
		TotalReceivables: m.TotalReceivables,
		Status:           f.Status,
		ConsultorID:      f.ConsultorID,
		ContractAddress:  f.ContractAddress,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
}

func FromParty(p *entity.Party) PartyResponse {
	return PartyResponse{
		ID:               p.ID,
		Kind:             p.Kind,
		Name:             p.Name,
		Document:         p.Document,
		Address:          p.Address,
		StellarPublicKey: p.StellarPublicKey,
		Status:           p.Status,
		ConsultorID:      p.ConsultorID,
		FundID:           p.FundID,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func FromReceivable(r *entity.Receivable) ReceivableResponse {
	return ReceivableResponse{
		ID:            r.ID,
		FundID:        r.FundID,
		SacadoID:      r.SacadoID,
		FaceValue:     r.FaceValue,
		DueDate:       r.DueDate,
		Status:        r.Status,
		PaidValue:     r.PaidValue,
		PaidAt:        r.PaidAt,
		DistributedAt: r.DistributedAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func FromOrder(o *entity.Order) OrderResponse {
	return OrderResponse{
		ID:         o.ID,
		FundID:     o.FundID,
		InvestorID: o.InvestorID,
		Quantity:   o.Quantity,
		Price:      o.Price,
		Total:      o.Total,
		Status:     o.Status,
		TxHash:     o.TxHash,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

func FromDistribution(d *entity.Distribution) DistributionLine {
	return DistributionLine{
		OrderID:           d.OrderID,
		InvestorPublicKey: d.InvestorPublicKey,
		InvestorEmail:     d.InvestorEmail,
		Quotas:            d.Quotas,
		Amount:            d.Amount,
	}
}
