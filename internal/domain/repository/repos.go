package repository

// Repos conjunto de repositorios atados a una misma conexión o transacción.
type Repos struct {
	Users          UserRepository
	Funds          FundRepository
	Parties        PartyRepository
	Receivables    ReceivableRepository
	Distributions  DistributionRepository
	Orders         OrderRepository
	ApprovalEvents ApprovalEventRepository
}
