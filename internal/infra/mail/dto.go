package mail

type ProposalEmailData struct {
	ClientName     string
	SellerName     string
	SystemPower    string
	ModuleQuantity int
	MonthlySavings string
	TotalValue     string
	ValidUntil     string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
