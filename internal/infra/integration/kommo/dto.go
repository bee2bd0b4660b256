package kommo

type CreateLeadInput struct {
	ClientName string
	Phone      string // Ex: "5511999999999"
	Email      string
	Title      string // Ex: "Sistema 4,55 kWp"
	Price      float64
}

type embeddedResponse struct {
	Embedded struct {
		Leads []struct {
			ID int `json:"id"`
		} `json:"leads"`
		Contacts []struct {
			ID int `json:"id"`
		} `json:"contacts"`
	} `json:"_embedded"`
}
