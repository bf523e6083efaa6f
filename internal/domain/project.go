package domain

// PaymentMethod is one gateway payment method enabled for a project, with its
// transaction-fee settings.
type PaymentMethod struct {
	ID                string  `json:"id"`
	TransactionFee    float64 `json:"transactionFee"`
	MinTransactionFee float64 `json:"minTransactionFee,omitempty"`
	MaxTransactionFee float64 `json:"maxTransactionFee,omitempty"`
	Enabled           bool    `json:"enabled"`
}

// PayseraSettings holds the project's gateway credentials. Password is the
// shared signing secret.
type PayseraSettings struct {
	ID       string          `json:"id"`
	Password string          `json:"password"`
	Methods  []PaymentMethod `json:"methods,omitempty"`
}

func (s PayseraSettings) Method(id string) (PaymentMethod, bool) {
	for _, m := range s.Methods {
		if m.ID == id {
			return m, true
		}
	}
	return PaymentMethod{}, false
}

type PaymentSettings struct {
	Paysera PayseraSettings `json:"paysera"`
}

// Project is a white-label site served by the aggregator. Each project has
// its own gateway credentials and markup rules.
type Project struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Payment PaymentSettings `json:"payment"`
}
