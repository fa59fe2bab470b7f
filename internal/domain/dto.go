package domain

type TransactionType string

const (
	TransactionCharge TransactionType = "CHARGE"
	TransactionUse    TransactionType = "USE"
)

func (t TransactionType) IsValid() bool {
	return t == TransactionCharge || t == TransactionUse
}
