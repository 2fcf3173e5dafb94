package dto

// NextNumberRequest asks for the next document number of a kind.
type NextNumberRequest struct {
	PeriodKey string `json:"periodKey" binding:"required,max=12" example:"202401"`
}

// NextNumberResponse carries an allocated document number.
type NextNumberResponse struct {
	DocumentKind string `json:"documentKind"`
	Number       string `json:"number"`
}
