package data

import "time"

// Expense is one travel expense claim; Fraud is 1 for fraudulent claims.
type Expense struct {
	ExpenseID   string    `json:"expense_id"`
	RequesterID string    `json:"requester_id"`
	TravellerID string    `json:"traveller_id"`
	ApproverID  string    `json:"approver_id"`
	RequestDate time.Time `json:"request_date"`
	TravelDate  time.Time `json:"travel_date"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Department  string    `json:"department"`
	Fraud       int       `json:"fraud"`
}

// Cluster describes one Gaussian blob of rows sharing a label.
type Cluster struct {
	Center []float64 `yaml:"center"`
	StdDev float64   `yaml:"stddev"`
	Count  int       `yaml:"count"`
	Label  int       `yaml:"label"`
}
