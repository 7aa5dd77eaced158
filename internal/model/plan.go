package model

import "time"

// SavingsPlan is a user-defined recurring investment plan.
type SavingsPlan struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Funds          []PlanFund `json:"etfs"`
	MonthlyAmount  float64    `json:"monthlyAmount"`
	StartDate      string     `json:"startDate"`
	ProjectedYears int        `json:"projectedYears"`
	ExpectedReturn float64    `json:"expectedReturn"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// PlanFund is one constituent of a savings plan with its percent allocation.
type PlanFund struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Allocation float64 `json:"allocation"`
}
