package features

import (
	"strings"

	"icsbagging/internal/data"
)

// Vectorize turns an expense into the numeric row the classifiers train on.
// The returned names line up with the vector positions.
func Vectorize(e data.Expense) ([]float64, []string) {
	names := []string{"Amount", "DaysToTravel", "Weekday", "Month", "SelfApproved", "RequesterTravels", "RoundAmount", "MultipleOf5"}
	vec := []float64{
		e.Amount,
		float64(int(e.TravelDate.Sub(e.RequestDate).Hours() / 24)),
		float64(int(e.RequestDate.Weekday())),
		float64(int(e.RequestDate.Month())),
		boolToFloat(e.ApproverID == e.RequesterID),
		boolToFloat(e.RequesterID == e.TravellerID),
		boolToFloat(e.Amount == float64(int(e.Amount))),
		boolToFloat(int(e.Amount)%5 == 0 && e.Amount == float64(int(e.Amount))),
	}
	cat := strings.ToLower(e.Category)
	for _, c := range data.Categories() {
		names = append(names, "Cat_"+c)
		vec = append(vec, boolToFloat(strings.ToLower(c) == cat))
	}
	return vec, names
}

// Dataset vectorizes every expense and labels rows by the Fraud flag.
func Dataset(expenses []data.Expense) data.Dataset {
	d := data.Dataset{X: make([][]float64, 0, len(expenses)), Y: make([]int, 0, len(expenses))}
	for _, e := range expenses {
		v, _ := Vectorize(e)
		d.X = append(d.X, v)
		d.Y = append(d.Y, e.Fraud)
	}
	return d
}

func boolToFloat(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

// Columns names the positions of the vectors Vectorize produces.
func Columns() []string {
	_, names := Vectorize(data.Expense{})
	return names
}
