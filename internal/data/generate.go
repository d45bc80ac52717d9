package data

import (
	"math"
	"math/rand"
	"strconv"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

var (
	categories  = []string{"Meals", "Transport", "Taxi", "Toll", "Lodging"}
	departments = []string{"Finance", "Sales", "Operations", "Technology", "HR"}
)

// GenerateExpenses builds n synthetic expense claims. fraudRate is the base
// chance of a claim being fraudulent; red flags such as self-approval, round
// amounts or travel before request raise it.
func GenerateExpenses(n int, fraudRate float64, rng *rand.Rand) []Expense {
	baseDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]Expense, 0, n)
	for i := 0; i < n; i++ {
		requester := "U" + strconv.Itoa(rng.Intn(5000))
		traveller := requester
		if rng.Float64() < 0.2 {
			traveller = "U" + strconv.Itoa(rng.Intn(5000))
		}
		approver := "A" + strconv.Itoa(rng.Intn(800))
		if rng.Float64() < 0.03 {
			approver = requester
		}

		reqOffset := rng.Intn(300)
		travelOffset := reqOffset + rng.Intn(30)
		if rng.Float64() < 0.02 {
			travelOffset = reqOffset - 1 - rng.Intn(5)
		}
		reqDate := baseDate.AddDate(0, 0, reqOffset)
		travelDate := baseDate.AddDate(0, 0, travelOffset)

		cat := categories[rng.Intn(len(categories))]
		amount := rng.Float64()*450 + 10
		round := rng.Float64() < 0.25
		multiple5 := rng.Float64() < 0.25
		if round {
			amount = math.Trunc(amount)
		}
		if multiple5 {
			amount = float64(5 * int(amount/5))
		}

		score := 0.0
		flags := 0
		if approver == requester {
			score += 0.35
			flags++
		}
		if round {
			score += 0.15
			flags++
		}
		if multiple5 {
			score += 0.15
			flags++
		}
		if cat == "Taxi" && amount > 200 {
			score += 0.2
			flags++
		}
		fraud := 0
		if flags >= 2 || travelDate.Before(reqDate) || rng.Float64() < fraudRate+score/4 {
			fraud = 1
		}

		out = append(out, Expense{
			ExpenseID:   "E" + strconv.Itoa(1000000+i),
			RequesterID: requester,
			TravellerID: traveller,
			ApproverID:  approver,
			RequestDate: reqDate,
			TravelDate:  travelDate,
			Category:    cat,
			Amount:      amount,
			Department:  departments[rng.Intn(len(departments))],
			Fraud:       fraud,
		})
	}
	return out
}

// Categories lists the expense categories the generator draws from.
func Categories() []string { return append([]string(nil), categories...) }

// GenerateBlobs draws isotropic Gaussian clusters. Rows are emitted cluster by
// cluster; shuffle or split before training.
func GenerateBlobs(clusters []Cluster, rng *rand.Rand) Dataset {
	var d Dataset
	for _, c := range clusters {
		for i := 0; i < c.Count; i++ {
			row := make([]float64, len(c.Center))
			for j, mu := range c.Center {
				row[j] = normal(mu, c.StdDev, rng)
			}
			d.X = append(d.X, row)
			d.Y = append(d.Y, c.Label)
		}
	}
	return d
}

func normal(mu, sigma float64, rng *rand.Rand) float64 {
	if sigma <= 0 {
		return mu
	}
	u := rng.Float64()
	for u == 0 {
		u = rng.Float64()
	}
	return distuv.Normal{Mu: mu, Sigma: sigma}.Quantile(u)
}
