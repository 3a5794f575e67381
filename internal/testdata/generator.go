// File: internal/testdata/generator.go

// Package testdata produces randomized-but-valid payloads for the bank's
// forms. Uniqueness comes from random suffixes rather than counters so that
// independent runs against the shared demo site never collide.
package testdata

import (
	"fmt"
	"math/rand/v2"
)

// RegistrationData is the full payload the registration form expects. Most
// fields are fixed because the server validates them; the username carries
// the collision-avoiding randomness.
type RegistrationData struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Address         string `json:"address"`
	City            string `json:"city"`
	State           string `json:"state"`
	ZipCode         string `json:"zipCode"`
	Phone           string `json:"phone"`
	SSN             string `json:"ssn"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// BillPaymentData is the payee payload for the bill-pay form.
type BillPaymentData struct {
	PayeeName     string `json:"payeeName"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zipCode"`
	Phone         string `json:"phone"`
	AccountNumber string `json:"accountNumber"`
	Amount        string `json:"amount"`
}

// random5Digit returns a uniform integer in [10000, 99999].
func random5Digit() int {
	return 10000 + rand.IntN(90000)
}

// NewRegistrationData builds a registration payload with a fresh random
// username.
func NewRegistrationData() RegistrationData {
	password := "Test@1234"
	return RegistrationData{
		FirstName:       "JourneyUser",
		LastName:        "Automation",
		Address:         "123 Test Street",
		City:            "Test City",
		State:           "Test State",
		ZipCode:         "12345",
		Phone:           "1234567890",
		SSN:             "123-45-6789",
		Username:        fmt.Sprintf("journey%d", random5Digit()),
		Password:        password,
		ConfirmPassword: password,
	}
}

// RandomAmount returns a uniform amount in [min, max] formatted with exactly
// two decimal places, the way the bank's forms expect currency.
func RandomAmount(min, max float64) string {
	if max < min {
		min, max = max, min
	}
	return fmt.Sprintf("%.2f", min+rand.Float64()*(max-min))
}

// NewBillPaymentData builds a randomized payee payload with an amount in
// [50, 500].
func NewBillPaymentData() BillPaymentData {
	return BillPaymentData{
		PayeeName:     fmt.Sprintf("Payee_%d", rand.IntN(1000)),
		Address:       fmt.Sprintf("%d Hawa Mahal Road", rand.IntN(10000)),
		City:          "Jaipur",
		State:         "Rajasthan",
		ZipCode:       "302017",
		Phone:         fmt.Sprintf("%010d", 9110000000+rand.Int64N(10000)),
		AccountNumber: fmt.Sprintf("%08d", rand.IntN(100000000)),
		Amount:        RandomAmount(50, 500),
	}
}
