// internal/model/prediction.go
package model

import "time"

// Label is the classifier's binary outcome.
type Label string

const (
	Purchase   Label = "Purchase"
	NoPurchase Label = "NoPurchase"
)

// Message is the sentence shown to the person filling in the form.
func (l Label) Message() string {
	if l == Purchase {
		return "Will Purchase Package"
	}
	return "Will Not Purchase Package"
}

type Prediction struct {
	Label        Label     `json:"label"`
	Purchase     bool      `json:"purchase"`
	Probability  float64   `json:"probability"`
	ModelName    string    `json:"model"`
	ModelVersion string    `json:"version"`
	PredictedAt  time.Time `json:"predicted_at"`
}
