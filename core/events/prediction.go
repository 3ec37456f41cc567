package events

import (
	"time"

	"github.com/railfleet/locopredict/core/model"
)

// PredictionEvent is published for each prediction served to a caller.
type PredictionEvent struct {
	LocomotiveNumber string
	Type             model.PredictionType
	Method           model.Method
	RiskLevel        model.RiskLevel
	RiskScore        float64
	Err              error
	Latency          time.Duration
}
