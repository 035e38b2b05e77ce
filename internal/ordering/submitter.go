// Package ordering hands finished order payloads to the outside world.
package ordering

import (
	"context"
	"encoding/json"

	"github.com/angelmondragon/ordering-engine/internal/cart"
	pkgerrors "github.com/angelmondragon/ordering-engine/pkg/errors"
	"github.com/angelmondragon/ordering-engine/pkg/logger"
	"github.com/google/uuid"
)

const (
	SinkHTTP   = "http"
	SinkPubSub = "pubsub"
	SinkLog    = "log"
)

// Receipt acknowledges an accepted order.
type Receipt struct {
	Sink      string `json:"sink"`
	Reference string `json:"reference,omitempty"`
}

// Submitter performs the network write of an order. Failures are reported as
// SUBMISSION_FAILED errors.
type Submitter interface {
	Submit(ctx context.Context, payload cart.OrderPayload) (Receipt, error)
}

// IsSubmissionFailure reports whether err came from a failed submission.
func IsSubmissionFailure(err error) bool {
	return pkgerrors.IsCode(err, pkgerrors.CodeSubmission)
}

func submissionError(err error, message string) error {
	return pkgerrors.Wrap(pkgerrors.CodeSubmission, err, message)
}

// LogSubmitter accepts every order and writes it to the log.
type LogSubmitter struct {
	logg  *logger.Logger
	newID func() string
}

func NewLogSubmitter(logg *logger.Logger) *LogSubmitter {
	if logg == nil {
		logg = logger.Nop()
	}
	return &LogSubmitter{logg: logg, newID: uuid.NewString}
}

func (s *LogSubmitter) Submit(ctx context.Context, payload cart.OrderPayload) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, submissionError(err, "order submission cancelled")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Receipt{}, submissionError(err, "encode order payload")
	}
	reference := s.newID()
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"reference":    reference,
		"total_number": payload.TotalNumber,
		"total_price":  payload.TotalPrice,
		"payload":      json.RawMessage(body),
	})
	s.logg.Info(logCtx, "order.logged")
	return Receipt{Sink: SinkLog, Reference: reference}, nil
}
