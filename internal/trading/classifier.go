package trading

import (
	"errors"
	"fmt"

	"apex_bot/internal/domain"
)

// classifySubmission turns the raw result of one submission attempt into a
// terminal Outcome. It never returns an error: every failure mode maps to
// a Rejected value the caller can inspect.
func classifySubmission(req domain.OrderRequest, ack *domain.OrderAck, err error) domain.Outcome {
	if err == nil && ack != nil {
		return domain.Outcome{
			Request: req,
			Accepted: &domain.Accepted{
				OrderID: ack.OrderID,
				Status:  ack.Status,
				Raw:     ack.Fields,
			},
		}
	}

	var fault *domain.Fault
	if errors.As(err, &fault) {
		return domain.Outcome{
			Request:  req,
			Rejected: &domain.Rejected{Stage: domain.StageSubmission, Reason: submissionReason(fault)},
		}
	}

	// A gateway that returns neither ack nor a classified fault is itself
	// misbehaving; report it rather than guess.
	reason := "unknown: submission produced no response"
	if err != nil {
		reason = fmt.Sprintf("%s: %s", domain.FaultUnknown, err.Error())
	}
	return domain.Outcome{
		Request:  req,
		Rejected: &domain.Rejected{Stage: domain.StageSubmission, Reason: reason},
	}
}

// rejectValidation produces the terminal Outcome for an order that never
// left the process.
func rejectValidation(req domain.OrderRequest, err error) domain.Outcome {
	return domain.Outcome{
		Request:  req,
		Rejected: &domain.Rejected{Stage: domain.StageValidation, Reason: err.Error()},
	}
}

// submissionReason renders a human-readable reason that names the fault
// category, with a hint about what the user can do.
func submissionReason(f *domain.Fault) string {
	switch f.Category {
	case domain.FaultAuth:
		return fmt.Sprintf("auth: %s (check your API key and secret)", f.Message)
	case domain.FaultPermission:
		return fmt.Sprintf("permission: %s (key lacks futures trading permission)", f.Message)
	case domain.FaultRateLimit:
		return fmt.Sprintf("rate_limit: %s (back off before retrying)", f.Message)
	case domain.FaultMalformed:
		return fmt.Sprintf("malformed_request: %s (rejected by the exchange; this should have been caught locally)", f.Message)
	case domain.FaultNetwork:
		return fmt.Sprintf("network: %s (transient; safe to retry)", f.Message)
	default:
		return fmt.Sprintf("%s: %s", domain.FaultUnknown, f.Message)
	}
}
