package quotation

import "errors"

var (
	ErrInvalidStatus         = errors.New("invalid quotation status")
	ErrInvalidResponseStatus = errors.New("response status must be APPROVED or REJECTED")
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusSent     Status = "SENT"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusExpired  Status = "EXPIRED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSent, StatusApproved, StatusRejected, StatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status refuses any further client response.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusExpired:
		return true
	default:
		return false
	}
}

// IsRespondable reports whether a client may still approve or reject.
// SENT is pre-response: mailing the quotation does not consume the
// client's single decision.
func (s Status) IsRespondable() bool {
	return s == StatusPending || s == StatusSent
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// NewResponseStatus parses the status a client submits on the public
// respond endpoint. Only the two decision states are accepted.
func NewResponseStatus(s string) (Status, error) {
	status := Status(s)
	if status != StatusApproved && status != StatusRejected {
		return "", ErrInvalidResponseStatus
	}
	return status, nil
}
