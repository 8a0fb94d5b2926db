package model

import "strings"

// ModerationVerdict is the outcome of a content-moderation check.
type ModerationVerdict struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}

// ParseVerdict interprets the single-line moderation convention:
// "APPROVED" approves, "BLOCKED: <reason>" blocks with a reason. Anything
// else blocks conservatively with the raw first line as the reason.
func ParseVerdict(text string) ModerationVerdict {
	line := strings.TrimSpace(text)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}

	if line == "" {
		return ModerationVerdict{Approved: false, Reason: "unspecified"}
	}

	upper := strings.ToUpper(line)
	switch {
	case strings.HasPrefix(upper, "APPROVED"):
		return ModerationVerdict{Approved: true}
	case strings.HasPrefix(upper, "BLOCKED"):
		reason := strings.TrimSpace(strings.TrimPrefix(line[len("BLOCKED"):], ":"))
		if reason == "" {
			reason = "unspecified"
		}
		return ModerationVerdict{Approved: false, Reason: reason}
	default:
		// Unknown verdicts fail closed.
		return ModerationVerdict{Approved: false, Reason: line}
	}
}
