package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ModerationVerdict
	}{
		{"approved", "APPROVED", ModerationVerdict{Approved: true}},
		{"approved lowercase", "approved", ModerationVerdict{Approved: true}},
		{"approved with trailing prose", "APPROVED\nThe photo shows a gym selfie.", ModerationVerdict{Approved: true}},
		{"blocked with reason", "BLOCKED: nudity", ModerationVerdict{Approved: false, Reason: "nudity"}},
		{"blocked reason padded", "BLOCKED:   spam content  ", ModerationVerdict{Approved: false, Reason: "spam content"}},
		{"blocked without reason", "BLOCKED", ModerationVerdict{Approved: false, Reason: "unspecified"}},
		{"blocked bare colon", "BLOCKED:", ModerationVerdict{Approved: false, Reason: "unspecified"}},
		{"empty fails closed", "", ModerationVerdict{Approved: false, Reason: "unspecified"}},
		{"whitespace fails closed", "  \n ", ModerationVerdict{Approved: false, Reason: "unspecified"}},
		{"unknown fails closed", "Maybe fine?", ModerationVerdict{Approved: false, Reason: "Maybe fine?"}},
		{"only first line read", "BLOCKED: violence\nAPPROVED", ModerationVerdict{Approved: false, Reason: "violence"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseVerdict(tt.in))
		})
	}
}
