package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionValidate(t *testing.T) {
	tests := []struct {
		name string
		sub  Submission
		ok   bool
	}{
		{"credentials", Credentials("alice", "p1"), true},
		{"order", Order("999"), true},
		{"empty username", Credentials("", "p1"), false},
		{"empty password", Credentials("alice", ""), false},
		{"empty order", Order(""), false},
		{"no kind", Submission{}, false},
		{"credentials with order id", Submission{Kind: SubmissionCredentials, Username: "a", Password: "b", OrderID: "1"}, false},
		{"order with credentials", Submission{Kind: SubmissionOrder, OrderID: "1", Username: "a"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidSubmission)
			}
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
}

func TestRequestSubmissionRoundTrip(t *testing.T) {
	u, p := "alice", "p1"
	r := Request{SubmittedUsername: &u, SubmittedPassword: &p}
	assert.Equal(t, Credentials("alice", "p1"), r.Submission())

	o := "999"
	r = Request{OrderID: &o}
	assert.Equal(t, Order("999"), r.Submission())
}

func TestRequestLiveLink(t *testing.T) {
	link := "tok-1"
	assert.True(t, (&Request{Status: StatusApproved, InviteLink: &link}).LiveLink())
	assert.False(t, (&Request{Status: StatusApproved, InviteLink: &link, IsRevoked: true}).LiveLink())
	assert.False(t, (&Request{Status: StatusApproved}).LiveLink())
	assert.False(t, (&Request{Status: StatusPending, InviteLink: &link}).LiveLink())
}
