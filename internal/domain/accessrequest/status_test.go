package accessrequest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

func TestParseDecision(t *testing.T) {
	st, err := ParseDecision("approved")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, st)

	st, err = ParseDecision("REJECTED")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, st)

	_, err = ParseDecision("PENDING")
	assert.True(t, httperr.IsBusiness(err, ReasonInvalidDecision))
}

func TestCanDecide(t *testing.T) {
	assert.NoError(t, CanDecide(StatusPending))
	assert.True(t, httperr.IsBusiness(CanDecide(StatusApproved), ReasonAlreadyDecided))
	assert.True(t, httperr.IsBusiness(CanDecide(StatusRejected), ReasonAlreadyDecided))
}
