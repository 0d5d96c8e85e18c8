package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

func TestValidatePrice(t *testing.T) {
	for _, ok := range []string{"0.01", "20", "15.50", "199.99"} {
		assert.NoError(t, ValidatePrice(decimal.RequireFromString(ok)), ok)
	}
	for _, bad := range []string{"0", "-5", "10.005", "0.001"} {
		err := ValidatePrice(decimal.RequireFromString(bad))
		assert.True(t, httperr.IsBusiness(err, ReasonInvalidPrice), bad)
	}
}

func TestValidateDuration(t *testing.T) {
	assert.NoError(t, ValidateDuration(1))
	assert.True(t, httperr.IsBusiness(ValidateDuration(0), ReasonInvalidDuration))
}
