package cascade_test

import (
	"testing"

	"github.com/fwojciec/cascade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuota(t *testing.T) {
	t.Parallel()
	for _, q := range []cascade.Quota{cascade.QuotaLow, cascade.QuotaMedium, cascade.QuotaHigh} {
		got, err := cascade.ParseQuota(q.String())
		require.NoError(t, err)
		assert.Equal(t, q, got)
	}
	_, err := cascade.ParseQuota("unlimited")
	assert.ErrorIs(t, err, cascade.ErrValidation)
}

func TestParseQuality(t *testing.T) {
	t.Parallel()
	for _, q := range []cascade.Quality{cascade.QualityStandard, cascade.QualityHigh, cascade.QualityHighest} {
		got, err := cascade.ParseQuality(q.String())
		require.NoError(t, err)
		assert.Equal(t, q, got)
	}
	_, err := cascade.ParseQuality("HIGH")
	assert.ErrorIs(t, err, cascade.ErrValidation)
}

func TestQuotaQuality_OutOfRangeString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Quota(7)", cascade.Quota(7).String())
	assert.Equal(t, "Quality(-1)", cascade.Quality(-1).String())
}
