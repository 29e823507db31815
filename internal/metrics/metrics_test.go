package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("POST", "/contributions/pay", "200", 0.2)

	count := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/contributions/pay", "200"))
	assert.Equal(t, float64(1), count)
}

func TestRecordContribution(t *testing.T) {
	ContributionsTotal.Reset()

	RecordContribution("paid")
	RecordContribution("paid")
	RecordContribution("rejected")

	assert.Equal(t, float64(2), testutil.ToFloat64(ContributionsTotal.WithLabelValues("paid")))
	assert.Equal(t, float64(1), testutil.ToFloat64(ContributionsTotal.WithLabelValues("rejected")))
}

func TestRecordEnforcementAction(t *testing.T) {
	EnforcementActionsTotal.Reset()

	RecordEnforcementAction("suspend")
	RecordEnforcementAction("ban")
	RecordEnforcementAction("ban")

	assert.Equal(t, float64(1), testutil.ToFloat64(EnforcementActionsTotal.WithLabelValues("suspend")))
	assert.Equal(t, float64(2), testutil.ToFloat64(EnforcementActionsTotal.WithLabelValues("ban")))
}

func TestRecordWalletTransaction(t *testing.T) {
	WalletTransactionsTotal.Reset()

	RecordWalletTransaction("contribution", "out")
	RecordWalletTransaction("funding", "in")

	assert.Equal(t, float64(1), testutil.ToFloat64(WalletTransactionsTotal.WithLabelValues("contribution", "out")))
	assert.Equal(t, float64(1), testutil.ToFloat64(WalletTransactionsTotal.WithLabelValues("funding", "in")))
}

func TestRecordRedemption(t *testing.T) {
	RedemptionsTotal.Reset()

	RecordRedemption("requested")

	assert.Equal(t, float64(1), testutil.ToFloat64(RedemptionsTotal.WithLabelValues("requested")))
}
