package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordStoreWrite(t *testing.T) {
	okBefore := testutil.ToFloat64(StoreWrites.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(StoreWrites.WithLabelValues("error"))

	RecordStoreWrite(3*time.Millisecond, 2048, nil)
	RecordStoreWrite(time.Millisecond, 0, errors.New("disk full"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(StoreWrites.WithLabelValues("ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(StoreWrites.WithLabelValues("error")))
	assert.Equal(t, float64(2048), testutil.ToFloat64(StoreDocumentBytes))
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequests.WithLabelValues("GET", "/api/inventory", "200"))
	RecordAPIRequest("GET", "/api/inventory", 200, 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(APIRequests.WithLabelValues("GET", "/api/inventory", "200")))
}

func TestRecordTransaction(t *testing.T) {
	countBefore := testutil.ToFloat64(TransactionsRecorded.WithLabelValues("out"))
	unitsBefore := testutil.ToFloat64(TransactionUnits.WithLabelValues("out"))

	RecordTransaction("out", 90)

	assert.Equal(t, countBefore+1, testutil.ToFloat64(TransactionsRecorded.WithLabelValues("out")))
	assert.Equal(t, unitsBefore+90, testutil.ToFloat64(TransactionUnits.WithLabelValues("out")))
}

func TestRecordLogin(t *testing.T) {
	before := testutil.ToFloat64(LoginAttempts.WithLabelValues("invalid"))
	RecordLogin("invalid")
	assert.Equal(t, before+1, testutil.ToFloat64(LoginAttempts.WithLabelValues("invalid")))
}
