package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordExternalCallStatus(t *testing.T) {
	RecordExternalCall("market", "simple_price", nil, time.Millisecond)
	RecordExternalCall("market", "simple_price", errors.New("boom"), time.Millisecond)
	RecordExternalCall("market", "simple_price", errors.New("boom"), time.Millisecond)

	if got := testutil.ToFloat64(externalCalls.WithLabelValues("market", "simple_price", "ok")); got != 1 {
		t.Fatalf("ok count = %v", got)
	}
	if got := testutil.ToFloat64(externalCalls.WithLabelValues("market", "simple_price", "fail")); got != 2 {
		t.Fatalf("fail count = %v", got)
	}
}

func TestSetSessions(t *testing.T) {
	SetSessions(3)
	if got := testutil.ToFloat64(sessions); got != 3 {
		t.Fatalf("sessions = %v", got)
	}
}
