// internal/common/observability/metrics_test.go
package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestObservability_RecordsSpansAndMetrics(t *testing.T) {
	reg := promclient.NewRegistry()
	recorder := tracetest.NewSpanRecorder()

	obs, err := New("fairpay-test", WithRegisterer(reg), WithSpanProcessor(recorder))
	require.NoError(t, err)
	defer obs.Shutdown(context.Background())

	ctx, span := obs.StartSpan(context.Background(), "GetPercentileForCountry", attribute.String("occupation", "software-engineer"))
	obs.RecordOperation(ctx, "GetPercentileForCountry", "ok", 3*time.Millisecond)
	EndSpan(span, nil)

	_, failing := obs.StartSpan(context.Background(), "GetRelocationResult")
	EndSpan(failing, fmt.Errorf("city not found"))

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "GetPercentileForCountry", ended[0].Name())
	assert.Equal(t, codes.Error, ended[1].Status().Code)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["service_operations_total"], "gathered: %v", names)
	assert.True(t, names["service_operation_duration_milliseconds"], "gathered: %v", names)
	assert.False(t, names["service.operations_total"], "gathered: %v", names)
}

func TestObservability_NilIsSafe(t *testing.T) {
	var obs *Observability
	ctx, span := obs.StartSpan(context.Background(), "noop")
	obs.RecordOperation(ctx, "noop", "ok", time.Millisecond)
	EndSpan(span, nil)
	assert.NoError(t, obs.Shutdown(context.Background()))
}
