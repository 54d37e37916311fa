// internal/workers/salary/city-percentile/handler_test.go
package citypercentile

import (
	"context"
	"encoding/json"
	"testing"

	"fairpay/internal/common/camunda"
	"fairpay/internal/common/errors"
	"fairpay/internal/common/logger"
	"fairpay/internal/dataset/datasettest"
	"fairpay/internal/service"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "salary-check",
		ElementId:          "Activity_CityPercentile",
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	svc := service.New(datasettest.Tables(t), service.Options{Logger: logger.NewTestLogger(t)})
	h, err := NewHandler(nil, svc, logger.NewTestLogger(t))
	require.NoError(t, err)
	return h
}

func TestHandler_Execute(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name           string
		vars           map[string]interface{}
		wantPercentile float64
		wantLocal      int64
	}{
		{
			name: "new york annual",
			vars: map[string]interface{}{
				"occupationSlug": "software-engineer",
				"countryCode":    "US",
				"citySlug":       "new-york",
				"salary":         110000,
			},
			wantPercentile: 50,
			wantLocal:      207360,
		},
		{
			// 60 × 2080 = 124800: above cleveland, munich and bangalore.
			name: "berlin hourly",
			vars: map[string]interface{}{
				"occupationSlug": "software-engineer",
				"countryCode":    "DE",
				"citySlug":       "Berlin",
				"salary":         60,
				"period":         "hourly",
			},
			wantPercentile: 50,
			wantLocal:      102060,
		},
		{
			name: "london above everyone",
			vars: map[string]interface{}{
				"occupationSlug": "software-engineer",
				"countryCode":    "GB",
				"citySlug":       "london",
				"salary":         250000,
			},
			wantPercentile: 100,
			wantLocal:      136080,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.process(context.Background(), createMockJob(int64(i+1), tt.vars))
			require.NoError(t, err)
			assert.Equal(t, tt.wantPercentile, out.Percentile)
			assert.Equal(t, 6, out.ComparatorCount)
			require.NotNil(t, out.LocalEstimateUSD)
			assert.Equal(t, tt.wantLocal, *out.LocalEstimateUSD)
		})
	}
}

func TestHandler_Execute_Errors(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	_, err := h.Execute(ctx, &Input{OccupationSlug: "software-engineer", CountryCode: "DE", CitySlug: "new-york", Salary: 100000})
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))

	_, err = h.Execute(ctx, &Input{OccupationSlug: "software-engineer", CountryCode: "US", CitySlug: "austin", Salary: -5})
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.CodeOf(err))

	_, err = h.Execute(ctx, &Input{OccupationSlug: "software-engineer", CountryCode: "US", CitySlug: "austin", Salary: 1, Currency: "btc"})
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.CodeOf(err))
}

func TestHandler_MalformedVariables(t *testing.T) {
	h := newTestHandler(t)
	job := createMockJob(7, nil)
	job.Variables = `{"salary": "lots"}`

	_, err := h.process(context.Background(), job)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.CodeOf(err))

	var input Input
	assert.Error(t, camunda.DecodeVariables(job, &input))
}
