// internal/workers/salary/country-comparisons/handler.go
package countrycomparisons

import (
	"context"
	"fmt"
	"time"

	"fairpay/internal/common/camunda"
	"fairpay/internal/common/errors"
	"fairpay/internal/common/logger"
	"fairpay/internal/common/metrics"
	"fairpay/internal/salary"
	"fairpay/internal/service"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "salary-country-comparisons"
)

type Handler struct {
	config       *Config
	service      *service.Service
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(cfg *Config, svc *service.Service, log logger.Logger) (*Handler, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", TaskType, err)
	}
	if svc == nil {
		return nil, fmt.Errorf("%s: service is required", TaskType)
	}

	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       cfg,
		service:      svc,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := camunda.JobTimeout(h.config.Timeout)
	defer cancel()

	var input Input
	err := camunda.DecodeVariables(job, &input)
	var output *Output
	if err == nil {
		output, err = h.Execute(ctx, &input)
	}
	if err == nil {
		err = camunda.CompleteJob(ctx, client, job, output)
	}
	metrics.ObserveJob(TaskType, start, err)

	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":      job.Key,
		"countries":   len(output.Comparisons),
		"bestCountry": output.BestCountryCode,
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	converted, err := h.service.ConvertSalary(ctx, input.Salary, input.Period, input.UserCountryCode, input.Currency)
	if err != nil {
		return nil, err
	}

	res, err := h.service.GetCountryComparisons(ctx, input.OccupationSlug, converted.AnnualUSD, input.UserCountryCode)
	if err != nil {
		return nil, err
	}

	out := &Output{ComparisonResult: *res}
	if len(res.Comparisons) > 0 {
		out.BestCountryCode = res.Comparisons[0].CountryCode
	}
	for _, c := range res.Comparisons {
		if c.Position == salary.PositionHigher {
			out.HigherCount++
		}
	}
	return out, nil
}
