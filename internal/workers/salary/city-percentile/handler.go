// internal/workers/salary/city-percentile/handler.go
package citypercentile

import (
	"context"
	"fmt"
	"time"

	"fairpay/internal/common/camunda"
	"fairpay/internal/common/errors"
	"fairpay/internal/common/logger"
	"fairpay/internal/common/metrics"
	"fairpay/internal/service"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "salary-city-percentile"
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

	output, err := h.process(ctx, job)
	if err == nil {
		err = camunda.CompleteJob(ctx, client, job, output)
	}
	metrics.ObserveJob(TaskType, start, err)

	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":     job.Key,
		"city":       output.CitySlug,
		"percentile": output.Percentile,
	})
}

func (h *Handler) process(ctx context.Context, job entities.Job) (*Output, error) {
	var input Input
	if err := camunda.DecodeVariables(job, &input); err != nil {
		return nil, err
	}
	return h.Execute(ctx, &input)
}

// Execute ranks the salary among the occupation's estimates for every other city.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	converted, err := h.service.ConvertSalary(ctx, input.Salary, input.Period, input.CountryCode, input.Currency)
	if err != nil {
		return nil, err
	}

	res, err := h.service.GetPercentileForCity(ctx, input.OccupationSlug, input.CountryCode, input.CitySlug, converted.AnnualUSD)
	if err != nil {
		return nil, err
	}
	return &Output{PercentileResult: *res}, nil
}
