// internal/workers/salary/relocation-verdict/handler.go
package relocationverdict

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
	TaskType = "salary-relocation-verdict"
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
	if err := camunda.DecodeVariables(job, &input); err != nil {
		h.fail(ctx, client, job, start, err)
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, start, err)
		return
	}
	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.fail(ctx, client, job, start, err)
		return
	}

	metrics.ObserveJob(TaskType, start, nil)
	h.logger.Info("relocation verdict computed", map[string]interface{}{
		"jobKey":  job.Key,
		"from":    input.FromCitySlug,
		"to":      input.ToCitySlug,
		"verdict": output.Verdict,
	})
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, start time.Time, err error) {
	metrics.ObserveJob(TaskType, start, err)
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	res, err := h.service.GetRelocationResult(ctx, input.OccupationSlug, input.FromCitySlug, input.ToCitySlug)
	if err != nil {
		return nil, err
	}
	return &Output{
		RelocationResult: *res,
		Recommended:      res.Verdict == salary.VerdictYes || res.Verdict == salary.VerdictStrongYes,
	}, nil
}
