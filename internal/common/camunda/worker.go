// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"encoding/json"
	"time"

	"fairpay/internal/common/config"
	"fairpay/internal/common/errors"
	"fairpay/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/google/uuid"
)

// instanceID distinguishes this process's workers in broker logs and Operate.
var instanceID = uuid.NewString()

// JobHandler matches the Zeebe handler signature. Handlers complete or fail the job
// themselves.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for taskType. Disabled workers are not opened and
// NewWorker returns nil.
func NewWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler JobHandler, log logger.Logger) *CamundaWorker {
	log = log.WithFields(map[string]interface{}{"taskType": taskType, "worker": WorkerName(taskType)})
	if !wcfg.Enabled {
		log.Info("worker disabled", nil)
		return nil
	}

	cmd := client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(wcfg.MaxJobsActive).
		Name(WorkerName(taskType))
	if wcfg.Timeout > 0 {
		cmd = cmd.Timeout(config.GetDuration(wcfg.Timeout))
	}

	w := &CamundaWorker{
		worker:   cmd.Open(),
		logger:   log,
		taskType: taskType,
	}
	log.Info("worker started", map[string]interface{}{
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeoutMs":     wcfg.Timeout,
	})
	return w
}

// WorkerName is the name reported to the broker for taskType's worker.
func WorkerName(taskType string) string {
	return taskType + "-" + instanceID[:8]
}

func (w *CamundaWorker) TaskType() string {
	return w.taskType
}

// Stop closes the worker and waits for in-flight jobs or ctx, whichever ends first.
// The shared client stays open.
func (w *CamundaWorker) Stop(ctx context.Context) {
	w.logger.Info("stopping worker", nil)
	done := make(chan struct{})
	go func() {
		w.worker.Close()
		w.worker.AwaitClose()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("worker stop timed out", nil)
	}
}

// DecodeVariables unmarshals the job variables into v.
func DecodeVariables(job entities.Job, v interface{}) error {
	if err := json.Unmarshal([]byte(job.Variables), v); err != nil {
		return errors.NewInvalidInputError("parse job variables: " + err.Error())
	}
	return nil
}

// CompleteJob completes the job with out as its variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, out interface{}) error {
	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(out)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return errors.NewExternalServiceError("zeebe", err)
	}
	return nil
}

// JobTimeout bounds one job's execution.
func JobTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(context.Background(), d)
}
