// cmd/fairpay-server/workers.go
package main

import (
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"fairpay/internal/common/camunda"
	"fairpay/internal/common/config"
	"fairpay/internal/common/logger"
	"fairpay/internal/service"
	cpc "fairpay/internal/workers/salary/city-percentile"
	ccm "fairpay/internal/workers/salary/country-comparisons"
	cpt "fairpay/internal/workers/salary/country-percentile"
	rlv "fairpay/internal/workers/salary/relocation-verdict"
)

// startWorkers opens one job worker per enabled salary task type.
func startWorkers(client zbc.Client, cfg *config.Config, svc *service.Service, log logger.Logger) ([]*camunda.CamundaWorker, error) {
	var workers []*camunda.CamundaWorker
	start := func(taskType string, handler camunda.JobHandler) {
		if w := camunda.NewWorker(client, taskType, config.GetWorkerConfig(cfg, taskType), handler, log); w != nil {
			workers = append(workers, w)
		}
	}

	if config.IsWorkerEnabled(cfg, cpt.TaskType) {
		handler, err := cpt.NewHandler(cpt.FromWorkerConfig(config.GetWorkerConfig(cfg, cpt.TaskType)), svc, log)
		if err != nil {
			return nil, fmt.Errorf("create %s handler: %w", cpt.TaskType, err)
		}
		start(cpt.TaskType, handler)
	}

	if config.IsWorkerEnabled(cfg, cpc.TaskType) {
		handler, err := cpc.NewHandler(cpc.FromWorkerConfig(config.GetWorkerConfig(cfg, cpc.TaskType)), svc, log)
		if err != nil {
			return nil, fmt.Errorf("create %s handler: %w", cpc.TaskType, err)
		}
		start(cpc.TaskType, handler)
	}

	if config.IsWorkerEnabled(cfg, ccm.TaskType) {
		handler, err := ccm.NewHandler(ccm.FromWorkerConfig(config.GetWorkerConfig(cfg, ccm.TaskType)), svc, log)
		if err != nil {
			return nil, fmt.Errorf("create %s handler: %w", ccm.TaskType, err)
		}
		start(ccm.TaskType, handler)
	}

	if config.IsWorkerEnabled(cfg, rlv.TaskType) {
		handler, err := rlv.NewHandler(rlv.FromWorkerConfig(config.GetWorkerConfig(cfg, rlv.TaskType)), svc, log)
		if err != nil {
			return nil, fmt.Errorf("create %s handler: %w", rlv.TaskType, err)
		}
		start(rlv.TaskType, handler)
	}

	return workers, nil
}
