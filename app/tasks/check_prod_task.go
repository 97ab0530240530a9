package tasks

import (
	"context"
	"log/slog"
)

type CheckProdTask struct {
	Task
	checker Checker
	status  *StatusBoard
}

func NewCheckProdTask(prodID string, checker Checker, status *StatusBoard) *CheckProdTask {
	return &CheckProdTask{
		Task:    NewTask(TaskTypeCheckProd, prodID),
		checker: checker,
		status:  status,
	}
}

func (t *CheckProdTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result, err := t.checker.Check(ctx, t.ProdID)
	if t.status != nil {
		t.status.Record(t.ProdID, result, err)
	}
	if err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", "CheckProd",
		"prod", t.ProdID,
		"name", result.Name,
		"duration", t.GetDuration(),
		"outcome", result.Outcome.Kind.String(),
		"delta", result.Outcome.Delta,
		"comments", result.Comments)

	return nil
}
