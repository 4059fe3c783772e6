package dispatcher

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/logger"
	"github.com/ignatzorin/sinistros-backend/internal/pkg/apperror"
)

// Outcome исход стадии.
type Outcome int

const (
	OutcomeNext Outcome = iota
	OutcomeServed
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeServed:
		return "served"
	case OutcomeFailed:
		return "failed"
	default:
		return "next"
	}
}

// Resolution ответ стадии: результат, переход к следующей стадии или окончательная ошибка.
type Resolution struct {
	Outcome Outcome
	Result  any
	Err     error
}

func Served(result any) Resolution {
	return Resolution{Outcome: OutcomeServed, Result: result}
}

// Next передаёт вызов следующей стадии; err объясняет причину.
func Next(err error) Resolution {
	return Resolution{Outcome: OutcomeNext, Err: err}
}

func Failed(err error) Resolution {
	return Resolution{Outcome: OutcomeFailed, Err: err}
}

// Call вызов действия, который проходит по стадиям.
type Call struct {
	Action  Action
	Payload Payload
}

// Stage одна ступень цепочки.
type Stage interface {
	Name() string
	Resolve(ctx context.Context, call Call) Resolution
}

// EventRecorder пишет вызовы в журнал событий.
type EventRecorder interface {
	RecordEvent(ctx context.Context, claimID *uuid.UUID, workflow string, payload any, status valueobject.EventStatus) error
}

// Result ответ диспетчера. Stage сообщает, какая ступень обслужила вызов.
type Result struct {
	Action Action `json:"acao"`
	Stage  string `json:"origem"`
	Data   any    `json:"dados"`
}

// Dispatcher проводит вызов по стадиям в заданном порядке.
type Dispatcher struct {
	stages   []Stage
	recorder EventRecorder
	metrics  *Metrics
}

// New создаёт диспетчер. Порядок stages задаёт порядок попыток.
func New(recorder EventRecorder, metrics *Metrics, stages ...Stage) *Dispatcher {
	return &Dispatcher{
		stages:   stages,
		recorder: recorder,
		metrics:  metrics,
	}
}

// Invoke проверяет тело и проводит вызов по цепочке стадий.
// Ошибки предметной области возвращаются сразу и не повторяются.
func (d *Dispatcher) Invoke(ctx context.Context, action Action, payload Payload) (*Result, error) {
	if !action.IsValid() {
		return nil, apperror.New(apperror.ErrCodeUnimplemented, "ação não implementada: "+string(action))
	}
	if payload == nil {
		return nil, apperror.Validation("payload ausente para %s", action)
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	call := Call{Action: action, Payload: payload}
	log := logger.WithComponent("dispatcher").WithField("action", action)

	for _, stage := range d.stages {
		started := time.Now()
		res := stage.Resolve(ctx, call)
		d.metrics.observe(action, stage.Name(), res.Outcome, started)

		switch res.Outcome {
		case OutcomeServed:
			if stage.Name() == StageRemote {
				d.record(ctx, call, stage.Name(), valueobject.EventStatusSuccess, nil)
			}
			return &Result{Action: action, Stage: stage.Name(), Data: res.Result}, nil
		case OutcomeFailed:
			log.WithFields(logrus.Fields{"stage": stage.Name(), "error": res.Err}).Error("действие завершилось ошибкой")
			d.record(ctx, call, stage.Name(), valueobject.EventStatusError, res.Err)
			return nil, res.Err
		default:
			log.WithFields(logrus.Fields{"stage": stage.Name(), "error": res.Err}).Warn("переход к следующей стадии")
		}
	}

	err := apperror.New(apperror.ErrCodeUnimplemented, "ação não implementada: "+string(action))
	log.WithError(err).Error("ни одна стадия не обслужила действие")
	d.record(ctx, call, "", valueobject.EventStatusError, err)
	return nil, err
}

func (d *Dispatcher) record(ctx context.Context, call Call, stage string, status valueobject.EventStatus, cause error) {
	if d.recorder == nil {
		return
	}
	summary := map[string]any{"origem": stage}
	if cause != nil {
		summary["erro"] = string(apperror.CodeOf(cause))
	}
	if err := d.recorder.RecordEvent(ctx, claimRef(call.Payload), string(call.Action), summary, status); err != nil {
		logger.WithComponent("dispatcher").
			WithError(err).
			WithFields(logrus.Fields{"action": call.Action, "stage": stage}).
			Warn("не удалось записать событие")
	}
}
