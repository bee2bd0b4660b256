package persistence

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Notice é a notificação transitória de uma falha do backend.
type Notice struct {
	Level     Level
	Operation string
	Message   string
	Err       error
	// pares chave/valor com ids relevantes
	Meta []string
}

type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, n Notice) {
	log.Printf("❌ Backend [%s] %s: %v %s", n.Operation, n.Message, n.Err, strings.Join(n.Meta, " "))
}

// SuccessRecorder é avisado quando o backend responde; zera contagens de falhas seguidas.
type SuccessRecorder interface {
	RecordSuccess()
}

// Notifiers repassa para todos, em ordem.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, n Notice) {
	for _, notifier := range ns {
		notifier.Notify(ctx, n)
	}
}

func (ns Notifiers) RecordSuccess() {
	for _, notifier := range ns {
		if r, ok := notifier.(SuccessRecorder); ok {
			r.RecordSuccess()
		}
	}
}

func failure(operation string, err error, meta ...string) Notice {
	pairs := make([]string, 0, len(meta)/2)
	for i := 0; i+1 < len(meta); i += 2 {
		pairs = append(pairs, fmt.Sprintf("%s=%s", meta[i], meta[i+1]))
	}
	return Notice{
		Level:     LevelError,
		Operation: operation,
		Message:   HumanMessage(err),
		Err:       err,
		Meta:      pairs,
	}
}

// HumanMessage traduz o erro para algo apresentável ao vendedor.
func HumanMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "O servidor demorou para responder. Tente novamente."
	case errors.Is(err, context.Canceled):
		return "Operação cancelada."
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "no such host"),
		strings.Contains(msg, "broken pipe"), strings.Contains(msg, "connection reset"):
		return "Sem conexão com o servidor. Verifique sua internet."
	case strings.Contains(msg, "permission denied"), strings.Contains(msg, "row-level security"):
		return "Você não tem permissão para esta operação."
	}
	return "Não foi possível concluir a operação. Tente novamente."
}
