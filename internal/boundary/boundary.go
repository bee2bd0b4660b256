// Package boundary contains failures of a region: a panic inside Guard or
// inside an HTTP handler becomes an error plus a recovery panel, and is
// reported to the configured sink.
package boundary

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
)

type PanicError struct {
	Region string
	Value  any
	Stack  []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("falha em %s: %v", e.Region, e.Value)
}

type Reporter interface {
	Report(ctx context.Context, err *PanicError)
}

type LogReporter struct{}

func (LogReporter) Report(_ context.Context, err *PanicError) {
	log.Printf("💥 PANIC em %s: %v\n%s", err.Region, err.Value, err.Stack)
}

// SentryReporter envia para o Sentry e também loga.
type SentryReporter struct{}

func (SentryReporter) Report(ctx context.Context, err *PanicError) {
	LogReporter{}.Report(ctx, err)

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("region", err.Region)
		scope.SetExtra("panic", fmt.Sprint(err.Value))
		hub.CaptureException(err)
	})
}

// NewReporter liga o Sentry só em produção com DSN; fora disso, log.
// O flush devolvido deve rodar no desligamento.
func NewReporter(env, dsn string) (Reporter, func(), error) {
	if env != "production" || dsn == "" {
		return LogReporter{}, func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{Dsn: dsn, Environment: env}); err != nil {
		return LogReporter{}, func() {}, fmt.Errorf("erro ao iniciar sentry: %w", err)
	}
	log.Println("✅ Sentry habilitado")
	return SentryReporter{}, func() { sentry.Flush(2 * time.Second) }, nil
}

type Boundary struct {
	reporter Reporter
}

func New(reporter Reporter) *Boundary {
	if reporter == nil {
		reporter = LogReporter{}
	}
	return &Boundary{reporter: reporter}
}

// Guard executa fn e converte um panic em *PanicError.
func (b *Boundary) Guard(ctx context.Context, region string, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			perr := &PanicError{Region: region, Value: r, Stack: debug.Stack()}
			b.reporter.Report(ctx, perr)
			err = perr
		}
	}()
	return fn(ctx)
}

type Action struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Reload bool   `json:"reload"`
}

// Panel substitui a região que falhou.
type Panel struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Region  string   `json:"region"`
	Actions []Action `json:"actions"`
}

func RecoveryPanel(region string) Panel {
	return Panel{
		Error:   "render_failed",
		Message: "Algo deu errado ao carregar esta seção.",
		Region:  region,
		Actions: []Action{
			{ID: "retry", Label: "Tentar novamente", Reload: false},
			{ID: "reload", Label: "Recarregar página", Reload: true},
		},
	}
}

// Middleware recupera panics dos handlers e responde 500 com o painel.
func (b *Boundary) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			region := r.Method + " " + r.URL.Path
			b.reporter.Report(r.Context(), &PanicError{Region: region, Value: rec, Stack: debug.Stack()})

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(RecoveryPanel(region))
		}()
		next.ServeHTTP(w, r)
	})
}
