// Package health keeps the connectivity self-check: after a run of backend
// errors it probes the database once and records the outcome.
package health

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/xavierca1/ligue-solar/internal/persistence"
)

// Erros seguidos antes de testar a conexão
const DefaultThreshold = 3

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Status struct {
	Online            bool      `json:"online"`
	ConsecutiveErrors int       `json:"consecutive_errors"`
	LastProbe         time.Time `json:"last_probe,omitempty"`
	LastError         string    `json:"last_error,omitempty"`
}

type ConnectivityMonitor struct {
	pinger    Pinger
	threshold int
	timeout   time.Duration
	now       func() time.Time

	mu     sync.Mutex
	status Status
}

func NewConnectivityMonitor(pinger Pinger, threshold int) *ConnectivityMonitor {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &ConnectivityMonitor{
		pinger:    pinger,
		threshold: threshold,
		timeout:   3 * time.Second,
		now:       time.Now,
		status:    Status{Online: true},
	}
}

// Notify conta falhas do backend; é um persistence.Notifier.
func (m *ConnectivityMonitor) Notify(ctx context.Context, n persistence.Notice) {
	if n.Level != persistence.LevelError {
		return
	}
	m.RecordError(ctx)
}

// RecordError soma uma falha e, ao atingir o limite, testa a conexão.
func (m *ConnectivityMonitor) RecordError(ctx context.Context) {
	m.mu.Lock()
	m.status.ConsecutiveErrors++
	probe := m.status.ConsecutiveErrors >= m.threshold
	m.mu.Unlock()

	if probe {
		m.Probe(ctx)
	}
}

// RecordSuccess zera a sequência de falhas; é um persistence.SuccessRecorder.
func (m *ConnectivityMonitor) RecordSuccess() {
	m.mu.Lock()
	m.status.ConsecutiveErrors = 0
	m.mu.Unlock()
}

// Probe pinga o banco e zera o contador.
func (m *ConnectivityMonitor) Probe(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
	defer cancel()
	err := m.pinger.PingContext(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.LastProbe = m.now()
	m.status.ConsecutiveErrors = 0
	if err != nil {
		m.status.Online = false
		m.status.LastError = err.Error()
		log.Printf("❌ Backend indisponível após falhas seguidas: %v", err)
	} else {
		if !m.status.Online {
			log.Println("✅ Conexão com o backend restabelecida")
		}
		m.status.Online = true
		m.status.LastError = ""
	}
	return m.status
}

func (m *ConnectivityMonitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}
