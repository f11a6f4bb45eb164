package throttle

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-manager-ads/internal/config"
	"github.com/vfg2006/traffic-manager-ads/pkg/clock"
)

// CallKind diferencia chamadas de leitura e escrita, que têm custos diferentes
// no limite de uso da Meta
type CallKind int

const (
	Read CallKind = iota
	Write
)

// Governor mantém um contador de uso por chave de conta (leaky bucket). Cada
// tentativa de chamada registra uso; Decay é o único caminho que reduz o uso.
type Governor struct {
	mu     sync.Mutex
	usage  map[string]int
	queued map[string]int

	maxUsage      int
	decayInterval time.Duration
	readDelay     time.Duration
	writeDelay    time.Duration
	clock         clock.Clock
}

func NewGovernor(cfg config.Governor, clk clock.Clock) *Governor {
	if clk == nil {
		clk = clock.Real()
	}

	return &Governor{
		usage:         make(map[string]int),
		queued:        make(map[string]int),
		maxUsage:      cfg.MaxUsage(),
		decayInterval: cfg.DecayInterval(),
		readDelay:     cfg.ReadDelay(),
		writeDelay:    cfg.WriteDelay(),
		clock:         clk,
	}
}

// MaxUsage retorna o orçamento de uso da janela
func (g *Governor) MaxUsage() int {
	return g.maxUsage
}

// RecordUsage incrementa o uso da chave e retorna o novo valor
func (g *Governor) RecordUsage(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.usage[key]++
	return g.usage[key]
}

// Usage retorna o uso atual da chave (0 quando ausente)
func (g *Governor) Usage(key string) (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	count, ok := g.usage[key]
	return count, ok
}

// Queued retorna quantos chamadores estão aguardando na chave
func (g *Governor) Queued(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.queued[key]
}

// Decay decrementa o uso de todas as chaves, removendo as que chegam a zero
func (g *Governor) Decay() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for key := range g.usage {
		g.usage[key]--
		if g.usage[key] <= 0 {
			delete(g.usage, key)
		}
	}
}

// Start executa Decay no intervalo configurado até o contexto ser cancelado
func (g *Governor) Start(ctx context.Context) {
	if g.decayInterval <= 0 {
		logrus.Warn("throttle: decay interval not configured, usage will never decay")
		return
	}

	ticker := time.NewTicker(g.decayInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.Decay()
		case <-ctx.Done():
			logrus.Debug("throttle: stopping usage decay")
			return
		}
	}
}

// Wait bloqueia o chamador até que a chamada possa ser emitida e retorna o
// tempo total aguardado. Dentro do orçamento aplica o atraso de suavização
// (uso × atraso por chamada); acima dele, entra na fila e aguarda
// atraso × profundidade da fila antes de verificar novamente.
func (g *Governor) Wait(ctx context.Context, key string, kind CallKind) (time.Duration, error) {
	delay := g.delayFor(kind)
	var waited time.Duration

	for {
		count := g.RecordUsage(key)

		if count <= g.maxUsage {
			pause := time.Duration(count) * delay
			if err := g.clock.Sleep(ctx, pause); err != nil {
				return waited, err
			}
			return waited + pause, nil
		}

		g.Decay()
		depth := g.enqueue(key)
		pause := time.Duration(depth) * delay

		logrus.WithFields(logrus.Fields{
			"throttle_key": key,
			"usage":        count,
			"queue_depth":  depth,
			"backoff":      pause.String(),
		}).Debug("throttle: usage over budget, backing off")

		err := g.clock.Sleep(ctx, pause)
		g.dequeue(key)
		waited += pause
		if err != nil {
			return waited, err
		}
	}
}

func (g *Governor) delayFor(kind CallKind) time.Duration {
	if kind == Write {
		return g.writeDelay
	}
	return g.readDelay
}

func (g *Governor) enqueue(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.queued[key]++
	return g.queued[key]
}

func (g *Governor) dequeue(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.queued[key]--
	if g.queued[key] <= 0 {
		delete(g.queued, key)
	}
}
