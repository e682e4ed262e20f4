package installment

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper ejecuta PersistOverdue periódicamente hasta que se cancele el contexto.
type Sweeper struct {
	uc       *UseCase
	interval time.Duration
	log      zerolog.Logger
}

// NewSweeper construye el barrido. interval <= 0 lo deshabilita.
func NewSweeper(uc *UseCase, interval time.Duration, log zerolog.Logger) *Sweeper {
	return &Sweeper{uc: uc, interval: interval, log: log}
}

// Run bloquea hasta ctx.Done. Hace una pasada al arrancar y luego una por intervalo.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Info().Msg("barrido de cuotas vencidas deshabilitado")
		return
	}
	s.log.Info().Dur("interval", s.interval).Msg("barrido de cuotas vencidas iniciado")
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("barrido de cuotas vencidas detenido")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if _, err := s.uc.PersistOverdue(ctx); err != nil && ctx.Err() == nil {
		s.log.Error().Err(err).Msg("barrido de cuotas vencidas")
	}
}
