package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/gesafe-api/internal/domain/expiry"
	"github.com/jhoicas/gesafe-api/internal/domain/repository"
)

// DefaultAlertWindowDays ventana de aviso cuando la configuración no la define.
const DefaultAlertWindowDays = 30

// ExpiryAlertUseCase arma los avisos de vencimiento de un usuario.
// Selecciona lotes activos con disponible > 0 y validade anterior a hoy + ventana,
// y los clasifica como vencidos o a vencer respecto de hoy.
type ExpiryAlertUseCase struct {
	lotRepo    repository.LotRepository
	windowDays int
	now        func() time.Time
}

// NewExpiryAlertUseCase construye el caso de uso. windowDays <= 0 usa el valor por defecto.
func NewExpiryAlertUseCase(lotRepo repository.LotRepository, windowDays int) *ExpiryAlertUseCase {
	if windowDays <= 0 {
		windowDays = DefaultAlertWindowDays
	}
	return &ExpiryAlertUseCase{lotRepo: lotRepo, windowDays: windowDays, now: time.Now}
}

// WithClock fija el reloj usado para calcular "hoy".
func (uc *ExpiryAlertUseCase) WithClock(now func() time.Time) *ExpiryAlertUseCase {
	uc.now = now
	return uc
}

// Alerts grupos clasificados y su resumen. Summary.Total = len(Groups).
type Alerts struct {
	AsOf    time.Time
	Groups  []expiry.Classification
	Summary expiry.Summary
}

// Alerts calcula los avisos del usuario a la fecha actual.
func (uc *ExpiryAlertUseCase) Alerts(ctx context.Context, userID string) (*Alerts, error) {
	today := expiry.DateOf(uc.now())
	limit := today.AddDate(0, 0, uc.windowDays)

	lots, err := uc.lotRepo.List(ctx, repository.LotFilter{
		UserID:        userID,
		ActiveOnly:    true,
		InStockOnly:   true,
		ExpiresBefore: &limit,
	})
	if err != nil {
		return nil, err
	}
	groups := expiry.Classify(lots, today)
	if groups == nil {
		groups = []expiry.Classification{}
	}
	return &Alerts{AsOf: today, Groups: groups, Summary: expiry.Summarize(groups)}, nil
}

// Window días de la ventana configurada.
func (uc *ExpiryAlertUseCase) Window() int { return uc.windowDays }
