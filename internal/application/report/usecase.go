package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/gesafe-api/internal/domain"
	"github.com/jhoicas/gesafe-api/internal/domain/entity"
	"github.com/jhoicas/gesafe-api/internal/domain/expiry"
	"github.com/jhoicas/gesafe-api/internal/domain/packaging"
	"github.com/jhoicas/gesafe-api/internal/domain/report"
	"github.com/jhoicas/gesafe-api/internal/domain/repository"
)

// FilterAll valor de los selectores que significa "sin filtro".
const FilterAll = "TODOS"

// ReportUseCase arma los tres reportes (estoque, movimentações, vencimentos) y los exporta.
type ReportUseCase struct {
	propertyRepo repository.PropertyRepository
	lotRepo      repository.LotRepository
	movementRepo repository.MovementRepository
	renderers    map[string]Renderer
	now          func() time.Time
}

// NewReportUseCase construye el caso de uso. renderers se indexa por formato ("pdf", "xlsx").
func NewReportUseCase(
	propertyRepo repository.PropertyRepository,
	lotRepo repository.LotRepository,
	movementRepo repository.MovementRepository,
	renderers map[string]Renderer,
) *ReportUseCase {
	return &ReportUseCase{
		propertyRepo: propertyRepo,
		lotRepo:      lotRepo,
		movementRepo: movementRepo,
		renderers:    renderers,
		now:          time.Now,
	}
}

// Query filtros tal como llegan del cliente.
type Query struct {
	UserID     string
	PropertyID string
	Packaging  string
	Kind       string // tipo de movimentação
	Status     string // VENCIDO | A_VENCER
}

// ParseFilters valida los selectores. Vacío o "TODOS" no filtra.
func ParseFilters(q Query) (report.Filters, error) {
	var f report.Filters
	verr := &domain.ValidationError{}

	if v := selector(q.PropertyID); v != "" {
		f.PropertyID = v
	}
	if v := selector(q.Packaging); v != "" {
		pk, ok := packaging.Parse(v)
		if !ok {
			verr.Add("embalagem", "Selecione uma embalagem válida")
		}
		f.Packaging = pk
	}
	if v := selector(q.Kind); v != "" {
		k, ok := entity.ParseMovementKind(strings.ToUpper(v))
		if !ok {
			verr.Add("tipo", "Tipo de movimentação inválido")
		}
		f.MovementKind = k
	}
	if v := selector(q.Status); v != "" {
		st, ok := expiry.ParseStatus(strings.ToUpper(v))
		if !ok {
			verr.Add("status", "Status de vencimento inválido")
		}
		f.ExpiryStatus = st
	}
	return f, verr.OrNil()
}

func selector(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, FilterAll) {
		return ""
	}
	return s
}

// Build carga los datos del usuario y agrega el reporte pedido.
// La verificación de la propriedade y la carga corren en paralelo.
func (uc *ReportUseCase) Build(ctx context.Context, kind report.Kind, q Query) (*report.Report, error) {
	f, err := ParseFilters(q)
	if err != nil {
		return nil, err
	}

	var (
		lots      []*entity.Lot
		movements []*entity.Movement
	)
	g, gctx := errgroup.WithContext(ctx)

	if f.PropertyID != "" {
		g.Go(func() error {
			p, err := uc.propertyRepo.GetByID(gctx, f.PropertyID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrNotFound
			}
			if p.UserID != q.UserID {
				return domain.ErrForbidden
			}
			return nil
		})
	}

	switch kind {
	case report.KindMovements:
		g.Go(func() error {
			var err error
			movements, err = uc.movementRepo.List(gctx, repository.MovementFilter{
				UserID:     q.UserID,
				PropertyID: f.PropertyID,
				Kind:       f.MovementKind,
				Packaging:  f.Packaging,
			})
			return err
		})
	case report.KindStock, report.KindExpirations:
		g.Go(func() error {
			var err error
			lots, err = uc.lotRepo.List(gctx, repository.LotFilter{
				UserID:      q.UserID,
				PropertyID:  f.PropertyID,
				Packaging:   f.Packaging,
				ActiveOnly:  true,
				InStockOnly: kind == report.KindExpirations,
			})
			return err
		})
	default:
		return nil, fmt.Errorf("%w: reporte %q", domain.ErrInvalidInput, kind)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Filtros que no aplican a la vista se ignoran.
	if kind != report.KindMovements {
		f.MovementKind = ""
	}
	if kind != report.KindExpirations {
		f.ExpiryStatus = ""
	}

	now := uc.now()
	return &report.Report{
		Kind:        kind,
		GeneratedAt: now,
		Groups:      report.Aggregate(lots, movements, f, now),
	}, nil
}

// Export arma el reporte y lo renderiza en el formato pedido.
func (uc *ReportUseCase) Export(ctx context.Context, kind report.Kind, q Query, format string) (*File, error) {
	renderer, ok := uc.renderers[strings.ToLower(format)]
	if !ok {
		return nil, domain.NewValidationError("formato", "Formato de relatório inválido")
	}
	r, err := uc.Build(ctx, kind, q)
	if err != nil {
		return nil, err
	}
	data, err := renderer.Render(r)
	if err != nil {
		return nil, fmt.Errorf("report: renderizar %s: %w", format, err)
	}
	return &File{
		Name:        fmt.Sprintf("relatorio_%s_%s.%s", kind, r.GeneratedAt.Format("20060102_150405"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}
