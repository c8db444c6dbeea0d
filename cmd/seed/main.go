// seed crea un usuario de demostración con dos propriedades y algunos lotes,
// usando los mismos casos de uso que la API.
//
// Uso: go run ./cmd/seed [email]
// Por defecto el usuario es demo@gesafe.com.br con senha "demo1234".
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gesafe-api/internal/application/auth"
	"github.com/jhoicas/gesafe-api/internal/application/dto"
	"github.com/jhoicas/gesafe-api/internal/application/inventory"
	"github.com/jhoicas/gesafe-api/internal/application/usecase"
	"github.com/jhoicas/gesafe-api/internal/domain"
	"github.com/jhoicas/gesafe-api/internal/domain/expiry"
	"github.com/jhoicas/gesafe-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gesafe-api/pkg/config"
	"github.com/jhoicas/gesafe-api/pkg/logger"
)

const demoPassword = "demo1234"

type seedLot struct {
	property  int
	name      string
	packaging string
	expiry    string
	quantity  int64
	unitValue string
	withdraw  int64
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	email := "demo@gesafe.com.br"
	if len(os.Args) > 1 {
		email = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar schema")
	}

	users := postgres.NewUserRepository(pool)
	properties := postgres.NewPropertyRepository(pool)
	lots := postgres.NewLotRepository(pool)
	movements := postgres.NewMovementRepository(pool)

	authUC := auth.NewAuthUseCase(users, properties, auth.JWTConfig{Secret: "seed", ExpMinutes: 1})
	user, err := authUC.RegisterUser(ctx, dto.RegisterRequest{
		Name:     "Produtor Demonstração",
		Email:    email,
		Password: demoPassword,
		Properties: []dto.PropertyInput{
			{Name: "Fazenda Boa Vista"},
			{Name: "Sítio Santa Luzia"},
		},
	})
	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		log.Info().Str("email", email).Msg("usuario ya existe, nada que hacer")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("registrar usuario")
	}

	props, err := usecase.NewPropertyUseCase(properties).List(ctx, user.ID)
	if err != nil || len(props) < 2 {
		log.Fatal().Err(err).Int("propriedades", len(props)).Msg("listar propriedades")
	}

	ledger := inventory.NewLedgerUseCase(postgres.NewTxRunner(pool), inventory.NewLocalLocker(), properties, lots, movements)
	now := time.Now()
	seeds := []seedLot{
		{0, "Glifosato 480", "GALAO_5L", expiry.Format(now.AddDate(1, 0, 0)), 12, "189.90", 2},
		{0, "Atrazina 500", "GALAO_10L", expiry.Format(now.AddDate(0, 0, 20)), 4, "320.00", 0},
		{0, "Ureia 46%", "SACARIA", expiry.Format(now.AddDate(0, 0, -5)), 30, "", 10},
		{1, "Óleo Mineral", "LITRO", expiry.Format(now.AddDate(0, 6, 0)), 8, "35.50", 1},
	}
	for _, s := range seeds {
		in := inventory.EntradaInput{
			UserID:      user.ID,
			PropertyID:  props[s.property].ID,
			ProductName: s.name,
			Expiry:      s.expiry,
			Packaging:   s.packaging,
			Quantity:    s.quantity,
		}
		if s.unitValue != "" {
			v := decimal.RequireFromString(s.unitValue)
			in.UnitValue = &v
		}
		rec, err := ledger.RecordEntrada(ctx, in)
		if err != nil {
			log.Fatal().Err(err).Str("produto", s.name).Msg("registrar entrada")
		}
		if s.withdraw > 0 {
			if _, err := ledger.RecordSaida(ctx, inventory.SaidaInput{
				UserID:     user.ID,
				PropertyID: rec.Lot.PropertyID,
				LotID:      rec.Lot.ID,
				Quantity:   s.withdraw,
			}); err != nil {
				log.Fatal().Err(err).Str("produto", s.name).Msg("registrar saida")
			}
		}
	}

	log.Info().
		Str("email", email).
		Str("senha", demoPassword).
		Int("lotes", len(seeds)).
		Msg("datos de demostración creados")
}
