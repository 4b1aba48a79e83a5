// Command mockapi levanta el backend simulado en memoria con datos de
// ejemplo. Pensado para desarrollo local del SDK y de las vistas.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/sermixer/backoffice-sdk/internal/domain/entity"
	"github.com/sermixer/backoffice-sdk/internal/interfaces/apitest"
	"github.com/sermixer/backoffice-sdk/pkg/config"
	"github.com/sermixer/backoffice-sdk/pkg/logger"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:3001", "dirección de escucha")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	srv := apitest.New()
	seed(srv)

	log.Info().Str("addr", *addr).Msg("mockapi escuchando")
	go func() {
		if err := srv.Listen(*addr); err != nil {
			log.Fatal().Err(err).Msg("servidor mockapi")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("apagando mockapi")
	if err := srv.Stop(); err != nil {
		log.Error().Err(err).Msg("apagado con error")
	}
}

// seed datos de ejemplo: un admin, un cliente y un par de productos.
func seed(srv *apitest.Server) {
	srv.SeedUser(entity.User{
		Username:    "admin",
		FirstName:   "Ada",
		LastName:    "Marchetti",
		CompanyName: entity.CompanySermixer,
		Email:       "admin@sermixer.example",
		Role:        entity.RoleAdmin,
	}, "admin1234")

	srv.SeedClient(entity.Client{
		FiscalCode:  "MRCLDA80A01H501Z",
		VatNumber:   "IT01234567890",
		FirstName:   "Luca",
		LastName:    "Bianchi",
		CompanyName: "Edilizia Bianchi srl",
		Email:       "luca@bianchi.example",
		Address: entity.Address{
			Street:  "Via Roma 12",
			City:    "Verona",
			ZipCode: "37100",
			Country: "IT",
		},
	})

	srv.SeedProduct(entity.Product{
		Name:        "Vasca Blu 500",
		Description: "Vasca da 500 litri",
		Price:       decimal.NewFromInt(12500),
		Category:    "Vasche",
		Company:     entity.CompanySermixer,
	})
	srv.SeedProduct(entity.Product{
		Name:        "Cifa Rossa",
		Description: "Betoniera Cifa",
		Price:       decimal.NewFromInt(43000),
		Category:    "Cifa",
		Company:     entity.CompanyS2TruckService,
	})
}
