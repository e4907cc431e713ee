// Comando de migraciones: aplica las migraciones SQL pendientes de ./migrations.
//
//	go run ./cmd/migration          # aplicar todas
//	go run ./cmd/migration -down 1  # revertir la última
package main

import (
	"errors"
	"flag"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/tu-usuario/taller-pro/pkg/config"
	"github.com/tu-usuario/taller-pro/pkg/logger"
)

func main() {
	down := flag.Int("down", 0, "número de migraciones a revertir (0 = aplicar todas las pendientes)")
	path := flag.String("path", "migrations", "directorio con los archivos de migración")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	m, err := migrate.New("file://"+*path, cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrador")
	}
	defer m.Close()

	if *down > 0 {
		err = m.Steps(-*down)
	} else {
		err = m.Up()
	}
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("sin migraciones pendientes")
			return
		}
		log.Fatal().Err(err).Msg("ejecutar migraciones")
	}
	log.Info().Msg("migraciones aplicadas")
}
