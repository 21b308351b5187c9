package main

import (
	"log"
	"os"

	"github.com/asakaida/groupperm/internal/infrastructure/config"
	"github.com/asakaida/groupperm/internal/infrastructure/database"
	"github.com/asakaida/groupperm/internal/repositories/postgres"
	"github.com/asakaida/groupperm/internal/services"
)

func main() {
	rootCmd := newRootCmd(openGroupService)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openGroupService connects to the configured database
func openGroupService(env string) (services.GroupServiceInterface, func(), error) {
	if err := config.InitConfig(env); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	pg, err := database.NewPostgres(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if err := pg.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}
	}
	return services.NewGroupService(postgres.NewPostgresGroupRepository(pg.DB)), closeFn, nil
}
