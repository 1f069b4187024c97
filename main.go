package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/roamfit/roamfit/agent/agents/capability"
	"github.com/roamfit/roamfit/agent/agents/orchestrator"
	llmx "github.com/roamfit/roamfit/agent/llm"
	storex "github.com/roamfit/roamfit/agent/store"
	configx "github.com/roamfit/roamfit/pkg/config"
	_ "github.com/roamfit/roamfit/pkg/logger/autoload"
	"github.com/roamfit/roamfit/pkg/nominatim"
)

type AppConfig struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("")

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(appCfg.DatabaseURL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	ctx := context.Background()

	store := storex.NewPostgresStore(db)
	if err := store.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store schema")
	}

	llmCfg := configx.MustNew[llmx.Config]("OPENAI")
	gateway, err := llmx.NewGateway(*llmCfg, store)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize llm gateway")
	}

	geoCfg := configx.MustNew[nominatim.Config]("NOMINATIM")
	geo, err := nominatim.New(*geoCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize nominatim client")
	}

	registry := capability.NewRegistry(gateway, store, geo)

	svc, err := orchestrator.New(registry, orchestrator.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize orchestrator")
	}

	query := strings.TrimSpace(strings.Join(os.Args[1:], " "))
	if query == "" {
		fmt.Println("roamfit agent ready; pass a query as arguments to run one turn")
		return
	}

	resp, err := svc.HandleQuery(ctx, orchestrator.Request{Query: query})
	if err != nil {
		log.Fatal().Err(err).Str("query", query).Msg("query failed")
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode response")
	}
	fmt.Println(string(out))
}
