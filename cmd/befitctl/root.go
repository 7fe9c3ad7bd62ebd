package main

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/2beens/befit/internal/auth"
	"github.com/2beens/befit/internal/config"
	"github.com/2beens/befit/internal/db"
	"github.com/2beens/befit/internal/gymstats/repo"
	"github.com/2beens/befit/internal/identity"
	"github.com/2beens/befit/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagEnv     string
	flagConfig  string
	flagEnvFile string

	cfg     *config.Config
	secrets *config.Secrets
	dbPool  *pgxpool.Pool
	rdb     *redis.Client

	gymRepo         *repo.Repo
	identityManager *identity.Manager
	authService     *auth.Service
)

var rootCmd = &cobra.Command{
	Use:   "befitctl",
	Short: "Admin tool for the BeFit service database",
	Long: `befitctl talks directly to the BeFit postgres database.

  $ befitctl seed                                  # ensure admin account and default exercise types
  $ befitctl create-user john@mail.com --password Haslo123!
  $ befitctl delete-user john@mail.com             # removes the user and all their sessions
  $ befitctl stats john@mail.com                   # 28-day exercise statistics`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}

		if err := godotenv.Load(flagEnvFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file [%s]: %w", flagEnvFile, err)
		}

		var err error
		cfg, err = config.Load(flagEnv, flagConfig)
		if err != nil {
			return err
		}
		secrets, err = config.LoadSecrets(cmd.Context())
		if err != nil {
			return err
		}

		return connect(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if dbPool != nil {
			dbPool.Close()
		}
		if rdb != nil {
			return rdb.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnv, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "./config.toml", "path for the TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "optional .env file with secrets")
}

func connect(ctx context.Context) error {
	var err error
	dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: secrets.PostgresPassword,
	})
	if err != nil {
		return fmt.Errorf("new db pool: %w", err)
	}

	if err := db.ApplySchema(ctx, dbPool); err != nil {
		return fmt.Errorf("apply db schema: %w", err)
	}

	gymRepo = repo.NewRepo(dbPool)
	identityManager = identity.NewManager(identity.NewStore(dbPool), pkg.DefaultPasswordHashCost)
	log.Debugf("connected to db [%s]", cfg.PostgresDBName)

	// redis is only needed to revoke login tokens, the client dials lazily
	rdb = redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: secrets.RedisPassword,
		DB:       0,
	})
	authService = auth.NewAuthService(auth.DefaultTTL, rdb)

	return nil
}
