package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/picket"
	redisAdapter "github.com/aretw0/picket/internal/adapters/redis"
	"github.com/aretw0/picket/internal/logging"
	httpAdapter "github.com/aretw0/picket/pkg/adapters/http"
	"github.com/aretw0/picket/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the widget synchronization server, exposing the encode/update protocol as a JSON API with an SSE event stream.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := loadConfig(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("port") {
			port, _ := cmd.Flags().GetString("port")
			cfg.Addr = ":" + port
		}

		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			fmt.Printf("Error in config: %v\n", err)
			os.Exit(1)
		}
		logger := logging.New(level)

		metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

		appOpts := []picket.Option{
			picket.WithLogger(logger),
			picket.WithLifecycleHooks(metrics.Hooks()),
		}
		if cfg.Redis.Addr != "" {
			client := backend.NewClient(&backend.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			storeOpts := []redisAdapter.Option{}
			if cfg.Redis.SessionTTL > 0 {
				storeOpts = append(storeOpts, redisAdapter.WithTTL(cfg.Redis.SessionTTL))
			}
			lockPrefix := cfg.Redis.LockPrefix
			if lockPrefix == "" {
				lockPrefix = "picket:"
			}
			appOpts = append(appOpts,
				picket.WithStore(redisAdapter.NewFromClient(client, storeOpts...)),
				picket.WithLocker(redisAdapter.NewLocker(client, lockPrefix)),
			)
			logger.Info("Using Redis session store", "addr", cfg.Redis.Addr)
		}

		app := picket.New("picket", appOpts...)
		handler := httpAdapter.NewHandler(app.Encoder(), httpAdapter.WithLogger(logger))

		srv := &http.Server{
			Addr:    cfg.Addr,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Picket Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Picket Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on (overrides config)")
}
