package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/axellelanca/urlshortener-frontend/cmd"
	"github.com/axellelanca/urlshortener-frontend/internal/api"
	"github.com/axellelanca/urlshortener-frontend/internal/app"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// shutdownTimeout bounds how long in-flight page requests get to finish
const shutdownTimeout = 10 * time.Second

// RunServerCmd représente la commande 'run-server' de Cobra.
// C'est le point d'entrée pour servir les pages web.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Serves the shorten form and the stats page.",
	Long: `Cette commande construit les clients du backend et le logger structuré,
puis sert le formulaire de raccourcissement (/) et la page de statistiques (/stats).`,
	Run: func(c *cobra.Command, args []string) {
		a, err := app.New(cmd.Cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer a.Close()
		log := a.Log

		router := gin.New()
		router.Use(gin.Recovery(), requestLogger(log))
		api.SetupRoutes(router, a.Shorten, a.Stats, a.API.BaseURL())

		serverAddr := fmt.Sprintf(":%d", a.Config.Server.Port)
		srv := &http.Server{
			Addr:              serverAddr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		}

		// Démarrer le serveur dans une goroutine pour ne pas bloquer.
		errCh := make(chan error, 1)
		go func() {
			log.Info("starting server", zap.String("addr", serverAddr), zap.String("api", a.API.BaseURL()))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		// Attendre Ctrl+C ou un signal d'arrêt.
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
		case err := <-errCh:
			log.Error("server failed", zap.Error(err))
			a.Close()
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
			return
		}
		log.Info("server stopped")
	},
}

// requestLogger logs one line per page request once it has been served
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("uri", c.Request.RequestURI),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
