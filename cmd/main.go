package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/config"
	"storefront/controllers"
	ordercron "storefront/cron"
	"storefront/database"
	"storefront/middleware"
	"storefront/payment"
	"storefront/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	if cfg.LogJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if err := database.Connect(cfg.MongoURI, cfg.DBName); err != nil {
		logrus.WithError(err).Fatal("database")
	}
	defer database.Disconnect()
	database.InitCollections()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(ctx); err != nil {
		cancel()
		logrus.WithError(err).Fatal("indexes")
	}
	cancel()

	middleware.Init(cfg.JWTSecret)
	controllers.Init(cfg, payment.NewPayPalClient(cfg.PayPalBaseURL, cfg.PayPalClientID, cfg.PayPalSecret, cfg.Currency))

	if !cfg.SweepOff {
		sweeper, err := ordercron.Start(cfg.SweepSpec)
		if err != nil {
			logrus.WithError(err).Fatal("sweeper")
		}
		defer sweeper.Stop()
	}

	r := gin.Default()
	r.SetTrustedProxies(nil)
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	routes.RegisterRoutes(r)

	logrus.WithField("port", cfg.Port).Info("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("server")
	}
}
