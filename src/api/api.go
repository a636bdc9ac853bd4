package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/caritas-dao/caritas/src/api/config"
	"github.com/caritas-dao/caritas/src/api/data"
	"github.com/caritas-dao/caritas/src/api/types"
	"github.com/caritas-dao/caritas/src/api/webserver"
	"github.com/caritas-dao/caritas/src/ledger"
)

var allModels = []interface{}{
	&types.Setting{}, &types.LedgerEvent{}, &types.Member{},
}

func migrate(db *gorm.DB) {
	if err := db.AutoMigrate(allModels...); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}

// seedAdmin registers the bootstrap admin if configured and not yet known.
func seedAdmin(svc *data.Service) {
	addr := os.Getenv("ADMIN_ADDRESS")
	if addr == "" {
		return
	}
	err := svc.RegisterMember(addr, "bootstrap admin", ledger.RoleAdmin)
	if err != nil && !errors.Is(err, ledger.ErrAlreadyRegistered) {
		log.Fatalf("seed admin: %v", err)
	}
}

func main() {
	cfg := config.Load()

	db := data.MustMySQL(cfg.MySQLDSN)
	migrate(db)
	if err := data.LoadSettings(db); err != nil {
		log.Printf("Failed to load settings: %v", err)
	}

	rdb := data.MustRedis(cfg.RedisURL)

	svc, err := data.NewService(db, rdb, cfg.ClockUnit)
	if err != nil {
		log.Fatalf("ledger service: %v", err)
	}
	seedAdmin(svc)

	router := webserver.New(cfg, svc, rdb)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		var err error
		if cfg.SSLCert != "" && cfg.SSLKey != "" {
			log.Printf("Starting HTTPS server on port %s", cfg.Port)
			err = httpSrv.ListenAndServeTLS(cfg.SSLCert, cfg.SSLKey)
		} else {
			log.Printf("Starting HTTP server on port %s", cfg.Port)
			err = httpSrv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	log.Printf("Caritas API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
