package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecodao-network/attester-node/common/logs"
	"github.com/ecodao-network/attester-node/config"
	"github.com/ecodao-network/attester-node/daoclient"
	ev "github.com/ecodao-network/attester-node/evdb/ev-leveldb"
	"github.com/ecodao-network/attester-node/handlers"
	"github.com/ecodao-network/attester-node/ipfs"
	"github.com/ecodao-network/attester-node/ocrclient"
	"github.com/ecodao-network/attester-node/signer"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
}

func main() {
	logs.Log.Info("Starting EcoDAO attester node")

	if err := godotenv.Load(); err != nil {
		logs.Log.Warn("No .env file found, using process environment")
	}

	settings := config.Load()
	logs.SetLevel(settings.LogLevel)

	dbStatus := ev.InitDb(settings.DbPath)
	if !dbStatus {
		logs.Log.Error("Error in initializing db")
		os.Exit(0)
	}

	attestationSigner, signerErr := signer.New(settings.AttesterPrivateKey, settings.ChainID, settings.ContractAddress)
	if signerErr != nil {
		// kept running so the misconfiguration surfaces on /api/evidence as a 500
		logs.Log.Error(fmt.Sprintf("Attestation signing unavailable : %s", signerErr.Error()))
	} else {
		logs.Log.Info(fmt.Sprintf("Attester address: %s", attestationSigner.Attester().Hex()))
	}

	ocrClient := ocrclient.New(settings)
	pinataClient := ipfs.NewPinataClient(settings)

	daoClient, daoErr := daoclient.New(settings.ExecutionClientRPC, settings.ContractAddress, ev.GetDaoDbInstance(), settings.DaoCacheTTL)
	if daoErr != nil {
		logs.Log.Warn(fmt.Sprintf("DAO reads unavailable : %s", daoErr.Error()))
	}

	evidenceHandler := handlers.NewEvidenceHandler(settings, ocrClient, attestationSigner, signerErr, ev.GetOcrDbInstance())
	daoHandler := handlers.NewDAOHandler(daoClient, daoErr)
	storageHandler := handlers.NewStorageHandler(pinataClient)

	http.HandleFunc("/api/evidence", instrumentHandler("evidence", evidenceHandler.ServeHTTP))
	http.HandleFunc("/api/dao", instrumentHandler("dao", daoHandler.ServeHTTP))
	http.HandleFunc("/api/storage", instrumentHandler("storage", storageHandler.ServeHTTP))
	http.HandleFunc("/health", instrumentHandler("health", handlers.HealthHandler))
	http.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr: ":" + settings.Port,
		// write timeout must outlive the 15s OCR call budget
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logs.Log.Info(fmt.Sprintf("HTTP server listening on :%s", settings.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Log.Error(fmt.Sprintf("HTTP server error : %s", err.Error()))
			os.Exit(0)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logs.Log.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logs.Log.Error(fmt.Sprintf("Error during shutdown : %s", err.Error()))
	}
}

// instrumentHandler records request counts and durations per handler.
func instrumentHandler(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(recorder, r)

		httpRequestsTotal.WithLabelValues(name, r.Method, fmt.Sprintf("%d", recorder.status)).Inc()
		httpRequestDuration.WithLabelValues(name, r.Method).Observe(time.Since(start).Seconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
