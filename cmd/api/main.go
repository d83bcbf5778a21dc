package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"ideaforge/internal/generation"
	"ideaforge/internal/llm"
	"ideaforge/internal/sessionexport"
	"ideaforge/internal/trialstore"
)

func main() {
	port := flag.String("port", ":8080", "server port")
	dataDir := flag.String("data", "data", "directory for file-backed stores")
	flag.Parse()

	_ = godotenv.Load()

	gateway := llm.NewGateway(llm.Retry(3, 500*time.Millisecond))
	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		if err := gateway.Configure(context.Background(), key); err != nil {
			log.Fatalf("configure model gateway: %v", err)
		}
	} else {
		log.Printf("GEMINI_API_KEY not set; waiting for POST /api/credentials")
	}

	svc, err := generation.New(generation.Config{Tiers: gateway})
	if err != nil {
		log.Fatalf("init generation service: %v", err)
	}

	trials := trialstore.NewFromEnv(*dataDir)
	defer trials.Close()

	exporter := sessionexport.New(exportSinkFromEnv(*dataDir))

	h := corsMiddleware(buildMux(newAPIServer(gateway, svc, trials, exporter)))

	log.Printf("Starting API server on %s", *port)
	log.Fatal(http.ListenAndServe(*port, h2c.NewHandler(h, &http2.Server{})))
}

// exportSinkFromEnv picks S3 when SESSION_EXPORT_S3_ENDPOINT is set,
// otherwise a local directory next to the trial files.
func exportSinkFromEnv(dataDir string) sessionexport.Sink {
	endpoint := strings.TrimSpace(os.Getenv("SESSION_EXPORT_S3_ENDPOINT"))
	if endpoint == "" {
		return sessionexport.NewDirSink(dataDir)
	}
	sink, err := sessionexport.NewS3Sink(sessionexport.S3Config{
		Endpoint:  endpoint,
		Region:    os.Getenv("SESSION_EXPORT_S3_REGION"),
		AccessKey: os.Getenv("SESSION_EXPORT_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("SESSION_EXPORT_S3_SECRET_KEY"),
		Bucket:    os.Getenv("SESSION_EXPORT_S3_BUCKET"),
		UseSSL:    os.Getenv("SESSION_EXPORT_S3_USE_SSL") == "true",
	})
	if err != nil {
		log.Printf("s3 export disabled (%v); falling back to %s", err, dataDir)
		return sessionexport.NewDirSink(dataDir)
	}
	return sink
}

// Simple CORS middleware
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		if r.Method == "OPTIONS" {
			return
		}
		next.ServeHTTP(w, r)
	})
}
