package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/safeharbor-labs/vidguard/pkg/admission"
	"github.com/safeharbor-labs/vidguard/pkg/analysis"
	"github.com/safeharbor-labs/vidguard/pkg/config"
	"github.com/safeharbor-labs/vidguard/pkg/evidence"
	"github.com/safeharbor-labs/vidguard/pkg/providers"
	"github.com/safeharbor-labs/vidguard/pkg/signature"
	"github.com/safeharbor-labs/vidguard/pkg/telemetry"
)

const Version = "0.1.0"

// Service wires the signature repository, evidence providers, and the
// admission controller into one runnable unit.
type Service struct {
	cfg        *config.Config
	signatures *signature.Repository
	controller *admission.Controller
	metrics    *telemetry.Metrics
}

// NewService builds the full pipeline from configuration. Providers
// degrade individually: without an API key the metadata and comment
// providers are disabled and analysis runs on transcripts and hints.
func NewService(cfg *config.Config, metrics *telemetry.Metrics) (*Service, error) {
	repo, loadErrs, err := signature.Load(cfg.SignatureDir)
	if err != nil {
		return nil, fmt.Errorf("load signatures: %w", err)
	}
	for _, le := range loadErrs {
		log.Printf("[SIGNATURES] skipped %s: %v", le.ID, le)
	}
	if metrics != nil {
		metrics.SetSignaturesLoaded(repo.Len())
		metrics.AddSignatureLoadErrors(len(loadErrs))
	}
	log.Printf("[STARTUP] %d signatures loaded across %d categories", repo.Len(), len(repo.Categories()))

	gatherer := &evidence.Gatherer{
		Timeout:      cfg.ProviderTimeout,
		CommentLimit: cfg.CommentLimit,
	}
	api := providers.NewAPI(cfg.APIBaseURL, cfg.APIKey, cfg.MaxFetches)
	if metrics != nil {
		api.Metrics = metrics
	}
	gatherer.Transcripts = providers.NewTranscriptProvider(cfg.TranscriptBaseURL, api)
	if cfg.APIKey != "" {
		gatherer.Metadata = providers.NewMetadataProvider(api)
		gatherer.Comments = providers.NewCommentProvider(api)
		log.Println("[STARTUP] metadata and comment providers enabled")
	} else {
		log.Println("[STARTUP] no API key; metadata and comment providers disabled")
	}

	var store admission.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		store = admission.NewRedisStore(client, "", cfg.CacheTTL)
		log.Printf("[STARTUP] shared result store on redis at %s", cfg.RedisAddr)
	} else {
		store = admission.NewMemoryStore(cfg.CacheSize)
	}

	ctrl := admission.NewController(analysis.New(repo), gatherer, store, admission.Config{
		CacheTTL:   cfg.CacheTTL,
		Cooldown:   cfg.Cooldown,
		DailyQuota: cfg.DailyQuota,
	})
	if metrics != nil {
		ctrl.Metrics = metrics
	}

	return &Service{cfg: cfg, signatures: repo, controller: ctrl, metrics: metrics}, nil
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		addr := ""
		if len(os.Args) > 2 {
			addr = os.Args[2]
		}
		runServer(addr)
	case "analyze":
		if len(os.Args) < 3 {
			fmt.Println("Usage: vidguard analyze <key>")
			os.Exit(1)
		}
		runCLIAnalyze(os.Args[2])
	case "signatures":
		listSignatures()
	case "version":
		fmt.Printf("vidguard v%s\n", Version)
		fmt.Println("Content safety classification engine")
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("vidguard v%s - content safety classification engine\n\n", Version)
	fmt.Println("Usage:")
	fmt.Println("  vidguard serve [addr]      Start HTTP server (default: :8080)")
	fmt.Println("  vidguard analyze <key>     Analyze one item and print the result")
	fmt.Println("  vidguard signatures        List loaded signatures")
	fmt.Println("  vidguard version           Show version")
	fmt.Println("")
	fmt.Println("Environment Variables:")
	fmt.Println("  VIDGUARD_API_KEY           Data API key for metadata and comments")
	fmt.Println("  VIDGUARD_SIGNATURE_DIR     Directory of YAML signature files")
	fmt.Println("  VIDGUARD_REDIS_ADDR        Redis address for a shared result cache")
	fmt.Println("  VIDGUARD_DAILY_QUOTA       Computed analyses per day (default: 1000)")
}

// ============================================================================
// HTTP Server Mode
// ============================================================================

type analyzeRequest struct {
	Key         string `json:"key"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Channel     string `json:"channel,omitempty"`
	Force       bool   `json:"force,omitempty"`
}

func runServer(addr string) {
	cfg := config.NewDefaultConfig()
	if addr != "" {
		cfg.ListenAddr = addr
	}
	cfg.MustValidate()

	metrics := telemetry.New(prometheus.DefaultRegisterer)
	svc, err := NewService(cfg, metrics)
	if err != nil {
		log.Fatalf("[STARTUP] FATAL: %v", err)
	}

	// SIGHUP swaps in a freshly loaded signature set without a restart.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			loadErrs, err := svc.signatures.Reload(cfg.SignatureDir)
			if err != nil {
				log.Printf("[SIGNATURES] reload failed, keeping current set: %v", err)
				continue
			}
			metrics.SetSignaturesLoaded(svc.signatures.Len())
			metrics.AddSignatureLoadErrors(len(loadErrs))
			log.Printf("[SIGNATURES] reloaded: %d signatures, %d rejected", svc.signatures.Len(), len(loadErrs))
		}
	}()

	app := fiber.New(fiber.Config{
		AppName: "vidguard",
	})

	app.Get("/health", func(c fiber.Ctx) error {
		stats := svc.controller.Stats(c.Context())
		return c.JSON(fiber.Map{
			"status":     "ok",
			"version":    Version,
			"signatures": svc.signatures.Len(),
			"admission":  stats,
		})
	})

	app.Post("/analyze", func(c fiber.Ctx) error {
		var req analyzeRequest
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
		}
		if req.Key == "" {
			return c.Status(400).JSON(fiber.Map{"error": "key field is required"})
		}

		hints := evidence.Hints{Title: req.Title, Description: req.Description, Channel: req.Channel}
		evaluate := svc.controller.Evaluate
		if req.Force {
			evaluate = svc.controller.Refresh
		}
		res, err := evaluate(c.Context(), req.Key, hints)
		if err != nil {
			return analyzeError(c, err)
		}
		return c.JSON(res)
	})

	app.Get("/signatures", func(c fiber.Ctx) error {
		sigs := svc.signatures.All()
		out := make([]fiber.Map, 0, len(sigs))
		for _, s := range sigs {
			out = append(out, fiber.Map{
				"id":       s.ID,
				"category": s.Category,
				"severity": s.Severity,
				"message":  s.Message,
			})
		}
		return c.JSON(fiber.Map{"count": len(out), "signatures": out})
	})

	app.Get("/categories", func(c fiber.Ctx) error {
		cats := svc.signatures.Categories()
		out := make([]fiber.Map, 0, len(cats))
		for _, cat := range cats {
			out = append(out, fiber.Map{
				"id":         cat.ID,
				"name":       svc.signatures.CategoryName(cat.ID),
				"signatures": len(svc.signatures.ByCategory(cat.ID)),
			})
		}
		return c.JSON(fiber.Map{"categories": out})
	})

	app.Post("/reload", func(c fiber.Ctx) error {
		loadErrs, err := svc.signatures.Reload(cfg.SignatureDir)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		metrics.SetSignaturesLoaded(svc.signatures.Len())
		metrics.AddSignatureLoadErrors(len(loadErrs))
		rejected := make([]string, 0, len(loadErrs))
		for _, le := range loadErrs {
			rejected = append(rejected, le.Error())
		}
		return c.JSON(fiber.Map{"loaded": svc.signatures.Len(), "rejected": rejected})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	log.Printf("[STARTUP] vidguard v%s listening on %s", Version, cfg.ListenAddr)
	log.Printf("Endpoints:")
	log.Printf("  GET  /health      - Health and admission stats")
	log.Printf("  POST /analyze     - Analyze one item")
	log.Printf("  GET  /signatures  - Loaded signatures")
	log.Printf("  GET  /categories  - Signature categories")
	log.Printf("  POST /reload      - Reload signature files")
	log.Printf("  GET  /metrics     - Prometheus metrics")

	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}

// analyzeError maps pipeline errors onto HTTP statuses.
func analyzeError(c fiber.Ctx, err error) error {
	var rl *admission.RateLimitedError
	if errors.As(err, &rl) {
		c.Set("Retry-After", fmt.Sprintf("%d", int(rl.RetryAfter.Seconds())+1))
		return c.Status(429).JSON(fiber.Map{
			"error":       "rate limited",
			"retry_after": rl.RetryAfter.Seconds(),
		})
	}
	var qe *admission.QuotaExceededError
	if errors.As(err, &qe) {
		return c.Status(429).JSON(fiber.Map{
			"error":     "daily quota exceeded",
			"limit":     qe.Limit,
			"resets_at": qe.ResetsAt,
		})
	}
	if errors.Is(err, evidence.ErrNoEvidence) {
		return c.Status(404).JSON(fiber.Map{"error": "no evidence available for this item"})
	}
	log.Printf("[ERROR] analyze failed: %v", err)
	return c.Status(500).JSON(fiber.Map{"error": "analysis failed"})
}

// ============================================================================
// CLI Mode
// ============================================================================

func runCLIAnalyze(key string) {
	cfg := config.NewDefaultConfig()
	svc, err := NewService(cfg, nil)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := svc.controller.Evaluate(ctx, key, evidence.Hints{})
	if err != nil {
		log.Fatalf("analyze %s: %v", key, err)
	}

	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Println(string(out))
}

func listSignatures() {
	cfg := config.NewDefaultConfig()
	repo, loadErrs, err := signature.Load(cfg.SignatureDir)
	if err != nil {
		log.Fatalf("load signatures: %v", err)
	}
	for _, le := range loadErrs {
		fmt.Printf("  rejected: %v\n", le)
	}

	for _, cat := range repo.Categories() {
		fmt.Printf("%s (%s)\n", repo.CategoryName(cat.ID), cat.ID)
		for _, s := range repo.ByCategory(cat.ID) {
			fmt.Printf("  [%-8s] %-16s %s\n", s.Severity, s.ID, s.Message)
		}
		fmt.Println()
	}
	fmt.Printf("%d signatures total\n", repo.Len())
}
