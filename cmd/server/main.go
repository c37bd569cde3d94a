package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yourusername/library-circulation/pkg/ai"
	"github.com/yourusername/library-circulation/pkg/model"
	"github.com/yourusername/library-circulation/pkg/notify"
	"github.com/yourusername/library-circulation/pkg/store"
	"github.com/yourusername/library-circulation/pkg/telemetry"
)

// recommender is the seam between the HTTP layer and the AI collaborator.
// A nil recommender means the service runs without an API key and every
// AI endpoint answers with the fixed fallback text.
type recommender interface {
	Recommend(ctx context.Context, query string, inventory []model.Book) string
	BookSummary(ctx context.Context, title, author string) string
}

func initLogger() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func storeErrorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateID),
		errors.Is(err, store.ErrBookUnavailable),
		errors.Is(err, store.ErrReaderSuspended),
		errors.Is(err, store.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithStoreError(c *gin.Context, err error) {
	status := storeErrorStatus(err)
	slog.Error("store operation failed", "path", c.Request.URL.Path, "status", status, "error", err)
	c.AbortWithStatusJSON(status, gin.H{
		"status": "error",
		"error":  err.Error(),
		"code":   status,
	})
}

// BorrowRequest identifies the book and reader for a checkout.
type BorrowRequest struct {
	BookID   string `json:"book_id" binding:"required"`
	ReaderID string `json:"reader_id" binding:"required"`
}

// ReturnRequest identifies the loan being closed.
type ReturnRequest struct {
	LoanID string `json:"loan_id" binding:"required"`
}

// StatusRequest carries an administrative book status change.
type StatusRequest struct {
	Status model.BookStatus `json:"status" binding:"required"`
}

// RecommendRequest carries a free-form reader query for the AI librarian.
type RecommendRequest struct {
	Query string `json:"query" binding:"required"`
}

func setupRouter(st *store.Store, rec recommender) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("circulation-service"))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP", "time": time.Now()})
	})

	api := r.Group("/api")

	// --- Catalog ---

	api.GET("/books", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "success", "data": st.Books()})
	})

	api.POST("/books", func(c *gin.Context) {
		var b model.Book
		if err := c.BindJSON(&b); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book JSON: " + err.Error()})
			return
		}
		if b.Status == "" {
			b.Status = model.BookAvailable
		}
		if err := st.AddBook(b); err != nil {
			abortWithStoreError(c, err)
			return
		}
		c.JSON(201, gin.H{"status": "success", "id": b.ID})
	})

	api.PUT("/books/:id/status", func(c *gin.Context) {
		var req StatusRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status JSON: " + err.Error()})
			return
		}
		if !req.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown book status: " + string(req.Status)})
			return
		}
		if err := st.UpdateBookStatus(c.Param("id"), req.Status); err != nil {
			abortWithStoreError(c, err)
			return
		}
		c.JSON(200, gin.H{"status": "success"})
	})

	// --- Roster ---

	api.GET("/readers", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "success", "data": st.Readers()})
	})

	api.POST("/readers", func(c *gin.Context) {
		var rd model.Reader
		if err := c.BindJSON(&rd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reader JSON: " + err.Error()})
			return
		}
		if rd.Status == "" {
			rd.Status = model.ReaderActive
		}
		if err := st.AddReader(rd); err != nil {
			abortWithStoreError(c, err)
			return
		}
		c.JSON(201, gin.H{"status": "success", "id": rd.ID})
	})

	// --- Circulation ---

	api.GET("/loans", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "success", "data": st.Loans()})
	})

	api.GET("/loans/active", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "success", "data": st.ActiveLoanDetails()})
	})

	api.GET("/loans/overdue", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "success", "data": st.OverdueLoans()})
	})

	api.POST("/circulation/borrow", func(c *gin.Context) {
		var req BorrowRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid borrow request: " + err.Error()})
			return
		}
		loan, err := st.BorrowBook(req.BookID, req.ReaderID)
		if err != nil {
			abortWithStoreError(c, err)
			return
		}
		slog.Info("book borrowed", "book_id", req.BookID, "reader_id", req.ReaderID, "loan_id", loan.ID)
		c.JSON(201, gin.H{"status": "success", "data": loan})
	})

	api.POST("/circulation/return", func(c *gin.Context) {
		var req ReturnRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid return request: " + err.Error()})
			return
		}
		loan, err := st.ReturnBook(req.LoanID)
		if err != nil {
			abortWithStoreError(c, err)
			return
		}
		slog.Info("book returned", "loan_id", loan.ID, "book_id", loan.BookID)
		c.JSON(200, gin.H{"status": "success", "data": loan})
	})

	// --- Dashboard ---

	api.GET("/stats", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "success", "data": st.Stats()})
	})

	api.GET("/stats/categories", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "success", "data": st.CategoryHistogram()})
	})

	// --- AI librarian ---

	api.POST("/ai/recommend", func(c *gin.Context) {
		var req RecommendRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recommend request: " + err.Error()})
			return
		}
		text := ai.FallbackRecommendation
		if rec != nil {
			text = rec.Recommend(c.Request.Context(), req.Query, st.Books())
		}
		c.JSON(200, gin.H{"status": "success", "recommendation": text})
	})

	api.GET("/books/:id/summary", func(c *gin.Context) {
		id := c.Param("id")
		var found *model.Book
		for _, b := range st.Books() {
			if b.ID == id {
				found = &b
				break
			}
		}
		if found == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		text := ai.FallbackSummary
		if rec != nil {
			text = rec.BookSummary(c.Request.Context(), found.Title, found.Author)
		}
		c.JSON(200, gin.H{"status": "success", "summary": text})
	})

	return r
}

// runOverdueChecker periodically scans for overdue loans and mails a
// notice per loan. Failures are logged and never affect the store.
func runOverdueChecker(st *store.Store, notifier notify.Notifier, interval time.Duration) {
	slog.Info("starting automation engine: overdue checker", "interval", interval.String())
	ticker := time.NewTicker(interval)
	for range ticker.C {
		details := st.OverdueLoans()
		if len(details) == 0 {
			continue
		}
		slog.Info("automation: found overdue loans, sending notices", "count", len(details))
		for _, d := range details {
			if d.ReaderEmail == "" {
				continue
			}
			due := d.Loan.DueDate.Format("2006-01-02")
			if err := notifier.SendOverdueNotice(d.ReaderEmail, d.ReaderName, d.BookTitle, due); err != nil {
				slog.Error("overdue notice failed", "loan_id", d.Loan.ID, "error", err)
			}
		}
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		// Running without a .env file is normal outside development.
		slog.Debug("no .env file loaded", "error", err)
	}

	initLogger()

	shutdownTracer, err := telemetry.InitTracer(context.Background(), "circulation-service")
	if err != nil {
		slog.Warn("failed to init tracer", "error", err)
	} else {
		defer shutdownTracer(context.Background())
	}

	loanPeriod := store.DefaultLoanPeriodDays
	if v, err := strconv.Atoi(getEnv("LOAN_PERIOD_DAYS", "")); err == nil && v > 0 {
		loanPeriod = v
	}

	st := store.New(store.WithLoanPeriod(loanPeriod))
	slog.Info("circulation store initialized", "loan_period_days", loanPeriod)

	if getEnv("SEED_DEMO_DATA", "true") == "true" {
		if err := store.SeedDemo(st); err != nil {
			slog.Error("failed to seed demo data", "error", err)
			panic(err)
		}
		slog.Info("demo catalog seeded")
	}

	// Audit trail for every committed mutation.
	st.Subscribe(func(snap store.Snapshot) {
		slog.Debug("store updated",
			"books", len(snap.Books),
			"readers", len(snap.Readers),
			"loans", len(snap.Loans),
		)
	})

	var rec recommender
	if r, err := ai.NewRecommender(context.Background()); err != nil {
		slog.Warn("AI librarian unavailable, serving fallback text", "error", err)
	} else {
		rec = r
	}

	var notifier notify.Notifier = notify.NewLogNotifier()
	if os.Getenv("SMTP_HOST") != "" {
		notifier = notify.NewEmailService()
	}
	go runOverdueChecker(st, notifier, time.Hour)

	port := getEnv("PORT", "8080")
	router := setupRouter(st, rec)
	httpSrv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		slog.Info("circulation service starting", "addr", ":"+port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down circulation service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("forced to shutdown", "error", err)
	}

	slog.Info("circulation service exiting")
}
