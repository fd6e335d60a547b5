package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/ahadnetwork/inventory_backend/config"
	"bitbucket.org/ahadnetwork/inventory_backend/feeds"
	"bitbucket.org/ahadnetwork/inventory_backend/middlewares"
	"bitbucket.org/ahadnetwork/inventory_backend/models"
	"bitbucket.org/ahadnetwork/inventory_backend/models/reports"
	"bitbucket.org/ahadnetwork/inventory_backend/utils"
	"bitbucket.org/ahadnetwork/inventory_backend/workflow"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const defaultPort = "8080"

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	registerValidations()

	store := models.NewDBStore(nil)
	adapter := feeds.NewAdapter()

	router := gin.Default()
	router.Use(corsConfig())
	router.Use(requestIDMiddleware())
	router.Use(middlewares.AuthMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/auth/login", loginHandler())

	api := router.Group("/api")
	{
		api.GET("/products", productsHandler(store))
		api.GET("/packages", packagesHandler())
		api.GET("/activity", activityHandler(store))
		api.GET("/export", exportHandler(store))

		authed := api.Group("", middlewares.RequireUser())
		{
			authed.POST("/sync", syncHandler(store, adapter))
			authed.POST("/adjustments", adjustmentsHandler(store, adapter))
		}

		api.POST("/invoice", invoiceHandler(store))
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start listening first; DB and Redis connect with retry afterwards so a
	// slow dependency never blocks startup.
	go func() {
		log.Printf("listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	if err := store.Migrate(); err != nil {
		log.Printf("migration failed: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
	log.Println("stopped")
}

func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("adjustmenttype", func(fl validator.FieldLevel) bool {
			return models.AdjustmentTypes[fl.Field().String()]
		})
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

func corsConfig() gin.HandlerFunc {
	origins := strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",")
	if len(origins) == 1 && origins[0] == "" {
		origins = []string{"*"}
	}
	cfg := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}
	if origins[0] == "*" {
		cfg.AllowAllOrigins = true
		cfg.AllowOrigins = nil
	}
	return cors.New(cfg)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		user, ok := models.AuthenticateUser(req.Email, req.Password)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}

		token, err := utils.JwtGenerate(user.ID, string(user.Role), user.Name)
		if err != nil {
			config.LogError(config.GetLogger(), "server.go", "loginHandler", "generate token", user.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

func productsHandler(store models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		catalog := store.ReadCatalog()
		products := make([]*models.Product, 0, len(catalog))
		for _, id := range models.ProductIDs() {
			if p, ok := catalog[id]; ok {
				products = append(products, p)
			}
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

func packagesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"packages": models.Packages()})
	}
}

func activityHandler(store models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"activity": store.ReadLedger()})
	}
}

func syncHandler(store models.Store, adapter *feeds.Adapter) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := workflow.SyncInventory(c.Request.Context(), store, adapter)
		if err != nil {
			status := http.StatusInternalServerError
			if strings.Contains(err.Error(), "already running") {
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"products": result.Catalog,
			"activity": result.Ledger,
		})
	}
}

type adjustmentForm struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Type      string `json:"type" binding:"required,adjustmenttype"`
	Date      string `json:"date"`
	Reason    string `json:"reason" binding:"required"`
}

func adjustmentsHandler(store models.Store, adapter *feeds.Adapter) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middlewares.CtxValue(c.Request.Context())
		if claims.Role == string(models.UserRoleViewer) {
			c.JSON(http.StatusForbidden, gin.H{"error": "viewers cannot submit adjustments"})
			return
		}

		var form adjustmentForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		date := time.Now().UTC()
		if form.Date != "" {
			date = utils.ParseTimestamp(form.Date)
		}

		user := &models.User{ID: claims.ID, Name: claims.Name, Role: models.UserRole(claims.Role)}
		result, err := workflow.SubmitAdjustment(c.Request.Context(), store, adapter, user, workflow.AdjustmentRequest{
			ProductID: form.ProductID,
			Quantity:  form.Quantity,
			Type:      form.Type,
			Date:      date,
			Reason:    form.Reason,
		})
		if err != nil {
			var verr *workflow.ValidationError
			if errors.As(err, &verr) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Message, "details": verr})
				return
			}
			status := http.StatusBadGateway
			if strings.Contains(err.Error(), "already running") {
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"products": result.Catalog, "activity": result.Ledger})
	}
}

func invoiceHandler(store models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req workflow.InvoiceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user *models.User
		if claims := middlewares.CtxValue(c.Request.Context()); claims != nil {
			user = &models.User{ID: claims.ID, Name: claims.Name, Role: models.UserRole(claims.Role)}
		}

		resp, err := workflow.ProcessInvoice(c.Request.Context(), store, user, req)
		if err != nil {
			switch {
			case errors.Is(err, utils.ErrDuplicateOrder):
				c.JSON(http.StatusConflict, resp)
			case errors.Is(err, utils.ErrProductNotFound):
				c.JSON(http.StatusNotFound, resp)
			case errors.Is(err, utils.ErrInsufficientStock):
				c.JSON(http.StatusUnprocessableEntity, resp)
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

func exportHandler(store models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		catalog := store.ReadCatalog()
		ledger := store.ReadLedger()
		now := time.Now()

		switch c.DefaultQuery("format", "xlsx") {
		case "csv":
			var (
				data     []byte
				err      error
				filename string
			)
			if c.DefaultQuery("dataset", "inventory") == "activity" {
				data, err = reports.BuildActivityCSV(catalog, ledger)
				filename = reports.ExportFilename("ahad-activity-log", "csv", now)
			} else {
				data, err = reports.BuildInventoryCSV(catalog)
				filename = reports.ExportFilename("ahad-inventory", "csv", now)
			}
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.Header("Content-Disposition", "attachment; filename="+filename)
			c.Data(http.StatusOK, "text/csv", data)

		default:
			f, err := reports.BuildInventoryWorkbook(catalog, ledger)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			filename := reports.ExportFilename("ahad-inventory", "xlsx", now)
			c.Header("Content-Disposition", "attachment; filename="+filename)
			c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			if err := f.Write(c.Writer); err != nil {
				config.LogError(config.GetLogger(), "server.go", "exportHandler", "write workbook", nil, err)
			}
		}
	}
}
