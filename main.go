// main.go
package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"storefront/config"
	"storefront/controllers"
	"storefront/middleware"
	"storefront/routes"
	"storefront/services"
	"storefront/store"
	"storefront/utils"
)

func main() {
	cfg := config.LoadConfig()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Set the JWT secret key
	if cfg.JWTSecret != "" {
		utils.JwtKey = []byte(cfg.JWTSecret)
	} else {
		logrus.Warn("JWT_SECRET not set, using default key")
	}

	// Pick the document store. Without MONGO_URI the server runs on the
	// in-memory store, losing all data on restart.
	var st store.Store
	if cfg.MongoURI != "" {
		client := utils.ConnectDB(cfg.MongoURI)
		defer func() {
			if err := client.Disconnect(context.TODO()); err != nil {
				logrus.Fatal(err)
			}
		}()
		st = store.NewMongo(client, cfg.MongoDatabase)
	} else {
		logrus.Warn("MONGO_URI not set, using in-memory store")
		st = store.NewMemory()
	}

	// Optional Redis cache for the product catalog
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	}

	// Initialize EmailService (nil when unconfigured)
	emailService := utils.NewEmailService()

	// Initialize services
	authService := services.NewAuthService(st)
	userService := services.NewUserService(st)
	productService := services.NewProductService(st)
	cartService := services.NewCartService(st)
	orderService := services.NewOrderService(st, cartService, emailService)

	// Initialize controllers
	accountController := controllers.NewAccountController(authService, emailService)
	productController := controllers.NewProductController(productService, redisClient)
	cartController := controllers.NewCartController(cartService)
	orderController := controllers.NewOrderController(orderService)
	userController := controllers.NewUserController(userService)

	// Set up the router
	router := mux.NewRouter()
	authMW := middleware.AuthMiddleware(authService)
	routes.RegisterRoutes(router, authMW, accountController, productController, cartController, orderController, userController)

	logrus.Infof("Server is running on port %s", cfg.Port)
	logrus.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
