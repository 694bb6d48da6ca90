package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nmcosta/resaletrack/internal/catalog"
	"github.com/nmcosta/resaletrack/internal/config"
	"github.com/nmcosta/resaletrack/internal/httpx"
	"github.com/nmcosta/resaletrack/internal/metrics"
	"github.com/nmcosta/resaletrack/internal/order"
	"github.com/nmcosta/resaletrack/internal/post"
)

func main() {
	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[resaletrack] db connect: %v", err)
	}
	defer pool.Close()

	catRepo := catalog.NewPGRepo(pool)
	orderRepo := order.NewPGRepo(pool)
	postRepo := post.NewPGRepo(pool)
	eng := metrics.New(metrics.Config{
		DefaultSaleCycleDays: cfg.DefaultSaleCycleDays,
		RunoffFallbackDays:   cfg.RunoffFallbackDays,
	})

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	r.GET("/lookups", lookupsHandler(catRepo))
	r.GET("/users/:id/dashboard", dashboardHandler(catRepo, orderRepo, postRepo, eng))

	r.POST("/orders", createOrderHandler(orderRepo))
	r.GET("/orders/:id", getOrderHandler(orderRepo))
	r.PUT("/orders/:id", updateOrderHandler(orderRepo))
	r.DELETE("/orders/:id", deleteOrderHandler(orderRepo))

	r.POST("/posts", createPostHandler(postRepo))
	r.GET("/posts/:id", getPostHandler(postRepo))
	r.PUT("/posts/:id", updatePostHandler(postRepo))
	r.DELETE("/posts/:id", deletePostHandler(postRepo))

	log.Printf("resaletrack listening on %s", cfg.HTTPAddr)
	log.Fatal(r.Run(cfg.HTTPAddr))
}
