package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nmcosta/resaletrack/internal/catalog"
	"github.com/nmcosta/resaletrack/internal/httpx"
	"github.com/nmcosta/resaletrack/internal/metrics"
	"github.com/nmcosta/resaletrack/internal/order"
	"github.com/nmcosta/resaletrack/internal/post"
)

// parseMoney reads a decimal string from a form field; empty means absent.
func parseMoney(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func optDate(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func lookupsHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.Lookups(c.Request.Context())
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not load lookups")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func dashboardHandler(cat catalog.Repository, orders order.Repository, posts post.Repository, eng *metrics.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		u, err := cat.GetUser(ctx, c.Param("id"))
		if err != nil {
			httpx.Error(c, http.StatusNotFound, "user not found")
			return
		}
		os, err := orders.ListByUser(ctx, u.ID)
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not load orders")
			return
		}
		ps, err := posts.ListByUser(ctx, u.ID)
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not load posts")
			return
		}
		ledger := eng.Process(time.Now(), os, ps)
		m := eng.Compute(os, ps, ledger)
		c.JSON(http.StatusOK, gin.H{
			"user_id":      u.ID,
			"user_name":    u.Name,
			"orders":       os,
			"posts":        ps,
			"sales":        ledger,
			"user_metrics": m,
		})
	}
}

func orderFromRequest(id, product, brand, size, color, price, tax, orderDate, deliveryDate string) (*order.Order, string) {
	if product == "" || brand == "" || size == "" || color == "" || price == "" || orderDate == "" {
		return nil, "product_id, brand_id, size_id, color_id, price and order_date are required"
	}
	p, err := parseMoney(price)
	if err != nil {
		return nil, "invalid price"
	}
	t, err := parseMoney(tax)
	if err != nil {
		return nil, "invalid deliver_tax"
	}
	return &order.Order{
		ID:           id,
		ProductID:    product,
		BrandID:      brand,
		SizeID:       size,
		ColorID:      color,
		Price:        p,
		DeliverTax:   t,
		OrderDate:    orderDate,
		DeliveryDate: optDate(deliveryDate),
	}, ""
}

func createOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid payload")
			return
		}
		if req.UserID == "" {
			httpx.Error(c, http.StatusBadRequest, "user_id is required")
			return
		}
		o, msg := orderFromRequest(uuid.NewString(), req.ProductID, req.BrandID, req.SizeID, req.ColorID,
			req.Price, req.DeliverTax, req.OrderDate, req.DeliveryDate)
		if msg != "" {
			httpx.Error(c, http.StatusBadRequest, msg)
			return
		}
		o.SaleID = uuid.NewString()
		if err := repo.Create(c.Request.Context(), o, req.UserID); err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not create order")
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

func getOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, http.StatusNotFound, "order not found")
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func updateOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.UpdateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid payload")
			return
		}
		o, msg := orderFromRequest(c.Param("id"), req.ProductID, req.BrandID, req.SizeID, req.ColorID,
			req.Price, req.DeliverTax, req.OrderDate, req.DeliveryDate)
		if msg != "" {
			httpx.Error(c, http.StatusBadRequest, msg)
			return
		}
		if err := repo.Update(c.Request.Context(), o); err != nil {
			if errors.Is(err, order.ErrNotFound) {
				httpx.Error(c, http.StatusNotFound, "order not found")
				return
			}
			httpx.Error(c, http.StatusInternalServerError, "could not update order")
			return
		}
		// Return the stored row: the sales status may differ from the
		// derived one (sold stays sold) and the catalog names only live
		// in the database.
		out, err := repo.GetByID(c.Request.Context(), o.ID)
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not reload order")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func deleteOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
			if errors.Is(err, order.ErrNotFound) {
				httpx.Error(c, http.StatusNotFound, "order not found")
				return
			}
			httpx.Error(c, http.StatusInternalServerError, "could not delete order")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func postFromRequest(id, orderID, firstPrice, sellPrice, adTax, postDate, sellDate string, views, likes, proposals int) (*post.Post, string) {
	if firstPrice == "" || postDate == "" {
		return nil, "first_price and post_date are required"
	}
	fp, err := parseMoney(firstPrice)
	if err != nil {
		return nil, "invalid first_price"
	}
	sp, err := parseMoney(sellPrice)
	if err != nil {
		return nil, "invalid sell_price"
	}
	at, err := parseMoney(adTax)
	if err != nil {
		return nil, "invalid ad_tax"
	}
	if sellDate != "" && !sp.Valid {
		return nil, "sell_price is required when sell_date is set"
	}
	return &post.Post{
		ID:         id,
		OrderID:    orderID,
		FirstPrice: fp,
		SellPrice:  sp,
		AdTax:      at,
		PostDate:   postDate,
		SellDate:   optDate(sellDate),
		Views:      views,
		Likes:      likes,
		Proposals:  proposals,
	}, ""
}

func createPostHandler(repo post.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req post.CreatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid payload")
			return
		}
		if req.OrderID == "" {
			httpx.Error(c, http.StatusBadRequest, "order_id is required")
			return
		}
		p, msg := postFromRequest(uuid.NewString(), req.OrderID, req.FirstPrice, req.SellPrice,
			req.AdTax, req.PostDate, req.SellDate, req.Views, req.Likes, req.Proposals)
		if msg != "" {
			httpx.Error(c, http.StatusBadRequest, msg)
			return
		}
		if err := repo.Create(c.Request.Context(), p); err != nil {
			switch {
			case errors.Is(err, post.ErrSaleNotFound):
				httpx.Error(c, http.StatusNotFound, "order has no sales record")
			case errors.Is(err, post.ErrStillShipping):
				httpx.Error(c, http.StatusConflict, "order is still shipping")
			case errors.Is(err, post.ErrSellPriceRequired):
				httpx.Error(c, http.StatusBadRequest, "sell_price is required when sell_date is set")
			default:
				httpx.Error(c, http.StatusInternalServerError, "could not create post")
			}
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func getPostHandler(repo post.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, http.StatusNotFound, "post not found")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func updatePostHandler(repo post.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req post.UpdatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid payload")
			return
		}
		// order_id is fixed once the post exists and is not updatable.
		p, msg := postFromRequest(c.Param("id"), "", req.FirstPrice, req.SellPrice,
			req.AdTax, req.PostDate, req.SellDate, req.Views, req.Likes, req.Proposals)
		if msg != "" {
			httpx.Error(c, http.StatusBadRequest, msg)
			return
		}
		if err := repo.Update(c.Request.Context(), p); err != nil {
			switch {
			case errors.Is(err, post.ErrNotFound):
				httpx.Error(c, http.StatusNotFound, "post not found")
			case errors.Is(err, post.ErrSellPriceRequired):
				httpx.Error(c, http.StatusBadRequest, "sell_price is required when sell_date is set")
			default:
				httpx.Error(c, http.StatusInternalServerError, "could not update post")
			}
			return
		}
		// Return the stored row so order_id and the denormalized order
		// fields come back populated.
		out, err := repo.GetByID(c.Request.Context(), p.ID)
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not reload post")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func deletePostHandler(repo post.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
			if errors.Is(err, post.ErrNotFound) {
				httpx.Error(c, http.StatusNotFound, "post not found")
				return
			}
			httpx.Error(c, http.StatusInternalServerError, "could not delete post")
			return
		}
		c.Status(http.StatusNoContent)
	}
}
