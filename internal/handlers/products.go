package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"provision-store/internal/services"
)

const routeProducts = "products"

func ListProducts(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, routeProducts)

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		products, err := svc.List(ctx)
		if err != nil {
			respondWithServiceError(c, routeProducts, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func GetProduct(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, routeProducts)

		id, ok := parseObjectID(c, routeProducts)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		product, err := svc.Get(ctx, id)
		if err != nil {
			respondWithServiceError(c, routeProducts, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func CreateProduct(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, routeProducts)

		var input services.ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondWithError(c, http.StatusBadRequest, routeProducts, "invalid body: "+err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		product, err := svc.Create(ctx, input)
		if err != nil {
			respondWithServiceError(c, routeProducts, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func UpdateProduct(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, routeProducts)

		id, ok := parseObjectID(c, routeProducts)
		if !ok {
			return
		}

		var input services.ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondWithError(c, http.StatusBadRequest, routeProducts, "invalid body: "+err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		product, err := svc.Update(ctx, id, input)
		if err != nil {
			respondWithServiceError(c, routeProducts, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func DeleteProduct(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, routeProducts)

		id, ok := parseObjectID(c, routeProducts)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		if err := svc.Delete(ctx, id); err != nil {
			respondWithServiceError(c, routeProducts, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
