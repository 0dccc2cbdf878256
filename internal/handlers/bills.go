package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"provision-store/internal/services"
)

const routeBills = "bills"

func ListBills(svc BillService) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, routeBills)

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		bills, err := svc.List(ctx)
		if err != nil {
			respondWithServiceError(c, routeBills, err)
			return
		}
		c.JSON(http.StatusOK, bills)
	}
}

func GetBill(svc BillService) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, routeBills)

		id, ok := parseObjectID(c, routeBills)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		bill, err := svc.Get(ctx, id)
		if err != nil {
			respondWithServiceError(c, routeBills, err)
			return
		}
		c.JSON(http.StatusOK, bill)
	}
}

func CreateBill(svc BillService) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, routeBills)

		var input services.BillInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondWithError(c, http.StatusBadRequest, routeBills, "invalid body: "+err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		bill, err := svc.Create(ctx, input)
		if err != nil {
			respondWithServiceError(c, routeBills, err)
			return
		}
		c.JSON(http.StatusCreated, bill)
	}
}

func UpdateBill(svc BillService) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, routeBills)

		id, ok := parseObjectID(c, routeBills)
		if !ok {
			return
		}

		var input services.BillInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondWithError(c, http.StatusBadRequest, routeBills, "invalid body: "+err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		bill, err := svc.Update(ctx, id, input)
		if err != nil {
			respondWithServiceError(c, routeBills, err)
			return
		}
		c.JSON(http.StatusOK, bill)
	}
}

func DeleteBill(svc BillService) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, routeBills)

		id, ok := parseObjectID(c, routeBills)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		if err := svc.Delete(ctx, id); err != nil {
			respondWithServiceError(c, routeBills, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Bill deleted successfully"})
	}
}
