package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"provision-store/internal/logging"
	"provision-store/internal/services"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		logging.WithCtx(c.Request.Context()).Error("panic recovered", "route", route, "panic", r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}

func ensureDBConnection(ctx context.Context, client *mongo.Client) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return client.Ping(checkCtx, readpref.Primary())
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	logging.WithCtx(c.Request.Context()).Warn("request failed",
		"route", route,
		"status", status,
		"message", message,
	)
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// respondWithServiceError maps service errors onto status codes. Unknown
// errors are returned as 500 with their raw message.
func respondWithServiceError(c *gin.Context, route string, err error) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondWithError(c, http.StatusBadRequest, route, vErr.Message)
	case errors.Is(err, services.ErrNotFound):
		respondWithError(c, http.StatusNotFound, route, notFoundMessage(route))
	case errors.Is(err, services.ErrDuplicate):
		respondWithError(c, http.StatusBadRequest, route, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		respondWithError(c, http.StatusInternalServerError, route, "request timed out")
	default:
		logging.WithCtx(c.Request.Context()).Error("unexpected error", "route", route, "error", err)
		respondWithError(c, http.StatusInternalServerError, route, err.Error())
	}
}

func notFoundMessage(route string) string {
	switch route {
	case routeProducts:
		return "Product not found"
	case routeBills:
		return "Bill not found"
	default:
		return "not found"
	}
}

func parseObjectID(c *gin.Context, route string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondWithError(c, http.StatusBadRequest, route, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}
