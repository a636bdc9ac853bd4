package webserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caritas-dao/caritas/src/ledger"
)

// ledgerError maps core errors to HTTP responses. Every core failure is
// all-or-nothing, so these are safe to retry from the client side.
func ledgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"err": err.Error()})
	case errors.Is(err, ledger.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
	case errors.Is(err, ledger.ErrInvalidState),
		errors.Is(err, ledger.ErrAlreadyVoted),
		errors.Is(err, ledger.ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, gin.H{"err": err.Error()})
	case errors.Is(err, ledger.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"err": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
	}
}
