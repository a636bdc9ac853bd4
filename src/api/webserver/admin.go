package webserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caritas-dao/caritas/src/api/data"
	"github.com/caritas-dao/caritas/src/ledger"
)

type Admin struct{ svc *data.Service }

func NewAdmin(svc *data.Service) Admin { return Admin{svc: svc} }

// SetVotingPower assigns an identity's vote weight. The ledger core leaves
// this operation open (matching the deployed contract); this deployment
// restricts it to admins via AdminMiddleware. Weight changes apply to
// votes cast from now on, including on proposals already collecting votes.
func (a Admin) SetVotingPower(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required,min=32,max=128"`
		Power   uint64 `json:"power"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	actor := c.GetString("addr")
	log.Printf("Admin %s setting voting power of %s to %d", actor, req.Address, req.Power)

	if err := a.svc.UpdateVotingPower(actor, req.Address, req.Power); err != nil {
		ledgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func AdminMiddleware(svc *data.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !svc.IsAdmin(c.GetString("addr")) {
			ledgerError(c, ledger.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}
