package webserver

import (
	"html"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caritas-dao/caritas/src/api/data"
	"github.com/caritas-dao/caritas/src/ledger"
)

type Members struct{ svc *data.Service }

func NewMembers(svc *data.Service) Members { return Members{svc: svc} }

// Register creates the member record for the authenticated address. Roles
// come from the request, except admin: the first admin is seeded out of
// band and later ones are granted by an existing admin.
func (h Members) Register(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,max=64"`
		Role string `json:"role" binding:"required,oneof=donor charity auditor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	addr := c.GetString("addr")
	if err := h.svc.RegisterMember(addr, html.EscapeString(req.Name), ledger.Role(req.Role)); err != nil {
		ledgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"address": addr})
}

func (h Members) Contribute(c *gin.Context) {
	var req struct {
		Category string `json:"category" binding:"required,max=32"`
		Amount   uint64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	if err := h.svc.RecordContribution(c.GetString("addr"), req.Category, req.Amount); err != nil {
		ledgerError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h Members) Get(c *gin.Context) {
	member, err := h.svc.Member(c.Param("addr"))
	if err != nil {
		ledgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"address":       member.Address,
		"name":          member.Name,
		"role":          member.Role,
		"registeredAt":  member.RegisteredAt,
		"contributions": member.Contributions,
		"total":         member.Total,
		"votingPower":   h.svc.VotingPower(member.Address),
	})
}
