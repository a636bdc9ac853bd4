package webserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/caritas-dao/caritas/src/api/data"
	"github.com/caritas-dao/caritas/src/ledger"
)

type Campaigns struct {
	svc       *data.Service
	sanitizer *bluemonday.Policy
}

func NewCampaigns(svc *data.Service) Campaigns {
	return Campaigns{svc: svc, sanitizer: descriptionPolicy()}
}

// descriptionPolicy allows the markdown subset the web client renders.
func descriptionPolicy() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AllowElements("p", "br", "strong", "em", "code", "pre", "blockquote")
	p.AllowElements("ul", "ol", "li")
	p.AllowAttrs("href").OnElements("a")
	p.RequireParseableURLs(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoFollowOnLinks(true)
	return p
}

func (h Campaigns) Create(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required,max=255"`
		Description string `json:"description" binding:"max=10000"`
		// The ledger accepts any goal, zero included; that matches the
		// deployed contract, which never validated it.
		FundingGoal uint64 `json:"fundingGoal"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	title := h.sanitizer.Sanitize(req.Title)
	description := h.sanitizer.Sanitize(req.Description)

	id, err := h.svc.CreateCampaign(c.GetString("addr"), title, description, req.FundingGoal)
	if err != nil {
		ledgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h Campaigns) Donate(c *gin.Context) {
	id, err := recordID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid campaign id"})
		return
	}
	var req struct {
		// No positivity check here: the deployed contract accepted any
		// attached value, zero included.
		Amount uint64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	if err := h.svc.Donate(id, c.GetString("addr"), req.Amount); err != nil {
		ledgerError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h Campaigns) Get(c *gin.Context) {
	id, err := recordID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid campaign id"})
		return
	}
	campaign, err := h.svc.Campaign(id)
	if err != nil {
		ledgerError(c, err)
		return
	}
	mine, _ := h.svc.DonationOf(id, c.GetString("addr"))
	c.JSON(http.StatusOK, campaignBody(campaign, gin.H{"myDonation": mine}))
}

func (h Campaigns) List(c *gin.Context) {
	campaigns := h.svc.Campaigns()
	out := make([]gin.H, 0, len(campaigns))
	for _, campaign := range campaigns {
		out = append(out, campaignBody(campaign, nil))
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": out})
}

func campaignBody(campaign ledger.Campaign, extra gin.H) gin.H {
	body := gin.H{
		"id":             campaign.ID,
		"creator":        campaign.Creator,
		"title":          campaign.Title,
		"description":    campaign.Description,
		"fundingGoal":    campaign.FundingGoal,
		"currentFunding": campaign.CurrentFunding,
		"status":         campaign.Status.String(),
	}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

func recordID(c *gin.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
