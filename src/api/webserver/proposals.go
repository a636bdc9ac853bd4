package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/caritas-dao/caritas/src/api/data"
	"github.com/caritas-dao/caritas/src/ledger"
)

type Proposals struct {
	svc       *data.Service
	sanitizer *bluemonday.Policy
}

func NewProposals(svc *data.Service) Proposals {
	return Proposals{svc: svc, sanitizer: descriptionPolicy()}
}

func (h Proposals) Create(c *gin.Context) {
	var req struct {
		Description string `json:"description" binding:"required,min=1,max=10000"`
		// Voting end in ledger time units (same scale the status checks
		// read; see CLOCK_UNIT_SECONDS). Not validated: a voting end
		// already in the past just means the first vote decides it.
		VotingEnd int64 `json:"votingEnd"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	description := h.sanitizer.Sanitize(req.Description)
	id, err := h.svc.CreateProposal(c.GetString("addr"), description, req.VotingEnd)
	if err != nil {
		ledgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h Proposals) Vote(c *gin.Context) {
	id, err := recordID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid proposal id"})
		return
	}
	var req struct {
		InSupport *bool `json:"inSupport" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	if err := h.svc.CastVote(id, c.GetString("addr"), *req.InSupport); err != nil {
		ledgerError(c, err)
		return
	}
	// Report the tallies after the vote, status check included.
	proposal, err := h.svc.Proposal(id)
	if err != nil {
		ledgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, proposalBody(proposal))
}

func (h Proposals) Get(c *gin.Context) {
	id, err := recordID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid proposal id"})
		return
	}
	proposal, err := h.svc.Proposal(id)
	if err != nil {
		ledgerError(c, err)
		return
	}
	body := proposalBody(proposal)
	voted, _ := h.svc.HasVoted(id, c.GetString("addr"))
	body["hasVoted"] = voted
	c.JSON(http.StatusOK, body)
}

func (h Proposals) List(c *gin.Context) {
	proposals := h.svc.Proposals()
	out := make([]gin.H, 0, len(proposals))
	for _, proposal := range proposals {
		out = append(out, proposalBody(proposal))
	}
	c.JSON(http.StatusOK, gin.H{"proposals": out})
}

func proposalBody(proposal ledger.Proposal) gin.H {
	return gin.H{
		"id":           proposal.ID,
		"proposer":     proposal.Proposer,
		"description":  proposal.Description,
		"forVotes":     proposal.ForVotes,
		"againstVotes": proposal.AgainstVotes,
		"votingEnd":    proposal.VotingEnd,
		"status":       proposal.Status.String(),
	}
}
