package ledger

// ProposalStatus is the closed proposal state set. A proposal starts
// Pending and transitions at most once, to Approved or Rejected.
type ProposalStatus uint8

const (
	ProposalPending ProposalStatus = iota
	ProposalApproved
	ProposalRejected
)

func (s ProposalStatus) String() string {
	switch s {
	case ProposalPending:
		return "Pending"
	case ProposalApproved:
		return "Approved"
	case ProposalRejected:
		return "Rejected"
	}
	return "Unknown"
}

func (s ProposalStatus) Terminal() bool { return s != ProposalPending }

type Proposal struct {
	ID           uint64         `json:"id"`
	Proposer     string         `json:"proposer"`
	Description  string         `json:"description"`
	ForVotes     uint64         `json:"forVotes"`
	AgainstVotes uint64         `json:"againstVotes"`
	VotingEnd    int64          `json:"votingEnd"`
	Status       ProposalStatus `json:"-"`
}

// ProposalLedger is the append-only registry of governance proposals.
// Votes are weighted by the voter's power at the moment of casting, so a
// power update retroactively affects proposals still collecting votes.
// Not safe for concurrent use: callers serialize access.
type ProposalLedger struct {
	clock     Clock
	log       *Log
	proposals []Proposal
	// hasVoted[proposalID][voter] enforces one vote per identity.
	hasVoted map[uint64]map[string]bool
	power    map[string]uint64
}

func NewProposalLedger(clock Clock, log *Log) *ProposalLedger {
	return &ProposalLedger{
		clock:    clock,
		log:      log,
		hasVoted: make(map[uint64]map[string]bool),
		power:    make(map[string]uint64),
	}
}

// Create appends a new Pending proposal and returns its id.
func (l *ProposalLedger) Create(proposer, description string, votingEnd int64) uint64 {
	id := uint64(len(l.proposals))
	l.proposals = append(l.proposals, Proposal{
		ID:          id,
		Proposer:    proposer,
		Description: description,
		VotingEnd:   votingEnd,
		Status:      ProposalPending,
	})
	l.log.append(Event{
		Kind:        EventProposalCreated,
		Time:        l.clock(),
		Actor:       proposer,
		Record:      id,
		Description: description,
		VotingEnd:   votingEnd,
	})
	return id
}

// CastVote adds the voter's current power to the chosen tally, marks the
// voter as having voted, then re-evaluates the proposal status. A vote cast
// after the voting window but before any status check is still counted; the
// check that follows it decides the proposal.
func (l *ProposalLedger) CastVote(id uint64, voter string, inSupport bool) error {
	if id >= uint64(len(l.proposals)) {
		return ErrNotFound
	}
	if l.hasVoted[id][voter] {
		return ErrAlreadyVoted
	}
	p := &l.proposals[id]
	if p.Status != ProposalPending {
		return ErrInvalidState
	}
	voted := l.hasVoted[id]
	if voted == nil {
		voted = make(map[string]bool)
		l.hasVoted[id] = voted
	}
	voted[voter] = true
	weight := l.power[voter]
	if inSupport {
		p.ForVotes += weight
	} else {
		p.AgainstVotes += weight
	}
	l.log.append(Event{
		Kind:         EventVoteCasted,
		Time:         l.clock(),
		Actor:        voter,
		Record:       id,
		InSupport:    inSupport,
		Power:        weight,
		ForVotes:     p.ForVotes,
		AgainstVotes: p.AgainstVotes,
	})
	l.checkStatus(p)
	return nil
}

// checkStatus transitions only once the clock reaches the proposal's voting
// end. Strict majority approves; ties reject. Terminal statuses are final.
func (l *ProposalLedger) checkStatus(p *Proposal) {
	if p.Status.Terminal() {
		return
	}
	if l.clock() < p.VotingEnd {
		return
	}
	if p.ForVotes > p.AgainstVotes {
		p.Status = ProposalApproved
	} else {
		p.Status = ProposalRejected
	}
	l.log.append(Event{
		Kind:   EventProposalStatusUpdated,
		Time:   l.clock(),
		Record: p.ID,
		Status: p.Status.String(),
	})
}

// SetVotingPower assigns an identity's vote weight. The ledger itself does
// not restrict the caller; the surrounding deployment is expected to gate
// this behind its own access control.
func (l *ProposalLedger) SetVotingPower(actor, identity string, weight uint64) {
	l.power[identity] = weight
	l.log.append(Event{
		Kind:  EventVotingPowerUpdated,
		Time:  l.clock(),
		Actor: actor,
		Name:  identity,
		Power: weight,
	})
}

// VotingPower returns the identity's current vote weight (zero if unset).
func (l *ProposalLedger) VotingPower(identity string) uint64 {
	return l.power[identity]
}

// Details returns a copy of the proposal record.
func (l *ProposalLedger) Details(id uint64) (Proposal, error) {
	if id >= uint64(len(l.proposals)) {
		return Proposal{}, ErrNotFound
	}
	return l.proposals[id], nil
}

// HasVoted reports whether voter already voted on the proposal.
func (l *ProposalLedger) HasVoted(id uint64, voter string) (bool, error) {
	if id >= uint64(len(l.proposals)) {
		return false, ErrNotFound
	}
	return l.hasVoted[id][voter], nil
}

// List returns the full registry in creation order.
func (l *ProposalLedger) List() []Proposal {
	out := make([]Proposal, len(l.proposals))
	copy(out, l.proposals)
	return out
}

func (l *ProposalLedger) Len() int { return len(l.proposals) }
