package ledger

// CampaignStatus is the closed campaign state set. A campaign starts
// Active and transitions at most once, to Completed or Expired.
type CampaignStatus uint8

const (
	CampaignActive CampaignStatus = iota
	CampaignCompleted
	CampaignExpired
)

func (s CampaignStatus) String() string {
	switch s {
	case CampaignActive:
		return "Active"
	case CampaignCompleted:
		return "Completed"
	case CampaignExpired:
		return "Expired"
	}
	return "Unknown"
}

func (s CampaignStatus) Terminal() bool { return s != CampaignActive }

// campaignExpiryTime mirrors the platform's deployed contract, which
// compares the environment clock against this fixed constant instead of a
// per-campaign deadline (no deadline is ever stored) and re-evaluates it on
// every donation. Known discrepancy, kept so replayed histories match the
// deployed ledger; the clock unit is therefore a deployment decision.
const campaignExpiryTime int64 = 30

type Campaign struct {
	ID             uint64         `json:"id"`
	Creator        string         `json:"creator"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	FundingGoal    uint64         `json:"fundingGoal"`
	CurrentFunding uint64         `json:"currentFunding"`
	Status         CampaignStatus `json:"-"`
}

// CampaignLedger is the append-only registry of fundraising campaigns.
// Records are never deleted; ids are assigned sequentially and never
// reused. Not safe for concurrent use: callers serialize access.
type CampaignLedger struct {
	clock     Clock
	log       *Log
	campaigns []Campaign
	// donations[campaignID][donor] accumulates each donor's total.
	donations map[uint64]map[string]uint64
}

func NewCampaignLedger(clock Clock, log *Log) *CampaignLedger {
	return &CampaignLedger{
		clock:     clock,
		log:       log,
		donations: make(map[uint64]map[string]uint64),
	}
}

// Create appends a new Active campaign and returns its id. The funding
// goal is accepted as-is: a zero goal completes on the first donation.
func (l *CampaignLedger) Create(creator, title, description string, goal uint64) uint64 {
	id := uint64(len(l.campaigns))
	l.campaigns = append(l.campaigns, Campaign{
		ID:          id,
		Creator:     creator,
		Title:       title,
		Description: description,
		FundingGoal: goal,
		Status:      CampaignActive,
	})
	l.log.append(Event{
		Kind:        EventCampaignCreated,
		Time:        l.clock(),
		Actor:       creator,
		Record:      id,
		Title:       title,
		Description: description,
		Goal:        goal,
	})
	return id
}

// Donate adds amount to donor's cumulative total and the campaign's
// funding, then re-evaluates the campaign status. The whole action commits
// or, on a failed precondition, leaves no trace.
func (l *CampaignLedger) Donate(id uint64, donor string, amount uint64) error {
	if id >= uint64(len(l.campaigns)) {
		return ErrNotFound
	}
	c := &l.campaigns[id]
	if c.Status != CampaignActive {
		return ErrInvalidState
	}
	byDonor := l.donations[id]
	if byDonor == nil {
		byDonor = make(map[string]uint64)
		l.donations[id] = byDonor
	}
	byDonor[donor] += amount
	c.CurrentFunding += amount
	l.log.append(Event{
		Kind:    EventDonationReceived,
		Time:    l.clock(),
		Actor:   donor,
		Record:  id,
		Amount:  amount,
		Funding: c.CurrentFunding,
	})
	l.checkStatus(c)
	return nil
}

// checkStatus runs after every donation. Terminal statuses are final: once
// set, re-invocation is a no-op and emits nothing.
func (l *CampaignLedger) checkStatus(c *Campaign) {
	if c.Status.Terminal() {
		return
	}
	switch {
	case c.CurrentFunding >= c.FundingGoal:
		c.Status = CampaignCompleted
	case l.clock() >= campaignExpiryTime:
		c.Status = CampaignExpired
	default:
		return
	}
	l.log.append(Event{
		Kind:   EventCampaignStatusUpdated,
		Time:   l.clock(),
		Record: c.ID,
		Status: c.Status.String(),
	})
}

// Details returns a copy of the campaign record.
func (l *CampaignLedger) Details(id uint64) (Campaign, error) {
	if id >= uint64(len(l.campaigns)) {
		return Campaign{}, ErrNotFound
	}
	return l.campaigns[id], nil
}

// DonationOf returns donor's cumulative donation to the campaign.
func (l *CampaignLedger) DonationOf(id uint64, donor string) (uint64, error) {
	if id >= uint64(len(l.campaigns)) {
		return 0, ErrNotFound
	}
	return l.donations[id][donor], nil
}

// List returns the full registry in creation order.
func (l *CampaignLedger) List() []Campaign {
	out := make([]Campaign, len(l.campaigns))
	copy(out, l.campaigns)
	return out
}

func (l *CampaignLedger) Len() int { return len(l.campaigns) }
