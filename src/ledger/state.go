package ledger

import "fmt"

// State bundles the two ledgers and the member book over one shared event
// log. It is the unit of replay: the full platform history is a single
// ordered event sequence.
type State struct {
	Log       *Log
	Campaigns *CampaignLedger
	Proposals *ProposalLedger
	Members   *MemberBook
}

func NewState(clock Clock) *State {
	log := NewLog()
	return &State{
		Log:       log,
		Campaigns: NewCampaignLedger(clock, log),
		Proposals: NewProposalLedger(clock, log),
		Members:   NewMemberBook(clock, log),
	}
}

// Replay rebuilds a State from an ordered event history, verifying the
// digest chain as it goes. Events are applied as recorded facts rather than
// re-run through the entry points, so the result is independent of the
// current clock; replaying a state's own history reproduces it exactly,
// tip digest included.
func Replay(clock Clock, events []Event) (*State, error) {
	s := NewState(clock)
	for _, ev := range events {
		if err := s.apply(ev); err != nil {
			return nil, err
		}
		if err := s.Log.replayAppend(ev); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (l *Log) replayAppend(e Event) error {
	if want := uint64(len(l.events)) + 1; e.Seq != want {
		return fmt.Errorf("replay: event out of order: got seq %d, want %d", e.Seq, want)
	}
	if chainDigest(l.tip, e) != e.Digest {
		return fmt.Errorf("replay: digest mismatch at seq %d", e.Seq)
	}
	l.events = append(l.events, e)
	l.tip = e.Digest
	return nil
}

func (s *State) apply(ev Event) error {
	switch ev.Kind {
	case EventCampaignCreated:
		cl := s.Campaigns
		if ev.Record != uint64(len(cl.campaigns)) {
			return fmt.Errorf("replay: campaign id %d out of sequence at seq %d", ev.Record, ev.Seq)
		}
		cl.campaigns = append(cl.campaigns, Campaign{
			ID:          ev.Record,
			Creator:     ev.Actor,
			Title:       ev.Title,
			Description: ev.Description,
			FundingGoal: ev.Goal,
			Status:      CampaignActive,
		})
	case EventDonationReceived:
		cl := s.Campaigns
		if ev.Record >= uint64(len(cl.campaigns)) {
			return fmt.Errorf("replay: donation to unknown campaign %d at seq %d", ev.Record, ev.Seq)
		}
		byDonor := cl.donations[ev.Record]
		if byDonor == nil {
			byDonor = make(map[string]uint64)
			cl.donations[ev.Record] = byDonor
		}
		byDonor[ev.Actor] += ev.Amount
		cl.campaigns[ev.Record].CurrentFunding = ev.Funding
	case EventCampaignStatusUpdated:
		cl := s.Campaigns
		if ev.Record >= uint64(len(cl.campaigns)) {
			return fmt.Errorf("replay: status for unknown campaign %d at seq %d", ev.Record, ev.Seq)
		}
		st, err := parseCampaignStatus(ev.Status)
		if err != nil {
			return fmt.Errorf("replay: seq %d: %w", ev.Seq, err)
		}
		cl.campaigns[ev.Record].Status = st
	case EventProposalCreated:
		pl := s.Proposals
		if ev.Record != uint64(len(pl.proposals)) {
			return fmt.Errorf("replay: proposal id %d out of sequence at seq %d", ev.Record, ev.Seq)
		}
		pl.proposals = append(pl.proposals, Proposal{
			ID:          ev.Record,
			Proposer:    ev.Actor,
			Description: ev.Description,
			VotingEnd:   ev.VotingEnd,
			Status:      ProposalPending,
		})
	case EventVoteCasted:
		pl := s.Proposals
		if ev.Record >= uint64(len(pl.proposals)) {
			return fmt.Errorf("replay: vote on unknown proposal %d at seq %d", ev.Record, ev.Seq)
		}
		voted := pl.hasVoted[ev.Record]
		if voted == nil {
			voted = make(map[string]bool)
			pl.hasVoted[ev.Record] = voted
		}
		voted[ev.Actor] = true
		pl.proposals[ev.Record].ForVotes = ev.ForVotes
		pl.proposals[ev.Record].AgainstVotes = ev.AgainstVotes
	case EventProposalStatusUpdated:
		pl := s.Proposals
		if ev.Record >= uint64(len(pl.proposals)) {
			return fmt.Errorf("replay: status for unknown proposal %d at seq %d", ev.Record, ev.Seq)
		}
		st, err := parseProposalStatus(ev.Status)
		if err != nil {
			return fmt.Errorf("replay: seq %d: %w", ev.Seq, err)
		}
		pl.proposals[ev.Record].Status = st
	case EventVotingPowerUpdated:
		s.Proposals.power[ev.Name] = ev.Power
	case EventMemberRegistered:
		s.Members.members[ev.Actor] = &Member{
			Address:       ev.Actor,
			Name:          ev.Name,
			Role:          Role(ev.Role),
			RegisteredAt:  ev.Time,
			Contributions: make(map[string]uint64),
		}
	case EventContributionRecorded:
		m, ok := s.Members.members[ev.Actor]
		if !ok {
			return fmt.Errorf("replay: contribution by unknown member %s at seq %d", ev.Actor, ev.Seq)
		}
		m.Contributions[ev.Category] += ev.Amount
		m.Total += ev.Amount
	default:
		return fmt.Errorf("replay: unknown event kind %q at seq %d", ev.Kind, ev.Seq)
	}
	return nil
}

func parseCampaignStatus(s string) (CampaignStatus, error) {
	for _, st := range []CampaignStatus{CampaignActive, CampaignCompleted, CampaignExpired} {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown campaign status %q", s)
}

func parseProposalStatus(s string) (ProposalStatus, error) {
	for _, st := range []ProposalStatus{ProposalPending, ProposalApproved, ProposalRejected} {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown proposal status %q", s)
}
