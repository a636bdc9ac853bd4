package ledger

import (
	"errors"
	"testing"
)

func TestProposalVotingScenario(t *testing.T) {
	s, fc := newTestState(0)
	pl := s.Proposals

	pl.SetVotingPower("admin", "xavier", 5)
	pl.SetVotingPower("admin", "yvonne", 3)

	id := pl.Create("alice", "Fund the shelter", 10)
	if err := pl.CastVote(id, "xavier", true); err != nil {
		t.Fatalf("xavier votes: %v", err)
	}
	p, _ := pl.Details(id)
	if p.ForVotes != 5 || p.Status != ProposalPending {
		t.Fatalf("after xavier: for=%d status=%s, want 5 Pending", p.ForVotes, p.Status)
	}

	if err := pl.CastVote(id, "yvonne", false); err != nil {
		t.Fatalf("yvonne votes: %v", err)
	}
	p, _ = pl.Details(id)
	if p.AgainstVotes != 3 || p.Status != ProposalPending {
		t.Fatalf("after yvonne: against=%d status=%s, want 3 Pending", p.AgainstVotes, p.Status)
	}

	// Past the voting end, the next mutation's status check decides it.
	fc.now = 10
	pl.SetVotingPower("admin", "zack", 1)
	if err := pl.CastVote(id, "zack", false); err != nil {
		t.Fatalf("zack votes: %v", err)
	}
	p, _ = pl.Details(id)
	if p.Status != ProposalApproved {
		t.Fatalf("status = %s, want Approved (5 > 4)", p.Status)
	}

	// Terminal: no more votes.
	if err := pl.CastVote(id, "walter", true); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("vote on decided: err = %v, want ErrInvalidState", err)
	}
}

func TestProposalDoubleVote(t *testing.T) {
	s, _ := newTestState(0)
	pl := s.Proposals
	pl.SetVotingPower("admin", "yvonne", 3)

	id := pl.Create("alice", "Repave the road", 100)
	if err := pl.CastVote(id, "yvonne", true); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	if err := pl.CastVote(id, "yvonne", false); !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("second vote: err = %v, want ErrAlreadyVoted", err)
	}
	p, _ := pl.Details(id)
	if p.ForVotes != 3 || p.AgainstVotes != 0 {
		t.Fatalf("tallies moved on rejected vote: for=%d against=%d", p.ForVotes, p.AgainstVotes)
	}
}

func TestProposalTieRejects(t *testing.T) {
	s, fc := newTestState(0)
	pl := s.Proposals
	pl.SetVotingPower("admin", "a", 2)
	pl.SetVotingPower("admin", "b", 2)

	id := pl.Create("alice", "Tied", 5)
	_ = pl.CastVote(id, "a", true)
	fc.now = 5
	if err := pl.CastVote(id, "b", false); err != nil {
		t.Fatalf("vote: %v", err)
	}
	p, _ := pl.Details(id)
	if p.Status != ProposalRejected {
		t.Fatalf("tie: status = %s, want Rejected", p.Status)
	}
}

func TestProposalPowerReadAtVoteTime(t *testing.T) {
	s, fc := newTestState(0)
	pl := s.Proposals
	pl.SetVotingPower("admin", "a", 1)
	pl.SetVotingPower("admin", "b", 10)

	id := pl.Create("alice", "Weights", 20)
	_ = pl.CastVote(id, "a", true)
	// Raising a's power after their vote does not retally; b votes at the
	// weight in force when they cast.
	pl.SetVotingPower("admin", "a", 100)
	pl.SetVotingPower("admin", "b", 2)
	_ = pl.CastVote(id, "b", false)

	p, _ := pl.Details(id)
	if p.ForVotes != 1 || p.AgainstVotes != 2 {
		t.Fatalf("for=%d against=%d, want 1 and 2", p.ForVotes, p.AgainstVotes)
	}

	fc.now = 20
	pl.SetVotingPower("admin", "c", 1)
	_ = pl.CastVote(id, "c", true)
	p, _ = pl.Details(id)
	if p.Status != ProposalRejected {
		t.Fatalf("status = %s, want Rejected (2 > 2 is false)", p.Status)
	}
}

func TestProposalZeroPowerVoteStillMarks(t *testing.T) {
	s, _ := newTestState(0)
	pl := s.Proposals
	id := pl.Create("alice", "No weight", 50)

	if err := pl.CastVote(id, "nobody", true); err != nil {
		t.Fatalf("vote: %v", err)
	}
	p, _ := pl.Details(id)
	if p.ForVotes != 0 {
		t.Fatalf("for = %d, want 0", p.ForVotes)
	}
	voted, err := pl.HasVoted(id, "nobody")
	if err != nil || !voted {
		t.Fatalf("HasVoted = %v (%v), want true", voted, err)
	}
	if err := pl.CastVote(id, "nobody", true); !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("revote: err = %v, want ErrAlreadyVoted", err)
	}
}

func TestProposalNotFound(t *testing.T) {
	s, _ := newTestState(0)
	pl := s.Proposals
	if err := pl.CastVote(3, "a", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("vote unknown id: err = %v, want ErrNotFound", err)
	}
	if _, err := pl.Details(0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("details: err = %v, want ErrNotFound", err)
	}
	if _, err := pl.HasVoted(0, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("hasVoted: err = %v, want ErrNotFound", err)
	}
}

func TestProposalNoTransitionBeforeEnd(t *testing.T) {
	s, fc := newTestState(0)
	pl := s.Proposals
	pl.SetVotingPower("admin", "a", 5)

	id := pl.Create("alice", "Early", 100)
	for i, voter := range []string{"a", "b", "c"} {
		fc.now = int64(i * 10)
		if err := pl.CastVote(id, voter, true); err != nil {
			t.Fatalf("vote %s: %v", voter, err)
		}
		p, _ := pl.Details(id)
		if p.Status != ProposalPending {
			t.Fatalf("status = %s before voting end", p.Status)
		}
	}
	// Only the time-gated check emits a status event.
	for _, ev := range s.Log.Events() {
		if ev.Kind == EventProposalStatusUpdated {
			t.Fatalf("status event emitted before voting end: %+v", ev)
		}
	}
}
