package ledger

import (
	"errors"
	"testing"
)

func TestMemberRegisterAndContribute(t *testing.T) {
	s, fc := newTestState(3)
	mb := s.Members

	if err := mb.Register("addr1", "Alice", RoleDonor); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := mb.Register("addr1", "Alice again", RoleCharity); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("duplicate register: err = %v, want ErrAlreadyRegistered", err)
	}

	fc.now = 4
	if err := mb.RecordContribution("addr1", "food", 10); err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if err := mb.RecordContribution("addr1", "food", 5); err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if err := mb.RecordContribution("addr1", "medicine", 2); err != nil {
		t.Fatalf("contribute: %v", err)
	}

	m, err := mb.Get("addr1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if m.RegisteredAt != 3 || m.Contributions["food"] != 15 || m.Contributions["medicine"] != 2 || m.Total != 17 {
		t.Fatalf("member = %+v", m)
	}
}

func TestMemberContributionErrors(t *testing.T) {
	s, _ := newTestState(0)
	mb := s.Members
	_ = mb.Register("addr1", "Alice", RoleDonor)

	if err := mb.RecordContribution("ghost", "food", 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown member: err = %v, want ErrNotFound", err)
	}
	if err := mb.RecordContribution("addr1", "food", 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero amount: err = %v, want ErrInvalidAmount", err)
	}
	m, _ := mb.Get("addr1")
	if m.Total != 0 {
		t.Fatalf("failed contributions mutated state: total = %d", m.Total)
	}
}

func TestMemberIsAdmin(t *testing.T) {
	s, _ := newTestState(0)
	mb := s.Members
	_ = mb.Register("boss", "Boss", RoleAdmin)
	_ = mb.Register("peon", "Peon", RoleDonor)

	if !mb.IsAdmin("boss") {
		t.Fatal("boss should be admin")
	}
	if mb.IsAdmin("peon") || mb.IsAdmin("ghost") {
		t.Fatal("non-admins reported as admin")
	}
}

func TestMemberGetReturnsCopy(t *testing.T) {
	s, _ := newTestState(0)
	mb := s.Members
	_ = mb.Register("addr1", "Alice", RoleDonor)
	_ = mb.RecordContribution("addr1", "food", 10)

	m, _ := mb.Get("addr1")
	m.Contributions["food"] = 999
	again, _ := mb.Get("addr1")
	if again.Contributions["food"] != 10 {
		t.Fatalf("Get leaked internal map: %d", again.Contributions["food"])
	}
}
