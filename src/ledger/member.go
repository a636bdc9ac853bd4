package ledger

// Role classifies a registered member. Admins may administer voting power
// through the API's gated surface.
type Role string

const (
	RoleDonor   Role = "donor"
	RoleCharity Role = "charity"
	RoleAuditor Role = "auditor"
	RoleAdmin   Role = "admin"
)

type Member struct {
	Address      string `json:"address"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	RegisteredAt int64  `json:"registeredAt"`
	// Contributions accumulates amounts by free-form category.
	Contributions map[string]uint64 `json:"contributions"`
	Total         uint64            `json:"total"`
}

// MemberBook is the member registry keyed by wallet address. Like the
// ledgers it is append-only over identities: records are never removed.
type MemberBook struct {
	clock   Clock
	log     *Log
	members map[string]*Member
}

func NewMemberBook(clock Clock, log *Log) *MemberBook {
	return &MemberBook{clock: clock, log: log, members: make(map[string]*Member)}
}

// Register creates a member record for the address.
func (b *MemberBook) Register(address, name string, role Role) error {
	if _, ok := b.members[address]; ok {
		return ErrAlreadyRegistered
	}
	now := b.clock()
	b.members[address] = &Member{
		Address:       address,
		Name:          name,
		Role:          role,
		RegisteredAt:  now,
		Contributions: make(map[string]uint64),
	}
	b.log.append(Event{
		Kind:  EventMemberRegistered,
		Time:  now,
		Actor: address,
		Name:  name,
		Role:  string(role),
	})
	return nil
}

// RecordContribution accumulates a positive amount under the member's
// category. Unlike campaign donations, zero amounts are rejected here.
func (b *MemberBook) RecordContribution(address, category string, amount uint64) error {
	m, ok := b.members[address]
	if !ok {
		return ErrNotFound
	}
	if amount == 0 {
		return ErrInvalidAmount
	}
	m.Contributions[category] += amount
	m.Total += amount
	b.log.append(Event{
		Kind:     EventContributionRecorded,
		Time:     b.clock(),
		Actor:    address,
		Category: category,
		Amount:   amount,
	})
	return nil
}

// Get returns a copy of the member record.
func (b *MemberBook) Get(address string) (Member, error) {
	m, ok := b.members[address]
	if !ok {
		return Member{}, ErrNotFound
	}
	out := *m
	out.Contributions = make(map[string]uint64, len(m.Contributions))
	for k, v := range m.Contributions {
		out.Contributions[k] = v
	}
	return out, nil
}

// IsAdmin reports whether the address is a registered admin.
func (b *MemberBook) IsAdmin(address string) bool {
	m, ok := b.members[address]
	return ok && m.Role == RoleAdmin
}
