package data

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/caritas-dao/caritas/src/api/types"
	"github.com/caritas-dao/caritas/src/ledger"
)

const genesisSetting = "ledger_genesis"

// Service owns the in-memory ledger state behind a single mutex — the
// global serializer the core relies on. Every mutating call runs the core
// operation, persists the newly committed events to MySQL and publishes
// them to the redis event stream. At boot the full history is replayed
// from the ledger_events table.
type Service struct {
	mu        sync.Mutex
	db        *gorm.DB
	rdb       *redis.Client
	state     *ledger.State
	persisted int
}

// Clock derives ledger time from wall time: whole units of unitSeconds
// elapsed since the genesis timestamp (unix seconds).
func Clock(genesis int64, unitSeconds int) ledger.Clock {
	return func() int64 {
		return (time.Now().Unix() - genesis) / int64(unitSeconds)
	}
}

func NewService(db *gorm.DB, rdb *redis.Client, unitSeconds int) (*Service, error) {
	genesis, err := loadGenesis(db)
	if err != nil {
		return nil, err
	}
	clock := Clock(genesis, unitSeconds)

	var rows []types.LedgerEvent
	if err := db.Order("seq asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	events := make([]ledger.Event, 0, len(rows))
	for _, row := range rows {
		var ev ledger.Event
		if err := json.Unmarshal([]byte(row.Payload), &ev); err != nil {
			return nil, fmt.Errorf("decode event %d: %w", row.Seq, err)
		}
		events = append(events, ev)
	}
	state, err := ledger.Replay(clock, events)
	if err != nil {
		return nil, err
	}
	log.Printf("ledger: replayed %d events (%d campaigns, %d proposals)",
		len(events), state.Campaigns.Len(), state.Proposals.Len())

	return &Service{db: db, rdb: rdb, state: state, persisted: len(events)}, nil
}

// loadGenesis reads the ledger genesis timestamp, creating it on first boot.
func loadGenesis(db *gorm.DB) (int64, error) {
	if v := GetSetting(genesisSetting); v != "" {
		return strconv.ParseInt(v, 10, 64)
	}
	genesis := time.Now().Unix()
	if err := SetSetting(db, genesisSetting, strconv.FormatInt(genesis, 10)); err != nil {
		return 0, fmt.Errorf("store genesis: %w", err)
	}
	return genesis, nil
}

// flush writes events committed since the last flush in one transaction,
// then publishes them. A failed flush leaves the events pending; the next
// mutation retries them, so the stream stays gap-free.
func (s *Service) flush() error {
	evs := s.state.Log.Events()
	pending := evs[s.persisted:]
	if len(pending) == 0 {
		return nil
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, ev := range pending {
			payload, err := json.Marshal(ev)
			if err != nil {
				return err
			}
			row := types.LedgerEvent{
				Seq:      ev.Seq,
				Kind:     string(ev.Kind),
				Actor:    ev.Actor,
				RecordID: ev.Record,
				Payload:  string(payload),
				Digest:   ev.Digest,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("persist events: %w", err)
	}
	s.persisted = len(evs)

	ctx := context.Background()
	for _, ev := range pending {
		payload, _ := json.Marshal(ev)
		err := PublishEvent(ctx, s.rdb, map[string]interface{}{
			"seq":    ev.Seq,
			"kind":   string(ev.Kind),
			"actor":  ev.Actor,
			"record": ev.Record,
			"event":  string(payload),
		})
		if err != nil {
			log.Printf("publish event %d: %v", ev.Seq, err)
		}
	}
	return nil
}

func (s *Service) CreateCampaign(creator, title, description string, goal uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.state.Campaigns.Create(creator, title, description, goal)
	return id, s.flush()
}

func (s *Service) Donate(id uint64, donor string, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.state.Campaigns.Donate(id, donor, amount); err != nil {
		return err
	}
	return s.flush()
}

func (s *Service) Campaign(id uint64) (ledger.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Campaigns.Details(id)
}

func (s *Service) Campaigns() []ledger.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Campaigns.List()
}

func (s *Service) DonationOf(id uint64, donor string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Campaigns.DonationOf(id, donor)
}

func (s *Service) CreateProposal(proposer, description string, votingEnd int64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.state.Proposals.Create(proposer, description, votingEnd)
	return id, s.flush()
}

func (s *Service) CastVote(id uint64, voter string, inSupport bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.state.Proposals.CastVote(id, voter, inSupport); err != nil {
		return err
	}
	return s.flush()
}

func (s *Service) Proposal(id uint64) (ledger.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Proposals.Details(id)
}

func (s *Service) Proposals() []ledger.Proposal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Proposals.List()
}

func (s *Service) HasVoted(id uint64, voter string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Proposals.HasVoted(id, voter)
}

// UpdateVotingPower is unrestricted at this layer, matching the core; the
// webserver admin routes gate who can reach it.
func (s *Service) UpdateVotingPower(actor, identity string, power uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Proposals.SetVotingPower(actor, identity, power)
	return s.flush()
}

func (s *Service) VotingPower(identity string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Proposals.VotingPower(identity)
}

func (s *Service) RegisterMember(address, name string, role ledger.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.state.Members.Register(address, name, role); err != nil {
		return err
	}
	if err := s.flush(); err != nil {
		return err
	}
	// Read model, best effort: the event log is the source of truth.
	m, _ := s.state.Members.Get(address)
	row := types.Member{Address: address, Name: name, Role: string(role), RegisteredAt: m.RegisteredAt}
	if err := s.db.Create(&row).Error; err != nil {
		log.Printf("member read model %s: %v", address, err)
	}
	return nil
}

func (s *Service) RecordContribution(address, category string, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.state.Members.RecordContribution(address, category, amount); err != nil {
		return err
	}
	return s.flush()
}

func (s *Service) Member(address string) (ledger.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Members.Get(address)
}

func (s *Service) IsAdmin(address string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Members.IsAdmin(address)
}
