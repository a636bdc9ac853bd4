package ledger

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Clock supplies the current ledger time. Units are deployment-defined
// (the API service uses whole units since ledger genesis); the core only
// requires the value to be monotonically non-decreasing.
type Clock func() int64

type EventKind string

const (
	EventCampaignCreated       EventKind = "CampaignCreated"
	EventDonationReceived      EventKind = "DonationReceived"
	EventCampaignStatusUpdated EventKind = "CampaignStatusUpdated"
	EventProposalCreated       EventKind = "ProposalCreated"
	EventVoteCasted            EventKind = "VoteCasted"
	EventProposalStatusUpdated EventKind = "ProposalStatusUpdated"
	EventMemberRegistered      EventKind = "MemberRegistered"
	EventContributionRecorded  EventKind = "ContributionRecorded"
	EventVotingPowerUpdated    EventKind = "VotingPowerUpdated"
)

// Event is one entry of the append-only ledger history. Fields are sparse;
// which ones are set depends on Kind. Digest chains each event to its
// predecessor so a persisted history can be verified on replay.
type Event struct {
	Seq    uint64    `json:"seq"`
	Kind   EventKind `json:"kind"`
	Time   int64     `json:"time"`
	Actor  string    `json:"actor,omitempty"`
	Record uint64    `json:"record,omitempty"`

	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	Goal         uint64 `json:"goal,omitempty"`
	Amount       uint64 `json:"amount,omitempty"`
	Funding      uint64 `json:"funding,omitempty"`
	InSupport    bool   `json:"inSupport,omitempty"`
	ForVotes     uint64 `json:"forVotes,omitempty"`
	AgainstVotes uint64 `json:"againstVotes,omitempty"`
	VotingEnd    int64  `json:"votingEnd,omitempty"`
	Power        uint64 `json:"power,omitempty"`
	Role         string `json:"role,omitempty"`
	Name         string `json:"name,omitempty"`
	Category     string `json:"category,omitempty"`
	Status       string `json:"status,omitempty"`
	Digest       string `json:"digest"`
}

// Log is the ordered event history shared by the ledgers. Appends assign
// sequence numbers and chain digests; an optional sink observes each event
// as it commits.
type Log struct {
	events []Event
	tip    string
	sink   func(Event)
}

func NewLog() *Log { return &Log{} }

// SetSink registers an observer called synchronously for every appended
// event. The sink must not re-enter the ledger.
func (l *Log) SetSink(fn func(Event)) { l.sink = fn }

func (l *Log) Events() []Event { return l.events }

// Tip returns the chain digest of the latest event, or "" when empty.
func (l *Log) Tip() string { return l.tip }

func (l *Log) append(e Event) Event {
	e.Seq = uint64(len(l.events)) + 1
	e.Digest = chainDigest(l.tip, e)
	l.events = append(l.events, e)
	l.tip = e.Digest
	if l.sink != nil {
		l.sink(e)
	}
	return e
}

// chainDigest hashes the previous tip together with the event body
// (digest field excluded) into the event's own digest.
func chainDigest(prev string, e Event) string {
	e.Digest = ""
	body, err := json.Marshal(e)
	if err != nil {
		// Event is a plain struct; marshal cannot fail in practice.
		panic(fmt.Sprintf("ledger: marshal event: %v", err))
	}
	h, _ := blake2b.New256(nil)
	h.Write([]byte(prev))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
