package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"

	"github.com/caritas-dao/caritas/src/api/data"
	"github.com/caritas-dao/caritas/src/ledger"
)

func getenv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("missing env %s", key)
	}
	return v
}

func main() {
	rdb := data.MustRedis(getenv("REDIS_URL"))
	channelID := getenv("DISCORD_CHANNEL_ID")

	session, err := discordgo.New("Bot " + getenv("DISCORD_TOKEN"))
	if err != nil {
		log.Fatalf("discord: %v", err)
	}
	if err := session.Open(); err != nil {
		log.Fatalf("discord open: %v", err)
	}
	defer session.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go consume(ctx, rdb, session, channelID)

	log.Printf("Caritas notifier running, posting to channel %s", channelID)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()
}

func consume(ctx context.Context, rdb *redis.Client, session *discordgo.Session, channelID string) {
	lastID := "$"
	for {
		streams, err := rdb.XRead(ctx, &redis.XReadArgs{
			Streams: []string{data.StreamEvents, lastID},
			Block:   30 * time.Second,
		}).Result()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if err != redis.Nil {
				log.Printf("xread: %v", err)
				time.Sleep(5 * time.Second)
			}
			continue
		}
		for _, stream := range streams {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				raw, _ := msg.Values["event"].(string)
				var ev ledger.Event
				if err := json.Unmarshal([]byte(raw), &ev); err != nil {
					log.Printf("decode event %s: %v", msg.ID, err)
					continue
				}
				if embed := buildEmbed(ev); embed != nil {
					if _, err := session.ChannelMessageSendEmbed(channelID, embed); err != nil {
						log.Printf("post event %d: %v", ev.Seq, err)
					}
				}
			}
		}
	}
}

// buildEmbed renders the externally interesting events; bookkeeping kinds
// (member registration, power updates) stay off the channel.
func buildEmbed(ev ledger.Event) *discordgo.MessageEmbed {
	switch ev.Kind {
	case ledger.EventCampaignCreated:
		return &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("New campaign #%d: %s", ev.Record, ev.Title),
			Description: ev.Description,
			Color:       0x2ecc71,
			Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Goal: %d | by %s", ev.Goal, ev.Actor)},
		}
	case ledger.EventDonationReceived:
		return &discordgo.MessageEmbed{
			Title: fmt.Sprintf("Donation to campaign #%d", ev.Record),
			Color: 0x3498db,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Donor", Value: ev.Actor, Inline: true},
				{Name: "Amount", Value: fmt.Sprintf("%d", ev.Amount), Inline: true},
				{Name: "Total raised", Value: fmt.Sprintf("%d", ev.Funding), Inline: true},
			},
		}
	case ledger.EventCampaignStatusUpdated:
		return &discordgo.MessageEmbed{
			Title: fmt.Sprintf("Campaign #%d is now %s", ev.Record, ev.Status),
			Color: statusColor(ev.Status),
		}
	case ledger.EventProposalCreated:
		return &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("New proposal #%d", ev.Record),
			Description: ev.Description,
			Color:       0x9b59b6,
			Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Voting ends at %d | by %s", ev.VotingEnd, ev.Actor)},
		}
	case ledger.EventProposalStatusUpdated:
		return &discordgo.MessageEmbed{
			Title: fmt.Sprintf("Proposal #%d: %s", ev.Record, ev.Status),
			Color: statusColor(ev.Status),
		}
	}
	return nil
}

func statusColor(status string) int {
	switch status {
	case "Completed", "Approved":
		return 0x2ecc71
	case "Expired", "Rejected":
		return 0xe74c3c
	}
	return 0x95a5a6
}
