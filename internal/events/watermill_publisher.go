package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
)

// LoginEvent is emitted after a successful wallet login.
type LoginEvent struct {
	Wallet     string `json:"wallet"`
	IdentityID string `json:"identity_id"`
}

// PostEvent is emitted when a post is created or liked.
type PostEvent struct {
	PostID int64  `json:"post_id"`
	Wallet string `json:"wallet"`
}

// DonationEvent is emitted after a donation is credited to a ledger.
type DonationEvent struct {
	PostID int64  `json:"post_id"`
	Donor  string `json:"donor"`
	Amount string `json:"amount"`
}

// WatermillPublisher implements Publisher on top of redis streams.
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a redis-stream backed publisher.
func NewWatermillPublisher(client redis.UniversalClient, debug bool) (*WatermillPublisher, error) {
	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: client,
	}, watermill.NewStdLogger(debug, false))
	if err != nil {
		return nil, fmt.Errorf("failed to create stream publisher: %w", err)
	}
	return &WatermillPublisher{publisher: publisher}, nil
}

func (p *WatermillPublisher) PublishLogin(ctx context.Context, wallet, identityID string) error {
	return p.publish(TopicLogin, LoginEvent{Wallet: wallet, IdentityID: identityID})
}

func (p *WatermillPublisher) PublishPostCreated(ctx context.Context, postID int64, wallet string) error {
	return p.publish(TopicPostCreated, PostEvent{PostID: postID, Wallet: wallet})
}

func (p *WatermillPublisher) PublishPostLiked(ctx context.Context, postID int64, wallet string) error {
	return p.publish(TopicPostLiked, PostEvent{PostID: postID, Wallet: wallet})
}

func (p *WatermillPublisher) PublishDonation(ctx context.Context, postID int64, donor, amount string) error {
	return p.publish(TopicDonation, DonationEvent{PostID: postID, Donor: donor, Amount: amount})
}

func (p *WatermillPublisher) publish(topic string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Close shuts the underlying publisher down.
func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}
