package events

import "context"

// Topics published to the redis stream transport.
const (
	TopicLogin       = "moneynerds.identity.logged_in"
	TopicPostCreated = "moneynerds.post.created"
	TopicPostLiked   = "moneynerds.post.liked"
	TopicDonation    = "moneynerds.donation.recorded"
)

// Publisher notifies other components about domain events. Publishing is
// best effort; callers log failures and never fail the request over them.
type Publisher interface {
	PublishLogin(ctx context.Context, wallet, identityID string) error
	PublishPostCreated(ctx context.Context, postID int64, wallet string) error
	PublishPostLiked(ctx context.Context, postID int64, wallet string) error
	PublishDonation(ctx context.Context, postID int64, donor, amount string) error
}

// Nop is a Publisher that drops every event. Used in tests and when the
// event transport is not configured.
type Nop struct{}

func (Nop) PublishLogin(context.Context, string, string) error { return nil }

func (Nop) PublishPostCreated(context.Context, int64, string) error { return nil }

func (Nop) PublishPostLiked(context.Context, int64, string) error { return nil }

func (Nop) PublishDonation(context.Context, int64, string, string) error { return nil }
