package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is a directed edge: SubscriberID follows ChannelID.
type Subscription struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SubscriberID uuid.UUID `json:"subscriberId" gorm:"type:uuid;not null;index:idx_sub_edge,unique"`
	ChannelID    uuid.UUID `json:"channelId" gorm:"type:uuid;not null;index:idx_sub_edge,unique;index"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
