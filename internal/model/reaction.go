package model

import (
	"time"

	"github.com/google/uuid"
)

// ReactionKind is stored as a small integer: 1 like, 2 dislike.
type ReactionKind int16

const (
	ReactionLike    ReactionKind = 1
	ReactionDislike ReactionKind = 2
)

func (k ReactionKind) Valid() bool {
	return k == ReactionLike || k == ReactionDislike
}

type Reaction struct {
	ID        uuid.UUID    `json:"id"`
	VideoID   int64        `json:"videoId"`
	UserID    int64        `json:"userId"`
	Kind      ReactionKind `json:"kind"`
	CreatedAt time.Time    `json:"createdAt"`
}

type ReactionRequest struct {
	Kind ReactionKind `json:"kind"`
}
