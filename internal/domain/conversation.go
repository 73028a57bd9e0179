package domain

import "time"

// DefaultSession is the session name used when a client does not name one.
const DefaultSession = "default"

// Turn is a single persisted conversation message. One human turn is always
// followed by at least one assistant turn; the pair is appended atomically.
type Turn struct {
	Speaker   string    `json:"role"`
	Text      string    `json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}

// Conversation is the ordered turn history for one (owner, session) pair.
// It is created lazily on the first message of a session and deleted whole
// when the session is cleared.
type Conversation struct {
	ID        string    `json:"id"`
	Owner     OwnerRef  `json:"userId"`
	Session   string    `json:"sessionId"`
	Turns     []Turn    `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
