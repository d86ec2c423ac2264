package chat

import "time"

// Exchange is one answered question kept in the backend audit log.
type Exchange struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Probe     bool      `json:"probe,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
