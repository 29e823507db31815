package notification

import "time"

type Notification struct {
	ID        int       `db:"id" json:"id"`
	MemberID  int       `db:"member_id" json:"member_id"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// job is the wire form pushed onto the Redis queue.
type job struct {
	MemberID int       `json:"member_id"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	Tries    int       `json:"tries"`
	Created  time.Time `json:"created"`
}
