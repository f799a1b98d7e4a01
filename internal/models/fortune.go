package models

import "time"

// FortuneRequest is the POST /api/fortune payload.
type FortuneRequest struct {
	Name      string `json:"name"`
	BirthDate string `json:"birthDate"`
	Topic     string `json:"topic"`
}

// FortuneResponse is returned by POST /api/fortune on success.
type FortuneResponse struct {
	Fortune string `json:"fortune"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FortuneRecord is one persisted fortune. UserID is the owner identity and
// never changes after insert; CreatedAt is always assigned server-side.
type FortuneRecord struct {
	ID         string
	UserID     string
	Name       string
	BirthDate  string
	Topic      string
	TopicLabel string
	Fortune    string
	CreatedAt  time.Time
}

// SaveFortuneRequest is the POST /api/fortunes payload.
// There is deliberately no createdAt field.
type SaveFortuneRequest struct {
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	BirthDate  string `json:"birthDate"`
	Topic      string `json:"topic"`
	TopicLabel string `json:"topicLabel"`
	Fortune    string `json:"fortune"`
}

// SaveFortuneResponse is returned by POST /api/fortunes.
type SaveFortuneResponse struct {
	ID string `json:"id"`
}

// FortuneRecordResponse is the wire shape of a FortuneRecord.
// CreatedAt is Unix milliseconds.
type FortuneRecordResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	BirthDate  string `json:"birthDate"`
	Topic      string `json:"topic"`
	TopicLabel string `json:"topicLabel"`
	Fortune    string `json:"fortune"`
	CreatedAt  int64  `json:"createdAt"`
}

// FortuneListResponse is returned by GET /api/fortunes.
type FortuneListResponse struct {
	Fortunes []FortuneRecordResponse `json:"fortunes"`
}

// ToResponse converts a record to its wire shape.
func (r FortuneRecord) ToResponse() FortuneRecordResponse {
	return FortuneRecordResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		Name:       r.Name,
		BirthDate:  r.BirthDate,
		Topic:      r.Topic,
		TopicLabel: r.TopicLabel,
		Fortune:    r.Fortune,
		CreatedAt:  r.CreatedAt.UnixMilli(),
	}
}
