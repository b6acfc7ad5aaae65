package domain

import "time"

// ShareRecord is an ephemeral snapshot of a search and its results,
// addressable by a short id. Results are stored as a JSON column when the
// record is persisted through GORM.
type ShareRecord struct {
	ID        string       `json:"id"        gorm:"type:varchar(16);primaryKey"`
	Query     string       `json:"query"     gorm:"type:text;not null"`
	Results   []Suggestion `json:"results"   gorm:"type:text;not null;serializer:json"`
	CreatedAt time.Time    `json:"createdAt" gorm:"not null;index"`
}

// TableName returns the database table name for ShareRecord.
func (ShareRecord) TableName() string { return "shares" }

// Clone returns a deep copy so callers never share the Results backing array
// with a store.
func (r ShareRecord) Clone() ShareRecord {
	out := r
	if r.Results != nil {
		out.Results = make([]Suggestion, len(r.Results))
		copy(out.Results, r.Results)
	}
	return out
}

// ExpiredAt reports whether the record is older than ttl at now.
func (r ShareRecord) ExpiredAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.CreatedAt) > ttl
}
