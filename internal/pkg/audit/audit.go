// Package audit provides the created/updated timestamp pair embedded in
// every persisted entity.
package audit

import "time"

// Fields is composed into entity structs instead of inherited from a base
// entity. GORM stamps the relational stores through the auto tags; document
// stores call Stamp/Touch explicitly on write.
type Fields struct {
	CreatedAt time.Time `json:"createdAt" bson:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt" gorm:"autoUpdateTime"`
}

// Stamp sets both timestamps. Called on first insert.
func (f *Fields) Stamp() {
	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now
}

// Touch updates only the modification timestamp.
func (f *Fields) Touch() {
	f.UpdatedAt = time.Now().UTC()
}
