package model

import "time"

// ServiceRequest is a document of the requests collection raised from a table.
type ServiceRequest struct {
	ID          string        `gorm:"primaryKey;size:64" json:"id"`
	TableNumber int           `gorm:"not null" json:"tableNumber"`
	Type        RequestType   `gorm:"size:16;not null" json:"type"`
	Message     string        `gorm:"size:512;not null" json:"message"`
	Status      RequestStatus `gorm:"size:16;not null;index:idx_requests_status_time,priority:1" json:"status"`
	RequestTime time.Time     `gorm:"not null;index:idx_requests_status_time,priority:2,sort:desc" json:"requestTime"`
	DismissedAt *time.Time    `json:"dismissedAt,omitempty"`
}

// TableName keeps the collection name used by the table-side clients.
func (ServiceRequest) TableName() string {
	return "requests"
}
