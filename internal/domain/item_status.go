package domain

import "time"

type ItemStatus string

const (
	ItemStatusNotTaken ItemStatus = "not_taken"
	ItemStatusTaken    ItemStatus = "taken"
	ItemStatusWait     ItemStatus = "wait"
)

func ItemStatuses() []ItemStatus {
	return []ItemStatus{ItemStatusNotTaken, ItemStatusTaken, ItemStatusWait}
}

func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusNotTaken, ItemStatusTaken, ItemStatusWait:
		return true
	}
	return false
}

type UserItemStatus struct {
	MenuID    uint       `json:"item"`
	MenuName  string     `json:"item_name"`
	Status    ItemStatus `json:"status"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// StatusChange summarizes a single scan action.
type StatusChange struct {
	MenuID   uint       `json:"item"`
	MenuName string     `json:"item_name"`
	Status   ItemStatus `json:"status"`
}
