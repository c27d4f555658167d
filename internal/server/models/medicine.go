package models

import "time"

// Medicine occupies one dispenser compartment.
type Medicine struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Compartment int      `json:"compartment"`
	Number      int      `json:"number"`
	Time        []string `json:"time"`
	UserID      string   `json:"userID"`
}

// Schedule is the device view of a Medicine: where it is and when to dispense.
type Schedule struct {
	Compartment int      `json:"compartment"`
	Time        []string `json:"time"`
}

// Reminder records one dispensed dose.
type Reminder struct {
	ID          string    `json:"id"`
	Compartment int       `json:"compartment"`
	CreatedAt   time.Time `json:"createdAt"`
}
