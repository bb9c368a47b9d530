package models

import "github.com/google/uuid"

// Responder is an on-duty medical responder consulted for crash routing.
// The geospatial index backing FindNearest is out of core scope; this
// struct is the query result contract handle_crash depends on.
type Responder struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	HospitalName string    `json:"hospitalName" db:"hospital_name"`
	Lat          float64   `json:"lat" db:"lat"`
	Lon          float64   `json:"lon" db:"lon"`
	OnDuty       bool      `json:"onDuty" db:"on_duty"`
}

// EmergencyContact is the subset of a device owner's user record needed for
// a crash alert response. Read from the device owner, not the responder.
type EmergencyContact struct {
	UserID                uuid.UUID `json:"userId" db:"id"`
	Username              string    `json:"username" db:"username"`
	Email                 string    `json:"email" db:"email"`
	BloodType             string    `json:"bloodType" db:"blood_type"`
	Allergies             string    `json:"allergies" db:"allergies"`
	EmergencyContactName  string    `json:"emergencyContactName" db:"emergency_contact_name"`
	EmergencyContactPhone string    `json:"emergencyContactPhone" db:"emergency_contact_phone"`
}
