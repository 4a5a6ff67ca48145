package models

import (
	"encoding/json"
	"strings"
)

// UserRole represents the role carried in an access token
// #DATA_ASSUMPTION: Roles are assigned by the main FormPulse backend; this
// service only reads them from validated tokens
type UserRole string

const (
	UserRoleAdmin  UserRole = "ADMIN"
	UserRoleViewer UserRole = "VIEWER"
)

// MarshalJSON converts UserRole to lowercase for JSON serialization
func (r UserRole) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(r)))
}

// UnmarshalJSON converts lowercase JSON to UserRole
func (r *UserRole) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = UserRole(strings.ToUpper(s))
	return nil
}

// IsValid checks if the UserRole is a valid value
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleViewer:
		return true
	}
	return false
}
