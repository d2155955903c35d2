package pcluster

import "time"

type User struct {
	Username       string            `json:"Username"`
	Email          string            `json:"email"`
	Attributes     map[string]string `json:"Attributes"`
	Groups         []string          `json:"Groups,omitempty"`
	UserStatus     string            `json:"UserStatus"`
	Enabled        bool              `json:"Enabled"`
	UserCreateDate time.Time         `json:"UserCreateDate"`
}
