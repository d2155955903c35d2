package wizard

import (
	"fmt"
	"sort"
	"strings"
)

type ConfigError struct {
	ID      string `json:"id,omitempty"`
	Level   string `json:"level"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

type UpdateError struct {
	Parameter      string      `json:"parameter,omitempty"`
	CurrentValue   interface{} `json:"currentValue,omitempty"`
	RequestedValue interface{} `json:"requestedValue,omitempty"`
	Message        string      `json:"message"`
	Level          string      `json:"level,omitempty"`
}

// CreateErrors is the error body returned by create, update and build
// calls of the cluster API.
type CreateErrors struct {
	Message                       string        `json:"message"`
	ConfigurationValidationErrors []ConfigError `json:"configurationValidationErrors,omitempty"`
	ValidationMessages            []ConfigError `json:"validationMessages,omitempty"`
	UpdateValidationErrors        []UpdateError `json:"updateValidationErrors,omitempty"`
}

type Notification struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Header      string `json:"header"`
	Content     string `json:"content"`
	Dismissible bool   `json:"dismissible"`
}

var notificationPriority = map[string]int{
	"error":   0,
	"success": 1,
	"warning": 2,
	"info":    3,
}

func priority(kind string) int {
	if p, ok := notificationPriority[kind]; ok {
		return p
	}
	return len(notificationPriority)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ErrorsToNotifications turns an API error body into notification items,
// errors first.
func ErrorsToNotifications(errs *CreateErrors) []Notification {
	items := []Notification{}
	if errs == nil {
		return items
	}

	success := strings.Contains(errs.Message, "succeeded")
	configErrors := errs.ConfigurationValidationErrors
	if configErrors == nil {
		configErrors = errs.ValidationMessages
	}

	if success {
		items = append(items, Notification{
			ID:          "success",
			Type:        "success",
			Header:      "Success",
			Content:     errs.Message,
			Dismissible: true,
		})
	}
	for i, e := range configErrors {
		level := strings.ToLower(e.Level)
		items = append(items, Notification{
			ID:          fmt.Sprintf("config-err-%d", i),
			Type:        level,
			Header:      capitalize(level),
			Content:     fmt.Sprintf("%s: %s", e.Type, e.Message),
			Dismissible: true,
		})
	}
	for i, e := range errs.UpdateValidationErrors {
		items = append(items, Notification{
			ID:          fmt.Sprintf("update-err-%d", i),
			Type:        "error",
			Header:      "Error",
			Content:     e.Message,
			Dismissible: true,
		})
	}
	if len(items) == 0 && !success {
		items = append(items, Notification{
			ID:          "config-err-0",
			Type:        "error",
			Header:      "Error",
			Content:     errs.Message,
			Dismissible: true,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return priority(items[i].Type) < priority(items[j].Type)
	})
	return items
}
