package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsToNotificationsOrdering(t *testing.T) {
	items := ErrorsToNotifications(&CreateErrors{
		Message: "Request would have succeeded, but DryRun flag is set.",
		ConfigurationValidationErrors: []ConfigError{
			{Level: "WARNING", Type: "KeyPairValidator", Message: "no key pair"},
			{Level: "INFO", Type: "UrlValidator", Message: "checked"},
			{Level: "ERROR", Type: "InstanceTypeValidator", Message: "unknown type"},
		},
	})

	ids := []string{}
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"config-err-2", "success", "config-err-0", "config-err-1"}, ids)

	assert.Equal(t, Notification{
		ID:          "config-err-0",
		Type:        "warning",
		Header:      "Warning",
		Content:     "KeyPairValidator: no key pair",
		Dismissible: true,
	}, items[2])
	assert.Equal(t, "success", items[1].Type)
	assert.Equal(t, "Request would have succeeded, but DryRun flag is set.", items[1].Content)
}

func TestErrorsToNotificationsValidationMessages(t *testing.T) {
	items := ErrorsToNotifications(&CreateErrors{
		Message:            "Invalid cluster configuration.",
		ValidationMessages: []ConfigError{{Level: "ERROR", Type: "SchemaValidator", Message: "missing key"}},
	})
	assert.Len(t, items, 1)
	assert.Equal(t, "config-err-0", items[0].ID)
	assert.Equal(t, "Error", items[0].Header)
	assert.Equal(t, "SchemaValidator: missing key", items[0].Content)
}

func TestErrorsToNotificationsUpdateErrors(t *testing.T) {
	items := ErrorsToNotifications(&CreateErrors{
		Message: "Update failure",
		UpdateValidationErrors: []UpdateError{
			{Parameter: "HeadNode.InstanceType", Message: "cannot be updated"},
		},
	})
	assert.Equal(t, []Notification{{
		ID:          "update-err-0",
		Type:        "error",
		Header:      "Error",
		Content:     "cannot be updated",
		Dismissible: true,
	}}, items)
}

func TestErrorsToNotificationsFallback(t *testing.T) {
	items := ErrorsToNotifications(&CreateErrors{Message: "Bad Request"})
	assert.Equal(t, []Notification{{
		ID:          "config-err-0",
		Type:        "error",
		Header:      "Error",
		Content:     "Bad Request",
		Dismissible: true,
	}}, items)

	assert.Empty(t, ErrorsToNotifications(nil))
}

func TestErrorsToNotificationsSuccessOnly(t *testing.T) {
	items := ErrorsToNotifications(&CreateErrors{Message: "Request would have succeeded, but DryRun flag is set."})
	assert.Len(t, items, 1)
	assert.Equal(t, "success", items[0].ID)
}
