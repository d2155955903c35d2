package pcluster

import (
	"fmt"
	"net/url"
	"strings"
)

func ConsoleDomain(region string) string {
	switch {
	case strings.HasPrefix(region, "us-gov"):
		return "https://console.amazonaws-us-gov.com"
	case strings.HasPrefix(region, "cn-"):
		return "https://console.amazonaws.cn"
	}
	return fmt.Sprintf("https://%s.console.aws.amazon.com", region)
}

// ShellURL opens a Session Manager shell on the instance.
func ShellURL(region, instanceId string) string {
	return fmt.Sprintf("%s/systems-manager/session-manager/%s?region=%s", ConsoleDomain(region), instanceId, region)
}

// FileSystemURL browses the home directory of user on the instance.
func FileSystemURL(region, instanceId, user string) string {
	path := url.QueryEscape("/home/" + user + "/")
	return fmt.Sprintf("%s/systems-manager/managed-instances/%s/file-system?region=%s&osplatform=Linux#%%7B%%22path%%22%%3A%%22%s%%22%%7D",
		ConsoleDomain(region), instanceId, region, path)
}
