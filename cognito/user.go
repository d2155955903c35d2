package cognito

import (
	"pcluster/pcui/pcluster"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	cip "github.com/aws/aws-sdk-go/service/cognitoidentityprovider"
)

func userFromCognito(username *string, attributes []*cip.AttributeType, status *string, enabled *bool, created *time.Time) *pcluster.User {
	user := &pcluster.User{
		Username:       aws.StringValue(username),
		Attributes:     map[string]string{},
		UserStatus:     aws.StringValue(status),
		Enabled:        aws.BoolValue(enabled),
		UserCreateDate: aws.TimeValue(created),
	}
	for _, attr := range attributes {
		user.Attributes[aws.StringValue(attr.Name)] = aws.StringValue(attr.Value)
	}
	user.Email = user.Attributes["email"]
	return user
}

// GroupsFromClaims reads the cognito:groups claim of an ID token.
func GroupsFromClaims(claims map[string]interface{}) []string {
	groups := []string{}
	switch value := claims["cognito:groups"].(type) {
	case []interface{}:
		for _, g := range value {
			if s, ok := g.(string); ok {
				groups = append(groups, s)
			}
		}
	case []string:
		groups = append(groups, value...)
	case string:
		groups = append(groups, value)
	}
	return groups
}
