package cognito

import (
	"context"
	"pcluster/pcui/pcluster"
	"pcluster/pcui/util"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	cip "github.com/aws/aws-sdk-go/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go/service/cognitoidentityprovider/cognitoidentityprovideriface"
)

const DefaultGroup = "user"

// UserRepository keeps console users in a Cognito user pool.
type UserRepository struct {
	api    cognitoidentityprovideriface.CognitoIdentityProviderAPI
	poolId string
}

func NewUserRepository(api cognitoidentityprovideriface.CognitoIdentityProviderAPI, poolId string) *UserRepository {
	return &UserRepository{api: api, poolId: poolId}
}

func (repo *UserRepository) List(ctx context.Context) ([]*pcluster.User, error) {
	users := []*pcluster.User{}
	input := &cip.ListUsersInput{UserPoolId: aws.String(repo.poolId)}
	for {
		out, err := repo.api.ListUsersWithContext(ctx, input)
		if err != nil {
			return nil, util.NewError(err, "cannot list users")
		}
		for _, user := range out.Users {
			users = append(users, userFromCognito(user.Username, user.Attributes, user.UserStatus, user.Enabled, user.UserCreateDate))
		}
		if aws.StringValue(out.PaginationToken) == "" {
			return users, nil
		}
		input.PaginationToken = out.PaginationToken
	}
}

// Create invites a user by email and adds it to the default group.
func (repo *UserRepository) Create(ctx context.Context, email string) (*pcluster.User, error) {
	out, err := repo.api.AdminCreateUserWithContext(ctx, &cip.AdminCreateUserInput{
		UserPoolId:             aws.String(repo.poolId),
		Username:               aws.String(email),
		DesiredDeliveryMediums: aws.StringSlice([]string{cip.DeliveryMediumTypeEmail}),
		UserAttributes: []*cip.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
			{Name: aws.String("email_verified"), Value: aws.String("true")},
		},
	})
	if err != nil {
		return nil, util.NewError(err, "cannot create user")
	}
	created := out.User
	_, err = repo.api.AdminAddUserToGroupWithContext(ctx, &cip.AdminAddUserToGroupInput{
		UserPoolId: aws.String(repo.poolId),
		Username:   created.Username,
		GroupName:  aws.String(DefaultGroup),
	})
	if err != nil {
		return nil, util.NewError(err, "cannot add user to group %s", DefaultGroup)
	}
	user := userFromCognito(created.Username, created.Attributes, created.UserStatus, created.Enabled, created.UserCreateDate)
	user.Groups = []string{DefaultGroup}
	return user, nil
}

func (repo *UserRepository) Delete(ctx context.Context, username string) error {
	_, err := repo.api.AdminDeleteUserWithContext(ctx, &cip.AdminDeleteUserInput{
		UserPoolId: aws.String(repo.poolId),
		Username:   aws.String(username),
	})
	if aerr, ok := err.(awserr.Error); ok && aerr.Code() == cip.ErrCodeUserNotFoundException {
		return pcluster.ErrUserNotFound
	}
	if err != nil {
		return util.NewError(err, "cannot delete user %s", username)
	}
	return nil
}
