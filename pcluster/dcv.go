package pcluster

import (
	"context"
	"fmt"
	"pcluster/pcui/util"
	"regexp"
	"strconv"
)

const DcvConnectScript = "/opt/parallelcluster/scripts/pcluster_dcv_connect.sh"

var (
	dcvOutputRe = regexp.MustCompile(`PclusterDcvServerPort=(\d+) PclusterDcvSessionId=(\w+) PclusterDcvSessionToken=([\w-]+)`)
	osUserRe    = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)
)

// CommandRunner runs shell commands on a cluster instance and returns their
// standard output.
type CommandRunner interface {
	Run(ctx context.Context, instanceId string, commands []string) (string, error)
}

type DcvSession struct {
	Port         int    `json:"port"`
	SessionId    string `json:"session_id"`
	SessionToken string `json:"session_token"`
}

// URL is the address a browser opens to join the session.
func (s *DcvSession) URL(host string) string {
	return fmt.Sprintf("https://%s:%d?authToken=%s#%s", host, s.Port, s.SessionToken, s.SessionId)
}

func ParseDcvSession(output string) (*DcvSession, error) {
	match := dcvOutputRe.FindStringSubmatch(output)
	if match == nil {
		return nil, fmt.Errorf("no dcv session parameters in output")
	}
	port, err := strconv.Atoi(match[1])
	if err != nil {
		return nil, util.NewError(err, "invalid dcv port")
	}
	return &DcvSession{Port: port, SessionId: match[2], SessionToken: match[3]}, nil
}

type DcvService struct {
	runner CommandRunner
}

func NewDcvService(runner CommandRunner) *DcvService {
	return &DcvService{runner: runner}
}

// Session starts a DCV session for user on the instance.
func (service *DcvService) Session(ctx context.Context, instanceId, user string) (*DcvSession, error) {
	if !osUserRe.MatchString(user) {
		return nil, ValidationError{Field: "user", Kind: "forbidden_chars"}
	}
	command := fmt.Sprintf("runuser -l %s -c '%s /home/%s'", user, DcvConnectScript, user)
	output, err := service.runner.Run(ctx, instanceId, []string{command})
	if err != nil {
		return nil, util.NewError(err, "cannot run dcv connect script")
	}
	session, err := ParseDcvSession(output)
	if err != nil {
		return nil, util.NewError(err, "dcv connection failed")
	}
	return session, nil
}
