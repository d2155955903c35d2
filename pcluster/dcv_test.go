package pcluster

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dcvOutput = "some noise\nPclusterDcvServerPort=8443 PclusterDcvSessionId=abc123 PclusterDcvSessionToken=tok-en_1\n"

func TestParseDcvSession(t *testing.T) {
	session, err := ParseDcvSession(dcvOutput)
	require.NoError(t, err)
	assert.Equal(t, &DcvSession{Port: 8443, SessionId: "abc123", SessionToken: "tok-en_1"}, session)
	assert.Equal(t, "https://1.2.3.4:8443?authToken=tok-en_1#abc123", session.URL("1.2.3.4"))

	_, err = ParseDcvSession("nothing here")
	assert.Error(t, err)
}

func TestDcvServiceSession(t *testing.T) {
	runner := &stubRunner{output: dcvOutput}
	service := NewDcvService(runner)

	session, err := service.Session(context.Background(), "i-head", "ec2-user")
	require.NoError(t, err)
	assert.Equal(t, 8443, session.Port)
	assert.Equal(t, "i-head", runner.instance)
	assert.Equal(t, []string{
		"runuser -l ec2-user -c '/opt/parallelcluster/scripts/pcluster_dcv_connect.sh /home/ec2-user'",
	}, runner.commands)
}

func TestDcvServiceRejectsUnsafeUser(t *testing.T) {
	runner := &stubRunner{output: dcvOutput}
	_, err := NewDcvService(runner).Session(context.Background(), "i-head", "root; rm -rf /")
	assert.Error(t, err)
	assert.Empty(t, runner.commands)
}

func TestDcvServiceRunnerError(t *testing.T) {
	runner := &stubRunner{err: fmt.Errorf("ssm failed")}
	_, err := NewDcvService(runner).Session(context.Background(), "i-head", "ubuntu")
	assert.Error(t, err)
}
