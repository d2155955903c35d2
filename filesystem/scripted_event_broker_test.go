package filesystem

import (
	"io/ioutil"
	"path/filepath"
	"pcluster/pcui/pcluster"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptedEventBrokerPassesEventFields(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	broker := NewScriptedEventBroker(zerolog.Nop())
	broker.Subscribe("cluster_deleted", `echo "$PCUI_EVENT $PCUI_CLUSTER_NAME $PCUI_CLUSTER_REGION" > `+out, true)
	broker.Subscribe("user_created", "exit 1", true)

	require.NoError(t, broker.Publish(pcluster.NewEventClusterDeleted("demo", "eu-west-1")))

	content, err := ioutil.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "cluster_deleted demo eu-west-1", strings.TrimSpace(string(content)))
}

func TestScriptedEventBrokerMandatoryFailure(t *testing.T) {
	broker := NewScriptedEventBroker(zerolog.Nop())
	broker.Subscribe("cluster_deleted", "echo broken >&2; exit 3", true)
	err := broker.Publish(pcluster.NewEventClusterDeleted("demo", "eu-west-1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestScriptedEventBrokerOptionalFailure(t *testing.T) {
	broker := NewScriptedEventBroker(zerolog.Nop())
	broker.Subscribe("cluster_deleted", "exit 3", false)
	assert.NoError(t, broker.Publish(pcluster.NewEventClusterDeleted("demo", "eu-west-1")))
}
