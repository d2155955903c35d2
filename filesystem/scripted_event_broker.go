package filesystem

import (
	"context"
	"os"
	"os/exec"
	"pcluster/pcui/pcluster"
	"pcluster/pcui/util"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const DefaultScriptTimeout = 5 * time.Minute

type hook struct {
	Event     string
	Script    string
	Mandatory bool
}

// ScriptedEventBroker runs shell hooks for console events. Event fields are
// passed as PCUI_<KEY> environment variables.
type ScriptedEventBroker struct {
	logger  zerolog.Logger
	hooks   []hook
	timeout time.Duration
}

func NewScriptedEventBroker(logger zerolog.Logger) *ScriptedEventBroker {
	return &ScriptedEventBroker{logger: logger, timeout: DefaultScriptTimeout}
}

// Subscribe registers script for event. A failing mandatory script fails
// the operation that published the event.
func (broker *ScriptedEventBroker) Subscribe(event, script string, mandatory bool) {
	broker.hooks = append(broker.hooks, hook{Event: event, Script: script, Mandatory: mandatory})
}

func (broker *ScriptedEventBroker) Publish(event pcluster.Event) error {
	for _, h := range broker.hooks {
		if h.Event != event.Name() {
			continue
		}
		logger := broker.logger.With().Str("script", h.Script).Str("event", event.Name()).Logger()
		logger.Info().Msg("running hook")

		out, err := broker.run(h.Script, event)
		if err == nil {
			continue
		}
		if h.Mandatory {
			return util.NewError(err, "mandatory hook failed: %s", strings.TrimSpace(string(out)))
		}
		logger.Warn().Err(err).Str("out", string(out)).Msg("hook failed")
	}
	return nil
}

func (broker *ScriptedEventBroker) run(script string, event pcluster.Event) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), broker.timeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, "sh", "-c", script)
	cmd.Env = append(os.Environ(), eventEnv(event)...)
	return cmd.CombinedOutput()
}

func eventEnv(event pcluster.Event) []string {
	env := []string{}
	for key, value := range event.Plain() {
		env = append(env, "PCUI_"+strings.ToUpper(key)+"="+value)
	}
	sort.Strings(env)
	return env
}
