package ssm

import (
	"context"
	"fmt"
	"pcluster/pcui/util"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs/cloudwatchlogsiface"
	awsssm "github.com/aws/aws-sdk-go/service/ssm"
	"github.com/aws/aws-sdk-go/service/ssm/ssmiface"
	"github.com/rs/zerolog"
)

const shellDocument = "AWS-RunShellScript"

// Runner implements pcluster.CommandRunner with SSM Run Command. Output is
// sent to a CloudWatch log group and read back from there.
type Runner struct {
	ssm      ssmiface.SSMAPI
	logs     cloudwatchlogsiface.CloudWatchLogsAPI
	logGroup string
	logger   zerolog.Logger
}

func NewRunner(ssm ssmiface.SSMAPI, logs cloudwatchlogsiface.CloudWatchLogsAPI, logGroup string, logger zerolog.Logger) *Runner {
	return &Runner{ssm: ssm, logs: logs, logGroup: logGroup, logger: logger}
}

func (r *Runner) Run(ctx context.Context, instanceId string, commands []string) (string, error) {
	out, err := r.ssm.SendCommandWithContext(ctx, &awsssm.SendCommandInput{
		DocumentName: aws.String(shellDocument),
		InstanceIds:  aws.StringSlice([]string{instanceId}),
		Parameters:   map[string][]*string{"commands": aws.StringSlice(commands)},
		CloudWatchOutputConfig: &awsssm.CloudWatchOutputConfig{
			CloudWatchOutputEnabled: aws.Bool(true),
			CloudWatchLogGroupName:  aws.String(r.logGroup),
		},
	})
	if err != nil {
		return "", util.NewError(err, "cannot send command to %s", instanceId)
	}
	commandId := aws.StringValue(out.Command.CommandId)
	err = r.ssm.WaitUntilCommandExecutedWithContext(ctx, &awsssm.GetCommandInvocationInput{
		CommandId:  aws.String(commandId),
		InstanceId: aws.String(instanceId),
	})
	if err != nil {
		return "", util.NewError(err, "command %s did not complete", commandId)
	}
	return r.ReadOutput(ctx, commandId, instanceId)
}

// ReadOutput collects the stdout stream of a command and deletes the
// stream, also when reading fails.
func (r *Runner) ReadOutput(ctx context.Context, commandId, instanceId string) (string, error) {
	stream := fmt.Sprintf("%s/%s/aws-runShellScript/stdout", commandId, instanceId)
	logger := r.logger.With().Str("command", commandId).Str("stream", stream).Logger()
	defer r.deleteStream(ctx, stream, logger)

	lines := []string{}
	input := &cloudwatchlogs.GetLogEventsInput{
		LogGroupName:  aws.String(r.logGroup),
		LogStreamName: aws.String(stream),
		StartFromHead: aws.Bool(true),
	}
	for {
		out, err := r.logs.GetLogEventsWithContext(ctx, input)
		if err != nil {
			logger.Error().Err(err).Msg("cannot read command output")
			return "", util.NewError(err, "cannot read output of command %s", commandId)
		}
		for _, event := range out.Events {
			if message := strings.TrimSpace(aws.StringValue(event.Message)); message != "" {
				lines = append(lines, message)
			}
		}
		forward := aws.StringValue(out.NextForwardToken)
		if forward == "" || NormalizeLogsToken(forward) == NormalizeLogsToken(aws.StringValue(out.NextBackwardToken)) {
			break
		}
		input.NextToken = out.NextForwardToken
	}
	logger.Debug().Int("lines", len(lines)).Msg("read command output")
	return strings.Join(lines, "\n"), nil
}

func (r *Runner) deleteStream(ctx context.Context, stream string, logger zerolog.Logger) {
	_, err := r.logs.DeleteLogStreamWithContext(ctx, &cloudwatchlogs.DeleteLogStreamInput{
		LogGroupName:  aws.String(r.logGroup),
		LogStreamName: aws.String(stream),
	})
	if err != nil {
		logger.Error().Err(err).Msg("cannot delete log stream")
		return
	}
	logger.Debug().Msg("log stream deleted")
}

// NormalizeLogsToken drops the direction prefix of a CloudWatch Logs token
// so forward and backward tokens can be compared.
func NormalizeLogsToken(token string) string {
	if i := strings.Index(token, "/"); i >= 0 {
		return token[i+1:]
	}
	return token
}
