package costexplorer

import (
	"context"
	"errors"
	"fmt"
	"pcluster/pcui/pcluster"
	"pcluster/pcui/util"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	ce "github.com/aws/aws-sdk-go/service/costexplorer"
	"github.com/aws/aws-sdk-go/service/costexplorer/costexploreriface"
)

const (
	ClusterNameTag = "parallelcluster:cluster-name"
	userDefined    = "UserDefined"
	activeStatus   = "Active"
	dateLayout     = "2006-01-02"
)

var ErrNotActive = errors.New("cost monitoring is not active")

// ActivationError carries the per-tag failures of an activation request.
type ActivationError struct {
	Errors []*ce.UpdateCostAllocationTagsStatusError
}

func (e *ActivationError) Error() string {
	messages := []string{}
	for _, err := range e.Errors {
		messages = append(messages, fmt.Sprintf("%s: %s", aws.StringValue(err.TagKey), aws.StringValue(err.Message)))
	}
	return "unable to activate cost monitoring, errors: " + strings.Join(messages, "; ")
}

// Client implements pcluster.CostRepository over Cost Explorer.
type Client struct {
	ce   costexploreriface.CostExplorerAPI
	tags []string
}

func New(api costexploreriface.CostExplorerAPI, tags []string) (*Client, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("cost allocation tags cannot be empty")
	}
	return &Client{ce: api, tags: tags}, nil
}

func (c *Client) Activate(ctx context.Context) error {
	entries := []*ce.CostAllocationTagStatusEntry{}
	for _, tag := range c.tags {
		entries = append(entries, &ce.CostAllocationTagStatusEntry{
			TagKey: aws.String(tag),
			Status: aws.String(activeStatus),
		})
	}
	out, err := c.ce.UpdateCostAllocationTagsStatusWithContext(ctx, &ce.UpdateCostAllocationTagsStatusInput{
		CostAllocationTagsStatus: entries,
	})
	if err != nil {
		return util.NewError(err, "cannot update cost allocation tags")
	}
	if len(out.Errors) > 0 {
		return &ActivationError{Errors: out.Errors}
	}
	return nil
}

// IsActive is true when every cost allocation tag exists and is active.
func (c *Client) IsActive(ctx context.Context) (bool, error) {
	tags, err := c.Tags(ctx)
	if err != nil {
		return false, err
	}
	if len(tags) == 0 {
		return false, nil
	}
	for _, tag := range tags {
		if aws.StringValue(tag.Status) != activeStatus {
			return false, nil
		}
	}
	return true, nil
}

func (c *Client) Tags(ctx context.Context) ([]*ce.CostAllocationTag, error) {
	out, err := c.ce.ListCostAllocationTagsWithContext(ctx, &ce.ListCostAllocationTagsInput{
		TagKeys: aws.StringSlice(c.tags),
		Type:    aws.String(userDefined),
	})
	if err != nil {
		return nil, util.NewError(err, "cannot list cost allocation tags")
	}
	return out.CostAllocationTags, nil
}

// Data returns the monthly unblended cost of a cluster. The end date is
// exclusive.
func (c *Client) Data(ctx context.Context, cluster string, start, end time.Time) ([]pcluster.CostData, error) {
	input := &ce.GetCostAndUsageInput{
		TimePeriod: &ce.DateInterval{
			Start: aws.String(start.UTC().Format(dateLayout)),
			End:   aws.String(end.UTC().Format(dateLayout)),
		},
		Granularity: aws.String(ce.GranularityMonthly),
		Metrics:     aws.StringSlice([]string{"UnblendedCost"}),
		Filter: &ce.Expression{
			Tags: &ce.TagValues{
				Key:    aws.String(ClusterNameTag),
				Values: aws.StringSlice([]string{cluster}),
			},
		},
	}
	costs := []pcluster.CostData{}
	for {
		out, err := c.ce.GetCostAndUsageWithContext(ctx, input)
		if err != nil {
			if aerr, ok := err.(awserr.Error); ok && aerr.Code() == ce.ErrCodeDataUnavailableException {
				return nil, ErrNotActive
			}
			return nil, util.NewError(err, "cannot get cost data")
		}
		for _, result := range out.ResultsByTime {
			costs = append(costs, costData(result))
		}
		if aws.StringValue(out.NextPageToken) == "" {
			return costs, nil
		}
		input.NextPageToken = out.NextPageToken
	}
}

func costData(result *ce.ResultByTime) pcluster.CostData {
	data := pcluster.CostData{}
	if result.TimePeriod != nil {
		data.Period = pcluster.CostPeriod{
			Start: aws.StringValue(result.TimePeriod.Start),
			End:   aws.StringValue(result.TimePeriod.End),
		}
	}
	if metric, ok := result.Total["UnblendedCost"]; ok && metric != nil {
		data.Amount, _ = strconv.ParseFloat(aws.StringValue(metric.Amount), 64)
		data.Unit = aws.StringValue(metric.Unit)
	}
	return data
}
