// Package ec2 implements the cloud.Provider interface on top of the AWS
// EC2 API. Credentials come from the shared config profile named by the
// CLOUD_PROFILE setting (clouds are addressed by profile, not by hardcoded
// keys).
package ec2

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsretry "github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/jaskaranhundal/cloud-node-pod-cleanup-tool/pkg/cloud"
)

// Provider is the EC2-backed cloud.Provider.
type Provider struct {
	client *awsec2.Client
	region string
}

var _ cloud.Provider = (*Provider)(nil)

// NewProvider builds an EC2 provider from the named shared-config profile.
// An empty profile falls back to the default AWS credential chain.
func NewProvider(ctx context.Context, profile, region string) (*Provider, error) {
	opts := []func(*config.LoadOptions) error{}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config for profile %q: %w", profile, err)
	}

	return &Provider{
		client: awsec2.NewFromConfig(cfg),
		region: cfg.Region,
	}, nil
}

// ListInstances returns every non-terminated instance in the region.
func (p *Provider) ListInstances(ctx context.Context) ([]cloud.Instance, error) {
	input := &awsec2.DescribeInstancesInput{
		Filters: []types.Filter{
			{
				Name:   aws.String("instance-state-name"),
				Values: []string{"pending", "running", "stopping", "stopped", "shutting-down"},
			},
		},
	}

	instances := []cloud.Instance{}
	paginator := awsec2.NewDescribeInstancesPaginator(p.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error querying EC2 instances: %w", err)
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				instances = append(instances, fromEC2(inst))
			}
		}
	}

	return instances, nil
}

// GetInstance returns the current view of one instance.
func (p *Provider) GetInstance(ctx context.Context, id string) (*cloud.Instance, error) {
	out, err := p.client.DescribeInstances(ctx, &awsec2.DescribeInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		return nil, fmt.Errorf("error describing EC2 instance %s: %w", id, err)
	}

	for _, reservation := range out.Reservations {
		for _, inst := range reservation.Instances {
			converted := fromEC2(inst)
			return &converted, nil
		}
	}
	return nil, fmt.Errorf("EC2 instance %s not found", id)
}

// StartInstance issues an asynchronous start request.
func (p *Provider) StartInstance(ctx context.Context, id string) error {
	_, err := p.client.StartInstances(ctx, &awsec2.StartInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		return fmt.Errorf("error starting EC2 instance %s: %w", id, err)
	}
	return nil
}

// StopInstance issues an asynchronous stop request.
func (p *Provider) StopInstance(ctx context.Context, id string) error {
	_, err := p.client.StopInstances(ctx, &awsec2.StopInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		return fmt.Errorf("error stopping EC2 instance %s: %w", id, err)
	}
	return nil
}

// Validate confirms the profile resolves and the API answers. A single
// bounded DescribeInstances stands in for a dedicated ping endpoint.
// Failures the SDK considers retryable (timeouts, throttling, 5xx) come
// back as cloud.TransientError; auth and request errors are surfaced
// directly so callers do not retry them.
func (p *Provider) Validate(ctx context.Context) error {
	_, err := p.client.DescribeInstances(ctx, &awsec2.DescribeInstancesInput{
		MaxResults: aws.Int32(5),
	})
	if err != nil {
		return classify(fmt.Errorf("error validating EC2 connection in %s: %w", p.region, err))
	}
	return nil
}

// classify wraps retryable SDK failures in cloud.TransientError, reusing
// the SDK's own retryability rules rather than pattern-matching error
// strings.
func classify(err error) error {
	if err == nil {
		return nil
	}
	retryables := awsretry.IsErrorRetryables(awsretry.DefaultRetryables)
	if retryables.IsErrorRetryable(err) == aws.TrueTernary {
		return &cloud.TransientError{Err: err}
	}
	return err
}

func fromEC2(inst types.Instance) cloud.Instance {
	out := cloud.Instance{
		State:      mapState(inst.State),
		ObservedAt: time.Now().UTC(),
	}
	if inst.InstanceId != nil {
		out.ID = *inst.InstanceId
	}
	if inst.PrivateIpAddress != nil {
		out.PrivateIP = *inst.PrivateIpAddress
	}
	if inst.LaunchTime != nil {
		out.LaunchedAt = *inst.LaunchTime
	}
	out.Name = nameTag(inst.Tags)
	return out
}

// nameTag extracts the display name from the Name tag, falling back to
// empty when untagged.
func nameTag(tags []types.Tag) string {
	for _, tag := range tags {
		if tag.Key != nil && *tag.Key == "Name" && tag.Value != nil {
			return *tag.Value
		}
	}
	return ""
}

func mapState(state *types.InstanceState) cloud.State {
	if state == nil {
		return cloud.StateUnknown
	}
	switch state.Name {
	case types.InstanceStateNameRunning:
		return cloud.StateActive
	case types.InstanceStateNameStopped:
		return cloud.StateShutoff
	case types.InstanceStateNamePending, types.InstanceStateNameStopping, types.InstanceStateNameShuttingDown:
		return cloud.StateTransition
	case types.InstanceStateNameTerminated:
		return cloud.StateError
	default:
		return cloud.StateUnknown
	}
}
