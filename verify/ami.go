// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

package verify

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"golang.org/x/sync/errgroup"

	"github.com/syuu1228/scylla-machine-image/errors"
	"github.com/syuu1228/scylla-machine-image/logging"
)

// EC2API is the subset of the EC2 client used for artifact
// verification.
type EC2API interface {
	DescribeImages(ctx context.Context, params *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error)
}

// AMIVerifier confirms that the AMIs named in the build log actually
// exist in their regions. It is an optional deeper check behind
// --verify-ami: the log can claim an artifact that registration later
// dropped.
type AMIVerifier struct {
	// NewClient builds a region-scoped EC2 client. Replaceable in
	// tests.
	NewClient func(ctx context.Context, region string) (EC2API, error)
}

// NewAMIVerifier creates a verifier using the ambient AWS credential
// chain.
func NewAMIVerifier() *AMIVerifier {
	return &AMIVerifier{NewClient: newEC2Client}
}

func newEC2Client(ctx context.Context, region string) (EC2API, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap("load AWS configuration", region, err)
	}
	return ec2.NewFromConfig(cfg), nil
}

// VerifyArtifacts checks every artifact concurrently, one region per
// goroutine. A missing or unlisted AMI fails the whole verification.
func (v *AMIVerifier) VerifyArtifacts(ctx context.Context, artifacts []AMIArtifact) error {
	if len(artifacts) == 0 {
		return fmt.Errorf("no AMI artifacts found in build log")
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, artifact := range artifacts {
		g.Go(func() error {
			return v.verifyOne(ctx, artifact)
		})
	}
	return g.Wait()
}

func (v *AMIVerifier) verifyOne(ctx context.Context, artifact AMIArtifact) error {
	client, err := v.NewClient(ctx, artifact.Region)
	if err != nil {
		return err
	}

	out, err := client.DescribeImages(ctx, &ec2.DescribeImagesInput{
		ImageIds: []string{artifact.ID},
	})
	if err != nil {
		return errors.Wrap("describe AMI", fmt.Sprintf("%s in %s", artifact.ID, artifact.Region), err)
	}
	if len(out.Images) == 0 {
		return fmt.Errorf("AMI %s not found in %s", artifact.ID, artifact.Region)
	}

	logging.InfoContext(ctx, "verified AMI %s in %s", artifact.ID, artifact.Region)
	return nil
}
