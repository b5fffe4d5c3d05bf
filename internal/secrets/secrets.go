package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"

	"github.com/okfngroup/hr-selfservice/internal/config"
)

// Source resolves named secrets. It is injected into the condo job so tests
// can substitute a fake.
type Source interface {
	Get(ctx context.Context, name string) (string, error)
}

// NewSource creates a secret source based on configuration
func NewSource(cfg config.SecretsConfig) (Source, error) {
	switch cfg.Provider {
	case "aws":
		return NewAWSSource(cfg)
	case "env":
		return EnvSource{}, nil
	default:
		return nil, fmt.Errorf("unsupported secrets provider: %s", cfg.Provider)
	}
}

// AWSSource resolves secrets from AWS Secrets Manager.
type AWSSource struct {
	client *secretsmanager.SecretsManager
}

// NewAWSSource creates a Secrets Manager backed source
func NewAWSSource(cfg config.SecretsConfig) (*AWSSource, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return &AWSSource{client: secretsmanager.New(sess)}, nil
}

// Get fetches the current version of the named secret.
func (s *AWSSource) Get(ctx context.Context, name string) (string, error) {
	out, err := s.client.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %q: %w", name, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %q has no string value", name)
	}
	return *out.SecretString, nil
}

// EnvSource resolves secrets from environment variables, mapping a secret
// name like "hanwha-id" to HANWHA_ID. Intended for local development.
type EnvSource struct{}

// Get looks the secret up in the environment.
func (EnvSource) Get(_ context.Context, name string) (string, error) {
	key := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("secret %q not set (env %s)", name, key)
	}
	return v, nil
}
