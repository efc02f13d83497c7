package aws_handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
)

type AWSHandler struct {
	SecretManager *SecretManager
}

// NewAWSHandler opens an AWS session for region. Credentials come from the default provider
// chain.
func NewAWSHandler(region string) (*AWSHandler, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("failed to open aws session: %w", err)
	}
	return &AWSHandler{SecretManager: NewSecretManager(secretsmanager.New(sess))}, nil
}

// ReadPIN loads the security PIN kept in secretID. Surrounding whitespace is ignored and an
// empty secret is an error.
func (h *AWSHandler) ReadPIN(ctx context.Context, secretID string) (string, error) {
	pin, err := h.SecretManager.GetSecretValue(ctx, secretID)
	if err != nil {
		return "", err
	}
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return "", fmt.Errorf("secret %s holds an empty pin", secretID)
	}
	return pin, nil
}
