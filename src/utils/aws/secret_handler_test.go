package aws_handler_test

import (
	"context"
	"errors"
	"testing"

	aws_handler "portfolio/src/utils/aws"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSecrets struct {
	secretsmanageriface.SecretsManagerAPI
	output *secretsmanager.GetSecretValueOutput
	err    error
	asked  string
}

func (s *stubSecrets) GetSecretValueWithContext(_ aws.Context, input *secretsmanager.GetSecretValueInput, _ ...request.Option) (*secretsmanager.GetSecretValueOutput, error) {
	s.asked = aws.StringValue(input.SecretId)
	return s.output, s.err
}

func TestGetSecretValue(t *testing.T) {
	t.Run("should return the secret string", func(t *testing.T) {
		stub := &stubSecrets{output: &secretsmanager.GetSecretValueOutput{SecretString: aws.String("4321")}}

		value, err := aws_handler.NewSecretManager(stub).GetSecretValue(context.Background(), "portfolio/pin")
		require.NoError(t, err)
		assert.Equal(t, "4321", value)
		assert.Equal(t, "portfolio/pin", stub.asked)
	})

	t.Run("should reject binary secrets", func(t *testing.T) {
		stub := &stubSecrets{output: &secretsmanager.GetSecretValueOutput{SecretBinary: []byte{1, 2}}}

		_, err := aws_handler.NewSecretManager(stub).GetSecretValue(context.Background(), "portfolio/pin")
		assert.Error(t, err)
	})

	t.Run("should wrap service errors", func(t *testing.T) {
		cause := errors.New("access denied")
		stub := &stubSecrets{err: cause}

		_, err := aws_handler.NewSecretManager(stub).GetSecretValue(context.Background(), "portfolio/pin")
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "portfolio/pin")
	})
}

func TestReadPIN(t *testing.T) {
	t.Run("should trim the stored pin", func(t *testing.T) {
		stub := &stubSecrets{output: &secretsmanager.GetSecretValueOutput{SecretString: aws.String(" 1234\n")}}
		handler := &aws_handler.AWSHandler{SecretManager: aws_handler.NewSecretManager(stub)}

		pin, err := handler.ReadPIN(context.Background(), "portfolio/pin")
		require.NoError(t, err)
		assert.Equal(t, "1234", pin)
	})

	t.Run("should reject an empty pin", func(t *testing.T) {
		stub := &stubSecrets{output: &secretsmanager.GetSecretValueOutput{SecretString: aws.String("  ")}}
		handler := &aws_handler.AWSHandler{SecretManager: aws_handler.NewSecretManager(stub)}

		_, err := handler.ReadPIN(context.Background(), "portfolio/pin")
		assert.Error(t, err)
	})
}
