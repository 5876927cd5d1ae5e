package cli

import (
	"strings"
	"testing"

	"github.com/jackson-sweet/opsapp-sub001/internal/backend"
	"github.com/jackson-sweet/opsapp-sub001/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevToken(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "dev", "token", "--subject", "tech-7", "--secret", "s3cret")
	require.NoError(t, err)

	subject, err := backend.ValidateToken(strings.TrimSpace(out), "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "tech-7", subject)
}

func TestDevToken_SecretFromConfig(t *testing.T) {
	env := testApp(t)
	env.app.Config = &config.Config{Backend: config.BackendOptions{Secret: "from-env"}}

	out, err := executeCmd(t, env.app, "dev", "token", "--subject", "tech-7")
	require.NoError(t, err)

	_, err = backend.ValidateToken(strings.TrimSpace(out), "from-env")
	require.NoError(t, err)
}

func TestDevToken_NoSecret(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "dev", "token", "--subject", "tech-7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no signing secret")
}
