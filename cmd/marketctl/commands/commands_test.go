package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	rootCmd.SetArgs([]string{"token", "seller@campus.edu"})
	assert.ErrorContains(t, rootCmd.Execute(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "marketctl-secret")
	rootCmd.SetArgs([]string{"token", "seller@campus.edu", "--ttl", "1m"})
	assert.NoError(t, rootCmd.Execute())
}

func TestTokenRequiresEmail(t *testing.T) {
	rootCmd.SetArgs([]string{"token"})
	assert.Error(t, rootCmd.Execute())
}

func TestSeedWithoutPersistentStore(t *testing.T) {
	t.Setenv("STORE_TYPE", "static")
	t.Setenv("LOG_LEVEL", "error")
	rootCmd.SetArgs([]string{"seed"})
	assert.ErrorContains(t, rootCmd.Execute(), "no persistent store")
}
