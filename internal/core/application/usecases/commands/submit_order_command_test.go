package commands_test

import (
	"testing"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubmitOrderCommand_ValidInput(t *testing.T) {
	user := commandTestUser(t)
	req := productOrderRequest()

	cmd, err := commands.NewSubmitOrderCommand(user, req)

	require.NoError(t, err)
	assert.True(t, cmd.User().IsEqual(user))
	assert.Equal(t, "PRODUCT_ORDER", cmd.Request().OrderType)
}

func TestNewSubmitOrderCommand_InvalidUser(t *testing.T) {
	_, err := commands.NewSubmitOrderCommand(kernel.User{}, productOrderRequest())
	require.Error(t, err)
}
