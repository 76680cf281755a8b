package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formdesk/internal/message/classify"
)

func TestService_Value(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stored value", func(t *testing.T) {
		svc, err := New(NewMemory(map[string]string{OptionEmailField: "contact-email"}))
		require.NoError(t, err)

		v, err := svc.Value(ctx, OptionEmailField)
		require.NoError(t, err)
		assert.Equal(t, "contact-email", v)
	})

	t.Run("unset option falls back to default", func(t *testing.T) {
		svc, err := New(NewMemory(nil))
		require.NoError(t, err)

		v, err := svc.Value(ctx, OptionLabelField)
		require.NoError(t, err)
		assert.Equal(t, "[pageTitle]", v)
	})

	t.Run("unset option without default is empty", func(t *testing.T) {
		svc, err := New(NewMemory(nil))
		require.NoError(t, err)

		v, err := svc.Value(ctx, OptionReplyEmail)
		require.NoError(t, err)
		assert.Equal(t, "", v)
	})
}

func TestService_ParsingSchema(t *testing.T) {
	ctx := context.Background()

	svc, err := New(NewMemory(map[string]string{
		OptionLabelField: "[topic]",
		OptionEmailField: "your-email",
	}))
	require.NoError(t, err)

	schema, err := svc.ParsingSchema(ctx)
	require.NoError(t, err)

	assert.True(t, schema.Label.IsTemplate())
	assert.Equal(t, "topic", schema.Label.Name())
	assert.Equal(t, "your-email", schema.Email.Raw())
	assert.Equal(t, "your-name", schema.Name.Raw())
	assert.Equal(t, "_wpcf7", schema.Form.Raw())
}

func TestService_ReplyAddress(t *testing.T) {
	svc, err := New(NewMemory(map[string]string{
		OptionReplyEmail:     "support@example.com",
		OptionReplyEmailName: "Formdesk Support",
	}))
	require.NoError(t, err)

	name, addr, err := svc.ReplyAddress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Formdesk Support", name)
	assert.Equal(t, "support@example.com", addr)
}

func TestClassifySchemaRoundTrip(t *testing.T) {
	// The default schema labels by page title.
	svc, err := New(NewMemory(nil))
	require.NoError(t, err)

	schema, err := svc.ParsingSchema(context.Background())
	require.NoError(t, err)

	res := classify.Classify(map[string]string{"your-name": "Jane"}, nil, schema, classify.DefaultExclusions())
	assert.Equal(t, classify.LabelPageTitle, res.Label.Kind)
	assert.Equal(t, "Jane", res.Primary[classify.SlotName])
}
