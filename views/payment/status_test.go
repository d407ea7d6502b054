package payment

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/viewmodel"
)

func TestStatusRendersSupportOnlyWhenAsked(t *testing.T) {
	var buf bytes.Buffer
	err := Status(viewmodel.Layout{Page: "payment"}, viewmodel.PaymentStatus{
		Title:    "Payment not completed",
		Message:  "Your payment was not confirmed.",
		RetryURL: "/subscription",
	}).Render(context.Background(), &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `href="/subscription"`)
	assert.NotContains(t, buf.String(), "mailto:")

	buf.Reset()
	err = Status(viewmodel.Layout{}, viewmodel.PaymentStatus{
		Title:        "Something went wrong",
		Message:      "<b>oops</b>",
		RetryURL:     "/subscription",
		SupportEmail: "support@provenpro.test",
		ShowSupport:  true,
	}).Render(context.Background(), &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "mailto:support@provenpro.test")
	assert.Contains(t, buf.String(), "&lt;b&gt;oops&lt;/b&gt;")
}
