package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func makeResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseResponseError_StructuredBody(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusConflict,
		`{"error":{"code":"CONFLICT","message":"name already used"}}`), "product service")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "product service: name already used", appErr.Message)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestParseResponseError_MessageBody(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusBadRequest, `{"message":"price must be positive"}`), "product service")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, "product service: price must be positive", apperrors.UserMessage(err))
}

func TestParseResponseError_EmptyObjectNotFound(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusNotFound, `{}`), "product service")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "product service: not found", apperrors.UserMessage(err))
}

func TestParseResponseError_PlainTextBody(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusUnprocessableEntity, "quantity too large\n"), "cart service")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, "cart service: quantity too large", apperrors.UserMessage(err))
}

func TestParseResponseError_ServerError(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusBadGateway, "upstream down"), "cart service")

	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
	assert.Equal(t, http.StatusServiceUnavailable, apperrors.HTTPStatus(err))
	var srvErr *ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, http.StatusBadGateway, srvErr.Status)
}

func TestParseResponseError_OtherStatus(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusTeapot, ""), "cart service")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UPSTREAM_ERROR", appErr.Code)
	assert.Equal(t, http.StatusBadGateway, appErr.Status)
}

func TestClassify(t *testing.T) {
	assert.NoError(t, Classify(nil, "svc"))
	assert.ErrorIs(t, Classify(context.Canceled, "svc"), context.Canceled)

	notFound := apperrors.NotFound("product", 3)
	assert.Same(t, notFound, Classify(notFound, "svc"))

	err := Classify(ErrCircuitOpen, "product service")
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, "product service is unavailable", apperrors.UserMessage(err))

	assert.ErrorIs(t, Classify(errors.New("dial tcp"), "svc"), apperrors.ErrServiceUnavail)
}

func TestIsSuccess(t *testing.T) {
	assert.True(t, IsSuccess(http.StatusOK))
	assert.True(t, IsSuccess(http.StatusNoContent))
	assert.False(t, IsSuccess(http.StatusFound))
	assert.False(t, IsSuccess(http.StatusNotFound))
}
