package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SendOnceEmailStatuses(t *testing.T) {
	ctx := context.Background()
	client := NewClient(nil, false)

	successes := 0
	for _, status := range []int{200, 201, 202, 400, 401, 403, 500} {
		provider, server := newFakeProvider(t, status)
		httpClient := emailHTTPClient(ctx, "SG.secret", time.Second)

		a := client.SendOnce(ctx, Email, httpClient, server.URL+"/v3/mail/send", []byte(`{}`))
		assert.Equal(t, status, a.HTTPStatus)
		if a.Success() {
			successes++
			assert.Equal(t, 202, status)
			assert.Nil(t, a.Err)
		} else {
			assert.Equal(t, &DeliveryRejected{Channel: Email, Status: status}, a.Err)
		}

		requests := provider.Requests()
		require.Len(t, requests, 1)
		assert.Equal(t, "Bearer SG.secret", requests[0].Authorization)
		assert.Equal(t, "application/json", requests[0].ContentType)
		assert.Equal(t, `{}`, requests[0].Body)
	}
	assert.Equal(t, 1, successes)
}

func Test_SendOnceSlackStatuses(t *testing.T) {
	ctx := context.Background()
	client := NewClient(nil, true)

	successes := 0
	for _, status := range []int{200, 400, 403, 404, 500} {
		provider, server := newFakeProvider(t, status)

		a := client.SendOnce(ctx, Slack, baseHTTPClient(time.Second), server.URL+"/services/T/B/X", []byte(`{"text":"hi"}`))
		if a.Success() {
			successes++
			assert.Equal(t, 200, status)
		}

		requests := provider.Requests()
		require.Len(t, requests, 1)
		assert.Equal(t, "", requests[0].Authorization, "webhooks carry no bearer token")
	}
	assert.Equal(t, 1, successes)
}

func Test_SendOnceTransportError(t *testing.T) {
	_, server := newFakeProvider(t, 202)
	url := server.URL + "/v3/mail/send"
	server.Close()

	a := NewClient(nil, false).SendOnce(context.Background(), Email, baseHTTPClient(time.Second), url, []byte(`{}`))
	assert.False(t, a.Success())
	assert.Equal(t, 0, a.HTTPStatus)
	assert.IsType(t, &TransportError{}, a.Err)
}

func Test_ChannelAccepts(t *testing.T) {
	assert.True(t, Email.Accepts(202))
	assert.False(t, Email.Accepts(200))
	assert.True(t, Slack.Accepts(200))
	assert.False(t, Slack.Accepts(202))
	assert.False(t, Channel("discord").Accepts(200))
}
