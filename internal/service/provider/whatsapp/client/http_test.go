package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	"gitee.com/flycash/whatsapp-notify/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingTransport 统计真正发出的请求数
type countingTransport struct {
	count int64
	next  http.RoundTripper
}

func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	atomic.AddInt64(&t.count, 1)
	return t.next.RoundTrip(req)
}

func testCreds(baseURL string) domain.Credentials {
	return domain.Credentials{
		APIKey:    "test-key",
		BaseURL:   baseURL,
		ChannelID: "ch-1",
	}
}

func TestSend_MissingCredentials(t *testing.T) {
	t.Parallel()
	transport := &countingTransport{next: http.DefaultTransport}
	c := NewHTTPClient()
	c.SetTransport(transport)

	testCases := []struct {
		name  string
		creds domain.Credentials
	}{
		{name: "缺APIKey", creds: domain.Credentials{BaseURL: "http://x", ChannelID: "c"}},
		{name: "缺BaseURL", creds: domain.Credentials{APIKey: "k", ChannelID: "c"}},
		{name: "缺ChannelID", creds: domain.Credentials{APIKey: "k", BaseURL: "http://x"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Send(context.Background(), SendReq{Credentials: tc.creds, Payload: domain.Payload{}})
			assert.ErrorIs(t, err, errs.ErrMissingCredentials)
		})
	}
	// 快速失败，不允许发出任何网络请求
	assert.Equal(t, int64(0), atomic.LoadInt64(&transport.count))
}

func TestSend_Classification(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		statusCode int
		body       string
		wantErr    error
		wantMsg    string
	}{
		{
			name:       "2xx且无error字段为成功",
			statusCode: http.StatusOK,
			body:       `{"messages":[{"id":"wamid.123"}]}`,
		},
		{
			name:       "HTTP 200但带error仍是API错误",
			statusCode: http.StatusOK,
			body:       `{"error":{"message":"bad channel"}}`,
			wantErr:    errs.ErrAPI,
			wantMsg:    "bad channel",
		},
		{
			name:       "非2xx带error同样归类为API错误",
			statusCode: http.StatusUnauthorized,
			body:       `{"error":{"message":"invalid token"}}`,
			wantErr:    errs.ErrAPI,
			wantMsg:    "invalid token",
		},
		{
			name:       "响应体不是JSON按成功处理",
			statusCode: http.StatusOK,
			body:       "OK",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var gotPath, gotAuth string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotAuth = r.Header.Get("Authorization")
				w.WriteHeader(tc.statusCode)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewHTTPClient()
			resp, err := c.Send(context.Background(), SendReq{
				Credentials: testCreds(srv.URL),
				Payload:     domain.Payload{"to": "915551234567"},
			})

			assert.Equal(t, "/api/v1.0/messages/send-template/ch-1", gotPath)
			assert.Equal(t, "Bearer test-key", gotAuth)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.wantErr)
				assert.ErrorContains(t, err, tc.wantMsg)
				return
			}
			require.NoError(t, err)
			if tc.body == `{"messages":[{"id":"wamid.123"}]}` {
				assert.Equal(t, "wamid.123", resp.MessageID)
			}
		})
	}
}

func TestSend_TransportError(t *testing.T) {
	t.Parallel()
	c := NewHTTPClient()
	// 不可达地址
	creds := testCreds("http://127.0.0.1:1")
	_, err := c.Send(context.Background(), SendReq{Credentials: creds, Payload: domain.Payload{}})
	assert.ErrorIs(t, err, errs.ErrTransport)
}

func TestSend_TrailingSlashNormalized(t *testing.T) {
	t.Parallel()
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewHTTPClient()
	creds := testCreds(srv.URL + "/")
	_, err := c.Send(context.Background(), SendReq{Credentials: creds, Payload: domain.Payload{}})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1.0/messages/send-template/ch-1", gotPath)
}

func TestListChannels(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1.0/channels", r.URL.Path)
		_, _ = w.Write([]byte(`{"channels":[{"id":"ch-1","name":"store","number":"919999999999"}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient()
	channels, err := c.ListChannels(context.Background(), testCreds(srv.URL))
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, "ch-1", channels[0].ID)
	assert.Equal(t, "919999999999", channels[0].Number)
}

func TestTemplatePayload(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1.0/template-payload/919999999999/order_book", r.URL.Path)
		_, _ = w.Write([]byte(`{"template":{"name":"order_book","components":[]}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient()
	payload, err := c.TemplatePayload(context.Background(), testCreds(srv.URL), "919999999999", "order_book")
	require.NoError(t, err)
	tpl, ok := payload["template"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "order_book", tpl["name"])
}
